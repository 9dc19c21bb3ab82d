package logfields

import "go.uber.org/zap"

func PullRequest(val int) zap.Field {
	return zap.Int("github.pull_request", val)
}

func Repository(val string) zap.Field {
	return zap.String("git.repository", val)
}

func RepositoryOwner(val string) zap.Field {
	return zap.String("github.repository_owner", val)
}

func HeadOwner(val string) zap.Field {
	return zap.String("github.head_repository_owner", val)
}

func Branch(val string) zap.Field {
	return zap.String("git.branch", val)
}

func MirrorBranch(val string) zap.Field {
	return zap.String("git.mirror_branch", val)
}

func Commit(val string) zap.Field {
	return zap.String("git.commit", val)
}

func MirrorCommit(val string) zap.Field {
	return zap.String("git.mirror_commit", val)
}
