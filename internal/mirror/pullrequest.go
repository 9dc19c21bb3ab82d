package mirror

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/logfields"
)

// PullRequest is a snapshot of an open upstream pull request.
type PullRequest struct {
	Number     int
	HeadCommit string
	HeadBranch string
	// HeadOwner is the login of the owner of the head repository.
	HeadOwner string
	LogFields []zap.Field
}

func NewPullRequest(nr int, headCommit, headBranch, headOwner string) (*PullRequest, error) {
	if nr <= 0 {
		return nil, fmt.Errorf("number is %d, must be >0", nr)
	}

	if headCommit == "" {
		return nil, errors.New("head commit is empty")
	}

	if headBranch == "" {
		return nil, errors.New("head branch is empty")
	}

	return &PullRequest{
		Number:     nr,
		HeadCommit: headCommit,
		HeadBranch: headBranch,
		HeadOwner:  headOwner,
		LogFields: []zap.Field{
			logfields.PullRequest(nr),
			logfields.Branch(headBranch),
			logfields.Commit(headCommit),
			logfields.HeadOwner(headOwner),
		},
	}, nil
}

func (p *PullRequest) String() string {
	return fmt.Sprintf("#%d (%s:%s)", p.Number, p.HeadOwner, p.HeadBranch)
}
