package mirror

// Decision is the action that is taken for a pull request.
type Decision int

const (
	DecisionUndefined Decision = iota
	// DecisionSkipForeignOwner is taken for pull requests whose head
	// branch is not in a repository of the canonical owner.
	DecisionSkipForeignOwner
	// DecisionSkipFiltered is taken for pull requests that do not match
	// the configured pull request filter.
	DecisionSkipFiltered
	// DecisionInSync is taken when the mirror records the head commit.
	DecisionInSync
	// DecisionDispatchOutdated is taken when the mirror records a
	// different commit.
	DecisionDispatchOutdated
	// DecisionDispatchMissing is taken when the mirror does not exist.
	DecisionDispatchMissing
	// DecisionDispatchLookupFailed is taken when the mirror state could
	// not be retrieved.
	DecisionDispatchLookupFailed
)

func (d Decision) String() string {
	switch d {
	case DecisionSkipForeignOwner:
		return "skip_foreign_owner"
	case DecisionSkipFiltered:
		return "skip_filtered"
	case DecisionInSync:
		return "in_sync"
	case DecisionDispatchOutdated:
		return "dispatch_outdated"
	case DecisionDispatchMissing:
		return "dispatch_missing"
	case DecisionDispatchLookupFailed:
		return "dispatch_lookup_failed"
	default:
		return "undefined"
	}
}

// Dispatch returns true if a CI workflow must be triggered.
func (d Decision) Dispatch() bool {
	switch d {
	case DecisionDispatchOutdated, DecisionDispatchMissing, DecisionDispatchLookupFailed:
		return true
	default:
		return false
	}
}

// Decide compares the head commit of pr with the mirror state.
// A failed lookup results in a dispatch, the same as a missing mirror.
func Decide(pr *PullRequest, state *MirrorState) Decision {
	switch state.Status {
	case MirrorFound:
		if state.Commit == pr.HeadCommit {
			return DecisionInSync
		}

		return DecisionDispatchOutdated

	case MirrorNotFound:
		return DecisionDispatchMissing

	case MirrorLookupFailed:
		return DecisionDispatchLookupFailed

	default:
		return DecisionUndefined
	}
}

const (
	inputMirrorBranch   = "pr_branch_name"
	inputUpstreamBranch = "gutenberg_branch_name"
)

// DispatchRequest are the parameters of a CI workflow run.
type DispatchRequest struct {
	// Ref is the branch of the control repository the workflow runs on.
	Ref            string
	MirrorBranch   string
	UpstreamBranch string
}

// Inputs returns the workflow_dispatch inputs.
func (d *DispatchRequest) Inputs() map[string]string {
	return map[string]string{
		inputMirrorBranch:   d.MirrorBranch,
		inputUpstreamBranch: d.UpstreamBranch,
	}
}
