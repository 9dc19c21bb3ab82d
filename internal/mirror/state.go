package mirror

// MirrorStatus is the result of looking up the state of a mirror branch.
type MirrorStatus int

const (
	MirrorStatusUndefined MirrorStatus = iota
	// MirrorFound means the mirror branch exists and records a commit.
	MirrorFound
	// MirrorNotFound means the mirror branch or the recorded file does
	// not exist.
	MirrorNotFound
	// MirrorLookupFailed means the state could not be determined.
	MirrorLookupFailed
)

func (s MirrorStatus) String() string {
	switch s {
	case MirrorFound:
		return "found"
	case MirrorNotFound:
		return "not_found"
	case MirrorLookupFailed:
		return "failed"
	default:
		return "undefined"
	}
}

// MirrorState is the state of a mirror branch.
type MirrorState struct {
	Status MirrorStatus
	// Commit is the upstream commit recorded in the mirror branch, it is
	// only set when Status is MirrorFound.
	Commit string
	// Err is the cause of a MirrorLookupFailed status.
	Err error
}
