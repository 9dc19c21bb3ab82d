package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	pr, err := NewPullRequest(1, commitA, "rnmobile/a", canonicalOwner)
	require.NoError(t, err)

	testcases := []struct {
		name     string
		state    MirrorState
		expected Decision
	}{
		{
			name:     "foundEqual",
			state:    MirrorState{Status: MirrorFound, Commit: commitA},
			expected: DecisionInSync,
		},
		{
			name:     "foundDifferent",
			state:    MirrorState{Status: MirrorFound, Commit: commitB},
			expected: DecisionDispatchOutdated,
		},
		{
			name:     "notFound",
			state:    MirrorState{Status: MirrorNotFound},
			expected: DecisionDispatchMissing,
		},
		{
			name:     "lookupFailed",
			state:    MirrorState{Status: MirrorLookupFailed, Err: errors.New("timeout")},
			expected: DecisionDispatchLookupFailed,
		},
		{
			name:     "undefined",
			state:    MirrorState{},
			expected: DecisionUndefined,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Decide(pr, &tc.state))
		})
	}
}

func TestLookupFailedDispatchesLikeNotFound(t *testing.T) {
	pr, err := NewPullRequest(1, commitA, "rnmobile/a", canonicalOwner)
	require.NoError(t, err)

	notFound := Decide(pr, &MirrorState{Status: MirrorNotFound})
	failed := Decide(pr, &MirrorState{Status: MirrorLookupFailed})

	assert.NotEqual(t, notFound, failed)
	assert.Equal(t, notFound.Dispatch(), failed.Dispatch())
	assert.True(t, failed.Dispatch())
}

func TestDecisionDispatch(t *testing.T) {
	dispatching := map[Decision]bool{
		DecisionUndefined:            false,
		DecisionSkipForeignOwner:     false,
		DecisionSkipFiltered:         false,
		DecisionInSync:               false,
		DecisionDispatchOutdated:     true,
		DecisionDispatchMissing:      true,
		DecisionDispatchLookupFailed: true,
	}

	for d, expected := range dispatching {
		assert.Equal(t, expected, d.Dispatch(), d.String())
	}
}

func TestDispatchRequestInputs(t *testing.T) {
	req := DispatchRequest{
		Ref:            "trunk",
		MirrorBranch:   "automated-gutenberg-update/for-pr-11",
		UpstreamBranch: "rnmobile/feature",
	}

	assert.Equal(t, map[string]string{
		"pr_branch_name":        "automated-gutenberg-update/for-pr-11",
		"gutenberg_branch_name": "rnmobile/feature",
	}, req.Inputs())
}

func TestNewPullRequestValidation(t *testing.T) {
	_, err := NewPullRequest(0, commitA, "a", canonicalOwner)
	assert.Error(t, err)

	_, err = NewPullRequest(1, "", "a", canonicalOwner)
	assert.Error(t, err)

	_, err = NewPullRequest(1, commitA, "", canonicalOwner)
	assert.Error(t, err)

	pr, err := NewPullRequest(1, commitA, "a", "")
	require.NoError(t, err)
	assert.Equal(t, "#1 (:a)", pr.String())
}
