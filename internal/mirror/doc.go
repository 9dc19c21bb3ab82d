// Package mirror reconciles open upstream pull requests with their mirror
// branches in a CI-control repository.
//
// For every open, labeled upstream pull request whose head branch is in a
// repository of the canonical owner, a mirror branch named
// automated-<source>-update/for-pr-<number> is expected to exist in the
// control repository. A file (usually a git submodule) in the mirror branch
// records the upstream commit the mirror tracks.
// If the recorded commit differs from the head commit of the pull request or
// the mirror branch does not exist, a workflow_dispatch event is sent to the
// control repository. The triggered workflow creates or updates the mirror
// branch.
//
// Mirror lookups fail open: when the recorded commit can not be retrieved
// because of an error other than a not-found response, the workflow is
// dispatched anyway. A redundant CI run is preferred over a missed update.
//
// A Reconciler does not keep state between runs. Running it multiple times
// for the same upstream state is safe, pull requests whose mirror is uptodate
// are not dispatched again.
//
// Known Issues:
//   - Only the first page (at most 100) of open pull requests is processed.
package mirror
