package mirror

import "fmt"

// BranchName returns the name of the mirror branch in the control repository
// for the upstream pull request prNumber.
// source names the upstream project, e.g. "gutenberg".
func BranchName(source string, prNumber int) string {
	return fmt.Sprintf("automated-%s-update/for-pr-%d", source, prNumber)
}
