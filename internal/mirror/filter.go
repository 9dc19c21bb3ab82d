package mirror

import (
	"context"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Filter is a jq expression that decides if a pull request is reconciled.
// It is evaluated on an object with the keys number, head_commit,
// head_branch and head_owner and must return exactly one boolean.
type Filter struct {
	query *gojq.Query
}

// NewFilter parses jqQuery.
func NewFilter(jqQuery string) (*Filter, error) {
	query, err := gojq.Parse(jqQuery)
	if err != nil {
		return nil, err
	}

	return &Filter{query: query}, nil
}

func (f *Filter) String() string {
	return f.query.String()
}

func filterInput(pr *PullRequest) map[string]any {
	return map[string]any{
		"number":      pr.Number,
		"head_commit": pr.HeadCommit,
		"head_branch": pr.HeadBranch,
		"head_owner":  pr.HeadOwner,
	}
}

// Match returns true if the filter expression evaluates to true for pr.
func (f *Filter) Match(ctx context.Context, pr *PullRequest) (bool, error) {
	result, errs := goJQIterToSlice(f.query.RunWithContext(ctx, filterInput(pr)))
	if len(errs) != 0 {
		return false, fmt.Errorf("jq query returned errors, query: %q, errors: %s", f.query.String(), errString(errs))
	}

	if len(result) != 1 {
		return false, fmt.Errorf("jq query returned %d results, expected 1, query: %q", len(result), f.query.String())
	}

	val, ok := result[0].(bool)
	if !ok {
		return false, fmt.Errorf(
			"jq query returned non-bool result: %+v (%T), query: %q",
			result[0], result[0], f.query.String(),
		)
	}

	return val, nil
}

func goJQIterToSlice(iter gojq.Iter) ([]any, []error) {
	var result []any
	var errors []error

	for {
		res, ok := iter.Next()
		if !ok {
			return result, errors
		}

		if err, isErr := res.(error); isErr {
			errors = append(errors, err)
			continue
		}

		result = append(result, res)
	}
}

func errString(errs []error) string {
	var result strings.Builder

	for i, err := range errs {
		if i > 0 {
			result.WriteString("; ")
		}

		result.WriteString(fmt.Sprintf("error %d: %s", i, err))
	}

	return result.String()
}
