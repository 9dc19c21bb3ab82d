package githubclt

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/logfields"
)

// PullRequest is the head information of an open pull request.
type PullRequest struct {
	Number     int
	HeadCommit string
	HeadBranch string
	// HeadOwner is the login of the owner of the repository containing
	// the head branch. It is empty if the repository was deleted.
	HeadOwner string
}

// OpenPullRequests returns open pull requests that have any of the passed
// labels, in the order they are returned by GitHub.
//
// Only the first page with at most limit pull requests is retrieved. If
// GitHub reports more matching pull requests, a warning is logged and the
// result is truncated.
func (clt *Client) OpenPullRequests(ctx context.Context, owner, repo string, labels []string, limit int) ([]*PullRequest, error) {
	var q struct {
		Repository struct {
			PullRequests struct {
				TotalCount int
				PageInfo   struct {
					HasNextPage bool
				}
				Nodes []struct {
					Number              int
					HeadRefOid          string
					HeadRefName         string
					HeadRepositoryOwner *struct {
						Login string
					}
				}
			} `graphql:"pullRequests(first: $first, states: $states, labels: $labels)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	ghLabels := make([]githubv4.String, 0, len(labels))
	for _, l := range labels {
		ghLabels = append(ghLabels, githubv4.String(l))
	}

	vars := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"first":  githubv4.Int(limit),
		"states": []githubv4.PullRequestState{githubv4.PullRequestStateOpen},
		"labels": ghLabels,
	}

	err := clt.graphQLClt.Query(ctx, &q, vars)
	if err != nil {
		return nil, clt.wrapGraphQLRetryableErrors(err)
	}

	prs := q.Repository.PullRequests
	if prs.PageInfo.HasNextPage {
		clt.logger.Warn(
			"more open pull requests exist than fit on one page, list is truncated",
			logfields.Event("github_pull_request_list_truncated"),
			logfields.RepositoryOwner(owner),
			logfields.Repository(repo),
			zap.Int("github.pull_request_total_count", prs.TotalCount),
			zap.Int("github.page_size", limit),
		)
	}

	result := make([]*PullRequest, 0, len(prs.Nodes))
	for i, node := range prs.Nodes {
		if node.Number <= 0 {
			return nil, fmt.Errorf("got pull request node %d with invalid number: %d", i, node.Number)
		}

		if node.HeadRefOid == "" {
			return nil, fmt.Errorf("got pull request #%d with empty headRefOid", node.Number)
		}

		if node.HeadRefName == "" {
			return nil, fmt.Errorf("got pull request #%d with empty headRefName", node.Number)
		}

		pr := PullRequest{
			Number:     node.Number,
			HeadCommit: node.HeadRefOid,
			HeadBranch: node.HeadRefName,
		}

		if node.HeadRepositoryOwner != nil {
			pr.HeadOwner = node.HeadRepositoryOwner.Login
		}

		result = append(result, &pr)
	}

	return result, nil
}
