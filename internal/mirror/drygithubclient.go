package mirror

import (
	"context"

	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/githubclt"
	"github.com/simplesurance/mirrorsync/internal/logfields"
)

// DryGithubClient is a github-client that does not do any changes on github.
// Workflow dispatches are simulated and always succeed.
// All other operations are forwarded to a wrapped GithubClient.
type DryGithubClient struct {
	clt    GithubClient
	logger *zap.Logger
}

func NewDryGithubClient(clt GithubClient, logger *zap.Logger) *DryGithubClient {
	return &DryGithubClient{
		clt:    clt,
		logger: logger.Named("dry_github_client"),
	}
}

func (c *DryGithubClient) OpenPullRequests(ctx context.Context, owner, repo string, labels []string, limit int) ([]*githubclt.PullRequest, error) {
	return c.clt.OpenPullRequests(ctx, owner, repo, labels, limit)
}

func (c *DryGithubClient) FileCommit(ctx context.Context, owner, repo, path, ref string) (string, error) {
	return c.clt.FileCommit(ctx, owner, repo, path, ref)
}

func (c *DryGithubClient) DispatchWorkflow(_ context.Context, owner, repo, workflowFile, ref string, inputs map[string]string) error {
	c.logger.Info(
		"simulated dispatching of github workflow, no workflow was triggered",
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		zap.String("github.workflow", workflowFile),
		zap.String("github.workflow_ref", ref),
		zap.Any("github.workflow_inputs", inputs),
	)

	return nil
}
