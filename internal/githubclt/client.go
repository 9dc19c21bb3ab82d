// Package githubclt provides a github API client.
package githubclt

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/simplesurance/mirrorsync/internal/logfields"
	"github.com/simplesurance/mirrorsync/internal/syncerr"
)

const DefaultHTTPClientTimeout = 30 * time.Second

const loggerName = "github_client"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// New returns a new github api client.
// Every request is aborted when it did not finish within timeout, if timeout
// is 0, DefaultHTTPClientTimeout is used.
func New(oauthAPItoken string, timeout time.Duration) *Client {
	httpClient := newHTTPClient(oauthAPItoken, timeout)
	return &Client{
		restClt:    github.NewClient(httpClient),
		graphQLClt: githubv4.NewClient(httpClient),
		logger:     zap.L().Named(loggerName),
	}
}

func newHTTPClient(apiToken string, timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = DefaultHTTPClientTimeout
	}

	if apiToken == "" {
		return &http.Client{
			Timeout: timeout,
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: apiToken},
	)

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	return tc
}

// Client is an github API client.
// Methods return a syncerr.RetryableError when the failure is transient,
// e.g. when the API ratelimit is exceeded.
type Client struct {
	restClt    *github.Client
	graphQLClt *githubv4.Client
	logger     *zap.Logger
}

// FileCommit returns the SHA of the file at path in the branch ref.
// For a git submodule it is the commit the submodule points to.
// If the path or the ref does not exist, an error wrapping ErrNotFound is
// returned.
func (clt *Client) FileCommit(ctx context.Context, owner, repo, path, ref string) (string, error) {
	content, _, _, err := clt.restClt.Repositories.GetContents(
		ctx, owner, repo, path,
		&github.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		var respErr *github.ErrorResponse
		if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound {
			return "", ErrNotFound
		}

		return "", clt.wrapRetryableErrors(err)
	}

	if content == nil {
		return "", errors.New("path refers to a directory, expected a file or submodule")
	}

	sha := content.GetSHA()
	if sha == "" {
		return "", errors.New("got content object with empty sha")
	}

	return sha, nil
}

// DispatchWorkflow triggers a workflow_dispatch event for the workflow defined
// in workflowFile.
// The workflow runs on the branch ref with the passed inputs.
func (clt *Client) DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string, inputs map[string]string) error {
	ghInputs := make(map[string]any, len(inputs))
	for k, v := range inputs {
		ghInputs[k] = v
	}

	resp, err := clt.restClt.Actions.CreateWorkflowDispatchEventByFileName(
		ctx, owner, repo, workflowFile,
		github.CreateWorkflowDispatchEventRequest{
			Ref:    ref,
			Inputs: ghInputs,
		},
	)
	if err != nil {
		return clt.wrapRetryableErrors(err)
	}

	logger := clt.logger.With(
		logfields.RepositoryOwner(owner),
		logfields.Repository(repo),
		zap.String("github.workflow", workflowFile),
		zap.String("http_response_status", resp.Status),
	)

	logger.Info(
		"workflow dispatch response received",
		logfields.Event("github_workflow_dispatch_response"),
	)

	logger.Debug(
		"workflow dispatch response headers",
		logfields.Event("github_workflow_dispatch_response_headers"),
		zap.Any("http_response_header", resp.Header),
	)

	return nil
}

func (clt *Client) wrapRetryableErrors(err error) error {
	switch v := err.(type) {
	case *github.RateLimitError:
		clt.logger.Info(
			"rate limit exceeded",
			logfields.Event("github_api_rate_limit_exceeded"),
			zap.Int("github_api_rate_limit", v.Rate.Limit),
			zap.Time("github_api_rate_limit_reset_time", v.Rate.Reset.Time),
		)

		return syncerr.NewRetryableError(err, v.Rate.Reset.Time)

	case *github.AbuseRateLimitError:
		if d := v.GetRetryAfter(); d > 0 {
			return syncerr.NewRetryableError(err, time.Now().Add(d))
		}

		return syncerr.NewRetryableAnytimeError(err)

	case *github.ErrorResponse:
		if v.Response != nil && v.Response.StatusCode >= 500 && v.Response.StatusCode < 600 {
			return syncerr.NewRetryableAnytimeError(err)
		}

		return err
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return syncerr.NewRetryableAnytimeError(err)
	}

	return err
}

var graphQlHTTPStatusErrRe = regexp.MustCompile(`^non-200 OK status code: ([0-9]+) .*`)

func (clt *Client) wrapGraphQLRetryableErrors(err error) error {
	matches := graphQlHTTPStatusErrRe.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return err
	}

	errcode, atoiErr := strconv.Atoi(matches[1])
	if atoiErr != nil {
		clt.logger.Info(
			"parsing http code from error string failed",
			zap.Error(atoiErr),
			zap.String("error_string", err.Error()),
			zap.String("http_errcode", matches[1]),
		)
		return err
	}

	if errcode >= 500 && errcode < 600 {
		return syncerr.NewRetryableAnytimeError(err)
	}

	return err
}
