package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/cfg"
	"github.com/simplesurance/mirrorsync/internal/githubclt"
	"github.com/simplesurance/mirrorsync/internal/logfields"
	"github.com/simplesurance/mirrorsync/internal/routines"
	"github.com/simplesurance/mirrorsync/internal/syncerr"
)

const loggerName = "reconciler"

//go:generate mockgen -destination mocks/githubclient.go -package mocks . GithubClient

// GithubClient is the subset of the GitHub API used by the Reconciler.
type GithubClient interface {
	OpenPullRequests(ctx context.Context, owner, repo string, labels []string, limit int) ([]*githubclt.PullRequest, error)
	FileCommit(ctx context.Context, owner, repo, path, ref string) (string, error)
	DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string, inputs map[string]string) error
}

// Reconciler runs reconciliation passes, it is stateless between runs.
type Reconciler struct {
	ghClient GithubClient
	logger   *zap.Logger

	upstream cfg.Upstream
	control  cfg.Control

	branchSource string
	concurrency  int
	filter       *Filter

	taskDeferFn func()
}

// WithTaskDeferFunc sets a function that is deferred in every go-routine
// reconciling a pull request.
// It can be used to set a panic handler.
func WithTaskDeferFunc(fn func()) func(*Reconciler) {
	return func(r *Reconciler) {
		r.taskDeferFn = fn
	}
}

// NewReconciler returns a Reconciler for the repositories and settings in
// config. An error is returned if config.PullRequestFilter is not a valid jq
// expression.
func NewReconciler(ghClient GithubClient, config *cfg.Config, opts ...func(*Reconciler)) (*Reconciler, error) {
	r := Reconciler{
		ghClient:     ghClient,
		logger:       zap.L().Named(loggerName),
		upstream:     config.Upstream,
		control:      config.Control,
		branchSource: config.MirrorBranchSource,
		concurrency:  config.Concurrency,
	}

	if config.PullRequestFilter != "" {
		filter, err := NewFilter(config.PullRequestFilter)
		if err != nil {
			return nil, fmt.Errorf("parsing pull request filter failed: %w", err)
		}

		r.filter = filter
	}

	for _, opt := range opts {
		opt(&r)
	}

	return &r, nil
}

// Run does one reconciliation pass.
// It returns an UpstreamQueryError when the pull requests could not be
// retrieved. Failures that affect single pull requests are logged and
// counted in the returned RunStats but do not cause Run to fail.
func (r *Reconciler) Run(ctx context.Context) (*RunStats, error) {
	stats := RunStats{StartTime: time.Now()}

	logger := r.logger.With(
		logfields.RepositoryOwner(r.upstream.Owner),
		logfields.Repository(r.upstream.RepositoryName),
	)

	logger.Info("starting reconciliation", logfields.Event("reconciliation_started"))

	prs, err := r.pullRequests(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug(
		"retrieved open pull requests",
		logfields.Event("pull_requests_retrieved"),
		zap.Int("pull_request_count", len(prs)),
	)

	pool := routines.NewPool(r.concurrency)
	for _, pr := range prs {
		pr := pr
		pool.Queue(func() {
			if r.taskDeferFn != nil {
				defer r.taskDeferFn()
			}

			r.reconcile(ctx, &stats, pr)
		})
	}
	pool.Wait()

	stats.EndTime = time.Now()
	metrics.RunCompleted(stats.StartTime, stats.EndTime)

	logger.Info(
		"reconciliation finished",
		append(stats.LogFields(), logfields.Event("reconciliation_finished"))...,
	)

	return &stats, nil
}

func (r *Reconciler) pullRequests(ctx context.Context) ([]*PullRequest, error) {
	ghPrs, err := r.ghClient.OpenPullRequests(
		ctx,
		r.upstream.Owner,
		r.upstream.RepositoryName,
		r.upstream.Labels,
		r.upstream.PageSize,
	)
	if err != nil {
		return nil, r.upstreamQueryErr(err)
	}

	result := make([]*PullRequest, 0, len(ghPrs))
	for _, ghPr := range ghPrs {
		pr, err := NewPullRequest(ghPr.Number, ghPr.HeadCommit, ghPr.HeadBranch, ghPr.HeadOwner)
		if err != nil {
			return nil, r.upstreamQueryErr(fmt.Errorf("incomplete pull request information: %w", err))
		}

		result = append(result, pr)
	}

	return result, nil
}

func (r *Reconciler) upstreamQueryErr(err error) error {
	return &syncerr.UpstreamQueryError{
		Owner:      r.upstream.Owner,
		Repository: r.upstream.RepositoryName,
		Err:        err,
	}
}

// reconcile decides for a single pull request if CI must be triggered and
// dispatches the workflow.
func (r *Reconciler) reconcile(ctx context.Context, stats *RunStats, pr *PullRequest) Decision {
	decision := r.evaluate(ctx, pr)

	stats.record(decision)
	metrics.DecisionInc(decision)

	if !decision.Dispatch() {
		return decision
	}

	err := r.dispatch(ctx, pr, decision)
	if err != nil {
		stats.DispatchFailures.Inc()
		metrics.DispatchInc(dispatchResultFailureVal)
		return decision
	}

	stats.Dispatched.Inc()
	metrics.DispatchInc(dispatchResultSuccessVal)

	return decision
}

func (r *Reconciler) evaluate(ctx context.Context, pr *PullRequest) Decision {
	logger := r.logger.With(pr.LogFields...)

	if pr.HeadOwner != r.upstream.CanonicalOwner {
		logger.Info(
			"skipping pull request, head branch is not owned by the canonical owner",
			logEventSkippedForeignOwner,
			zap.String("canonical_owner", r.upstream.CanonicalOwner),
		)

		return DecisionSkipForeignOwner
	}

	if r.filter != nil {
		match, err := r.filter.Match(ctx, pr)
		if err != nil {
			logger.Error(
				"skipping pull request, evaluating pull request filter failed",
				logEventFilterFailed,
				zap.Error(err),
			)

			return DecisionSkipFiltered
		}

		if !match {
			logger.Info(
				"skipping pull request, it does not match the pull request filter",
				logEventSkippedFiltered,
				zap.String("filter", r.filter.String()),
			)

			return DecisionSkipFiltered
		}
	}

	mirrorBranch := BranchName(r.branchSource, pr.Number)
	logger = logger.With(logfields.MirrorBranch(mirrorBranch))

	state := r.resolveMirrorState(ctx, pr, mirrorBranch)
	metrics.MirrorLookupInc(state.Status)

	decision := Decide(pr, state)
	logger = logger.With(logfields.Decision(decision.String()))

	switch decision {
	case DecisionInSync:
		logger.Info(
			"mirror is uptodate",
			logEventInSync,
			logfields.MirrorCommit(state.Commit),
		)

	case DecisionDispatchOutdated:
		logger.Info(
			"mirror is outdated",
			logEventMirrorFound,
			logfields.MirrorCommit(state.Commit),
		)

	case DecisionDispatchMissing:
		logger.Info(
			"mirror branch does not exist",
			logEventMirrorNotFound,
		)

	case DecisionDispatchLookupFailed:
		logger.Warn(
			"retrieving mirror state failed, assuming mirror is outdated",
			append(
				syncerr.LogFields(state.Err),
				logEventMirrorLookupFailed,
				logFieldReason("fail_open"),
				zap.Error(state.Err),
			)...,
		)

	default:
		logger.DPanic(
			"mirror state resulted in an undefined decision",
			zap.Stringer("mirror_status", state.Status),
		)
	}

	return decision
}

// resolveMirrorState retrieves the commit that is recorded in the mirror
// branch.
// A not-found response results in MirrorNotFound, all other errors in
// MirrorLookupFailed.
func (r *Reconciler) resolveMirrorState(ctx context.Context, pr *PullRequest, mirrorBranch string) *MirrorState {
	commit, err := r.ghClient.FileCommit(
		ctx,
		r.control.Owner,
		r.control.RepositoryName,
		r.control.ContentPath,
		mirrorBranch,
	)
	if err != nil {
		if errors.Is(err, githubclt.ErrNotFound) {
			return &MirrorState{Status: MirrorNotFound}
		}

		return &MirrorState{
			Status: MirrorLookupFailed,
			Err: &syncerr.MirrorLookupError{
				PullRequest:  pr.Number,
				MirrorBranch: mirrorBranch,
				Err:          err,
			},
		}
	}

	if commit == "" {
		return &MirrorState{
			Status: MirrorLookupFailed,
			Err: &syncerr.MirrorLookupError{
				PullRequest:  pr.Number,
				MirrorBranch: mirrorBranch,
				Err:          errors.New("retrieved commit is empty"),
			},
		}
	}

	return &MirrorState{Status: MirrorFound, Commit: commit}
}

func (r *Reconciler) dispatch(ctx context.Context, pr *PullRequest, decision Decision) error {
	req := DispatchRequest{
		Ref:            r.control.DefaultBranch,
		MirrorBranch:   BranchName(r.branchSource, pr.Number),
		UpstreamBranch: pr.HeadBranch,
	}

	logger := r.logger.With(pr.LogFields...).With(
		logfields.MirrorBranch(req.MirrorBranch),
		logfields.Decision(decision.String()),
		zap.String("github.workflow", r.control.WorkflowFile),
		zap.String("github.workflow_ref", req.Ref),
	)

	err := r.ghClient.DispatchWorkflow(
		ctx,
		r.control.Owner,
		r.control.RepositoryName,
		r.control.WorkflowFile,
		req.Ref,
		req.Inputs(),
	)
	if err != nil {
		err = &syncerr.DispatchError{
			PullRequest:  pr.Number,
			MirrorBranch: req.MirrorBranch,
			Err:          err,
		}

		logger.Error(
			"triggering ci workflow failed",
			append(
				syncerr.LogFields(err),
				logEventDispatchFailed,
				zap.Error(err),
			)...,
		)

		return err
	}

	logger.Info("triggered ci workflow", logEventDispatched)

	return nil
}
