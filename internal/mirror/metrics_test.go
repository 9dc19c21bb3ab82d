package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simplesurance/mirrorsync/internal/mirror/mocks"
)

func metricValue(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()

	var pb dto.Metric
	require.NoError(t, m.Write(&pb))

	switch {
	case pb.Counter != nil:
		return pb.Counter.GetValue()
	case pb.Gauge != nil:
		return pb.Gauge.GetValue()
	default:
		t.Fatalf("metric %s is not a counter or gauge", m.Desc())
		return 0
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	dispatchSuccess := metrics.dispatches.WithLabelValues(string(dispatchResultSuccessVal))
	lookupsNotFound := metrics.mirrorLookups.WithLabelValues(MirrorNotFound.String())
	foreignDecisions := metrics.decisions.WithLabelValues(DecisionSkipForeignOwner.String())

	dispatchBefore := metricValue(t, dispatchSuccess)
	lookupsBefore := metricValue(t, lookupsNotFound)
	foreignBefore := metricValue(t, foreignDecisions)

	config := newTestConfig()
	mockctrl := gomock.NewController(t)
	ghClient := mocks.NewMockGithubClient(mockctrl)

	mockOpenPullRequestsCall(ghClient, config,
		newGhPR(90, commitA, "rnmobile/a", canonicalOwner),
		newGhPR(91, commitA, "b", forkOwner),
	)
	mockFileCommitCall(ghClient, config, 90, "", wrappedNotFoundErr())
	mockDispatchWorkflowCall(ghClient, config, 90, "rnmobile/a", nil)

	_, err := newTestReconciler(t, ghClient, config).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dispatchBefore+1, metricValue(t, dispatchSuccess))
	assert.Equal(t, lookupsBefore+1, metricValue(t, lookupsNotFound))
	assert.Equal(t, foreignBefore+1, metricValue(t, foreignDecisions))
	assert.Greater(t, metricValue(t, metrics.lastRun), float64(0))
}

func TestMetricFailuresAreLoggedWithCurrentGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	metrics.logGetMetricFailed(decisionsMetricName, errors.New("inconsistent label cardinality"))

	entries := logs.FilterField(zap.String("metric", decisionsMetricName)).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "reconciler.metrics", entries[0].LoggerName)
}
