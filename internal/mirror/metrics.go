package mirror

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/logfields"
)

const metricNamespace = "mirrorsync"

const (
	decisionsMetricName        = "pull_request_decisions_total"
	mirrorLookupsMetricName    = "mirror_lookups_total"
	dispatchesMetricName       = "workflow_dispatches_total"
	runDurationMetricName      = "run_duration_seconds"
	lastRunTimestampMetricName = "last_run_timestamp_seconds"
)

const (
	decisionLabel = "decision"
	resultLabel   = "result"
)

type dispatchResultLabelVal string

const (
	dispatchResultSuccessVal dispatchResultLabelVal = "success"
	dispatchResultFailureVal dispatchResultLabelVal = "failure"
)

type metricCollector struct {
	decisions     *prometheus.CounterVec
	mirrorLookups *prometheus.CounterVec
	dispatches    *prometheus.CounterVec
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      decisionsMetricName,
				Help:      "count of reconciliation decisions for pull requests",
			},
			[]string{decisionLabel},
		),
		mirrorLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      mirrorLookupsMetricName,
				Help:      "count of mirror state lookups by result",
			},
			[]string{resultLabel},
		),
		dispatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      dispatchesMetricName,
				Help:      "count of sent ci workflow dispatch requests",
			},
			[]string{resultLabel},
		),
		runDuration: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      runDurationMetricName,
				Help:      "duration of the last completed reconciliation run",
			},
		),
		lastRun: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      lastRunTimestampMetricName,
				Help:      "unix timestamp of the last completed reconciliation run",
			},
		),
	}
}

// logger is resolved on every call, the collector is created before the
// global logger is configured.
func (m *metricCollector) logger() *zap.Logger {
	return zap.L().Named(loggerName).Named("metrics")
}

func (m *metricCollector) logGetMetricFailed(metricName string, err error) {
	m.logger().Warn(
		"could not record metric",
		zap.String("metric", metricName),
		logfields.Event("recording_metric_failed"),
		zap.Error(err),
	)
}

func (m *metricCollector) DecisionInc(d Decision) {
	cnt, err := m.decisions.GetMetricWith(prometheus.Labels{decisionLabel: d.String()})
	if err != nil {
		m.logGetMetricFailed(decisionsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) MirrorLookupInc(status MirrorStatus) {
	cnt, err := m.mirrorLookups.GetMetricWith(prometheus.Labels{resultLabel: status.String()})
	if err != nil {
		m.logGetMetricFailed(mirrorLookupsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) DispatchInc(result dispatchResultLabelVal) {
	cnt, err := m.dispatches.GetMetricWith(prometheus.Labels{resultLabel: string(result)})
	if err != nil {
		m.logGetMetricFailed(dispatchesMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) RunCompleted(start, end time.Time) {
	m.runDuration.Set(end.Sub(start).Seconds())
	m.lastRun.Set(float64(end.Unix()))
}
