package mirror

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// RunStats are counters of a reconciliation run.
// The counters are safe for concurrent use.
type RunStats struct {
	StartTime time.Time
	EndTime   time.Time

	Seen              atomic.Uint32
	SkippedForeign    atomic.Uint32
	SkippedFiltered   atomic.Uint32
	InSync            atomic.Uint32
	LookupFailures    atomic.Uint32
	Dispatched        atomic.Uint32
	DispatchFailures  atomic.Uint32
	UndefinedDecision atomic.Uint32
}

func (s *RunStats) record(d Decision) {
	s.Seen.Inc()

	switch d {
	case DecisionSkipForeignOwner:
		s.SkippedForeign.Inc()
	case DecisionSkipFiltered:
		s.SkippedFiltered.Inc()
	case DecisionInSync:
		s.InSync.Inc()
	case DecisionDispatchLookupFailed:
		s.LookupFailures.Inc()
	case DecisionDispatchOutdated, DecisionDispatchMissing:
	default:
		s.UndefinedDecision.Inc()
	}
}

func (s *RunStats) LogFields() []zap.Field {
	return []zap.Field{
		zap.Duration("run_duration", s.EndTime.Sub(s.StartTime)),
		zap.Uint32("run.seen", s.Seen.Load()),
		zap.Uint32("run.skipped_foreign_owner", s.SkippedForeign.Load()),
		zap.Uint32("run.skipped_filtered", s.SkippedFiltered.Load()),
		zap.Uint32("run.in_sync", s.InSync.Load()),
		zap.Uint32("run.mirror_lookup_failures", s.LookupFailures.Load()),
		zap.Uint32("run.dispatched", s.Dispatched.Load()),
		zap.Uint32("run.dispatch_failures", s.DispatchFailures.Load()),
		zap.Uint32("run.undefined_decisions", s.UndefinedDecision.Load()),
	}
}
