package mirror

import (
	"go.uber.org/zap"

	"github.com/simplesurance/mirrorsync/internal/logfields"
)

var (
	logEventSkippedForeignOwner = logfields.Event("pull_request_skipped_foreign_owner")
	logEventSkippedFiltered     = logfields.Event("pull_request_skipped_filtered")
	logEventFilterFailed        = logfields.Event("pull_request_filter_failed")

	logEventMirrorFound        = logfields.Event("mirror_found")
	logEventMirrorNotFound     = logfields.Event("mirror_not_found")
	logEventMirrorLookupFailed = logfields.Event("mirror_lookup_failed")

	logEventInSync         = logfields.Event("mirror_in_sync")
	logEventDispatched     = logfields.Event("ci_workflow_dispatched")
	logEventDispatchFailed = logfields.Event("ci_workflow_dispatch_failed")
)

func logFieldReason(reason string) zap.Field {
	return zap.String("reason", reason)
}
