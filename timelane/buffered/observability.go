package buffered

import (
	"context"
	"math"
	"time"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

const (
	logMsgBatchWritten  = "timelane batch written"
	logMsgWriteFailed   = "timelane batch write failed"
	logMsgRecordDropped = "timelane record dropped"
	logMsgClosed        = "timelane buffered sink closed"

	logAttrBatchSize  = "batch_size"
	logAttrDurationMS = "duration_ms"
	logAttrError      = "error"
	logAttrReason     = "reason"
	logAttrLane       = "lane"
	logAttrWritten    = "written"
	logAttrDropped    = "dropped"

	metricBatchesWritten = "timelane_sink_batches_written_total"
	metricBatchSize      = "timelane_sink_batch_size"
	metricWriteErrors    = "timelane_sink_write_errors_total"
	metricWriteDuration  = "timelane_sink_write_duration_seconds"
	metricRecordsDropped = "timelane_sink_records_dropped_total"

	labelStatus = "status"
	labelReason = "reason"

	statusSuccess = "success"
	statusError   = "error"

	dropReasonQueueFull = "queue_full"
	dropReasonClosed    = "closed"
)

func (s *Sink) drop(record timelane.Record, reason string) {
	s.dropped.Add(1)

	s.logDebug(logMsgRecordDropped, logAttrReason, reason, logAttrLane, record.Subscription)

	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(metricRecordsDropped, map[string]string{labelReason: reason})
	}
}

func (s *Sink) recordWrite(ctx context.Context, batchSize int, duration time.Duration, status string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{labelStatus: status}

	if contextual, ok := s.metricsCollector.(timelane.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricWriteDuration, duration, labels)
		contextual.RecordValueContext(ctx, metricBatchSize, float64(batchSize), labels)

		if status == statusError {
			contextual.IncrementCounterContext(ctx, metricWriteErrors, labels)
		} else {
			contextual.IncrementCounterContext(ctx, metricBatchesWritten, labels)
		}

		return
	}

	s.metricsCollector.RecordDuration(metricWriteDuration, duration, labels)
	s.metricsCollector.RecordValue(metricBatchSize, float64(batchSize), labels)

	if status == statusError {
		s.metricsCollector.IncrementCounter(metricWriteErrors, labels)
	} else {
		s.metricsCollector.IncrementCounter(metricBatchesWritten, labels)
	}
}

func (s *Sink) logDebug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Sink) logOperation(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Sink) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
