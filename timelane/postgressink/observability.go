package postgressink

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed"
	logMsgRowsAffectedFailed     = "failed to get rows affected count"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgDecodeRecordFailed     = "failed to decode stored record payload"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "timelane recorder operation: "

	logAttrError          = "error"
	logAttrQuery          = "query"
	logAttrTable          = "table"
	logAttrOperation      = "operation"
	logAttrRecordCount    = "record_count"
	logAttrSequenceNumber = "sequence_number"
	logAttrDurationMS     = "duration_ms"

	operationWrite        = "write"
	operationQuery        = "query"
	operationEnsureSchema = "ensure_schema"

	metricWriteDuration  = "timelane_recorder_write_duration_seconds"
	metricQueryDuration  = "timelane_recorder_query_duration_seconds"
	metricRecordsWritten = "timelane_recorder_records_written"
	metricRecordsRead    = "timelane_recorder_records_read"
	metricDatabaseErrors = "timelane_recorder_errors_total"

	spanNameWrite = "timelane.recorder.write"
	spanNameQuery = "timelane.recorder.query"

	spanAttrOperation   = "operation"
	spanAttrTable       = "table"
	spanAttrRunID       = "run_id"
	spanAttrLane        = "lane"
	spanAttrRecordCount = "record_count"
	spanAttrErrorType   = "error_type"
	spanAttrDurationMS  = "duration_ms"

	labelOperation = "operation"
	labelStatus    = "status"
	labelErrorType = "error_type"

	statusSuccess = "success"
	statusError   = "error"

	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeDatabaseQuery = "database_query"
	errorTypeRowScan       = "row_scan"
)

func (r Recorder) logQueryWithDuration(ctx context.Context, sqlQuery, action string, duration time.Duration) {
	if r.logger != nil {
		r.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

func (r Recorder) logOperation(ctx context.Context, action string, args ...any) {
	if r.logger != nil {
		r.logger.Info(logMsgOperation+action, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (r Recorder) logWarn(ctx context.Context, msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, msg, args...)
	}
}

func (r Recorder) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if r.logger != nil {
		r.logger.Error(msg, allArgs...)
	}

	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// tracingObserver owns the span of one Write or Query call. A nil span makes it a no-op.
type tracingObserver struct {
	r    Recorder
	span timelane.SpanContext
}

func (r Recorder) startWriteTracing(ctx context.Context, recordCount int) (*tracingObserver, context.Context) {
	return r.startTracing(ctx, spanNameWrite, map[string]string{
		spanAttrOperation:   operationWrite,
		spanAttrTable:       r.tableName,
		spanAttrRunID:       r.runID.String(),
		spanAttrRecordCount: strconv.Itoa(recordCount),
	})
}

func (r Recorder) startQueryTracing(ctx context.Context, q RecordQuery) (*tracingObserver, context.Context) {
	attrs := map[string]string{
		spanAttrOperation: operationQuery,
		spanAttrTable:     r.tableName,
	}

	if q.Lane != "" {
		attrs[spanAttrLane] = q.Lane
	}

	return r.startTracing(ctx, spanNameQuery, attrs)
}

func (r Recorder) startTracing(ctx context.Context, name string, attrs map[string]string) (*tracingObserver, context.Context) {
	if r.tracingCollector == nil {
		return &tracingObserver{r: r}, ctx
	}

	spanCtx, span := r.tracingCollector.StartSpan(ctx, name, attrs)

	return &tracingObserver{r: r, span: span}, spanCtx
}

func (o *tracingObserver) finishSuccess(recordCount int64, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.span.AddAttribute(spanAttrDurationMS, formatDuration(duration))
	o.r.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrRecordCount: strconv.FormatInt(recordCount, 10),
	})
}

func (o *tracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	if duration > 0 {
		o.span.AddAttribute(spanAttrDurationMS, formatDuration(duration))
	}

	o.r.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

func formatDuration(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Nanoseconds())/1e6, 'f', 2, 64)
}

// metricsObserver records the metrics of one Write or Query call.
type metricsObserver struct {
	ctx       context.Context
	collector timelane.MetricsCollector
	operation string
}

func (r Recorder) startWriteMetrics(ctx context.Context) *metricsObserver {
	return &metricsObserver{ctx: ctx, collector: r.metricsCollector, operation: operationWrite}
}

func (r Recorder) startQueryMetrics(ctx context.Context) *metricsObserver {
	return &metricsObserver{ctx: ctx, collector: r.metricsCollector, operation: operationQuery}
}

func (o *metricsObserver) recordSuccess(recordCount int, duration time.Duration) {
	if o.collector == nil {
		return
	}

	labels := map[string]string{labelOperation: o.operation, labelStatus: statusSuccess}

	durationMetric, countMetric := metricWriteDuration, metricRecordsWritten
	if o.operation == operationQuery {
		durationMetric, countMetric = metricQueryDuration, metricRecordsRead
	}

	o.recordDuration(durationMetric, duration, labels)
	o.recordValue(countMetric, float64(recordCount), labels)
}

func (o *metricsObserver) recordError(errorType string, duration time.Duration) {
	if o.collector == nil {
		return
	}

	labels := map[string]string{labelOperation: o.operation, labelStatus: statusError, labelErrorType: errorType}

	if duration > 0 {
		durationMetric := metricWriteDuration
		if o.operation == operationQuery {
			durationMetric = metricQueryDuration
		}
		o.recordDuration(durationMetric, duration, labels)
	}

	if contextual, ok := o.collector.(timelane.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(o.ctx, metricDatabaseErrors, labels)
		return
	}

	o.collector.IncrementCounter(metricDatabaseErrors, labels)
}

func (o *metricsObserver) recordDuration(metric string, duration time.Duration, labels map[string]string) {
	if contextual, ok := o.collector.(timelane.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(o.ctx, metric, duration, labels)
		return
	}

	o.collector.RecordDuration(metric, duration, labels)
}

func (o *metricsObserver) recordValue(metric string, value float64, labels map[string]string) {
	if contextual, ok := o.collector.(timelane.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(o.ctx, metric, value, labels)
		return
	}

	o.collector.RecordValue(metric, value, labels)
}
