package postgressink

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

// Option defines a functional option for configuring a Recorder.
type Option func(*Recorder) error

// WithTableName sets the table the Recorder writes to and reads from.
func WithTableName(tableName string) Option {
	return func(r *Recorder) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		r.tableName = tableName

		return nil
	}
}

// WithRunID replaces the random run id generated for every Recorder.
// Use it to continue a recording across restarts.
func WithRunID(runID uuid.UUID) Option {
	return func(r *Recorder) error {
		if runID == uuid.Nil {
			return ErrNilRunID
		}

		r.runID = runID

		return nil
	}
}

// WithLogger sets the logger for the Recorder.
//
// Debug level: SQL statements with execution timing
// Info level: written and queried record counts with durations
// Error level: failures that are returned to the caller.
func WithLogger(logger timelane.Logger) Option {
	return func(r *Recorder) error {
		r.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for write and query durations, counts and errors.
func WithMetrics(collector timelane.MetricsCollector) Option {
	return func(r *Recorder) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector; every Write and Query becomes a span.
func WithTracing(collector timelane.TracingCollector) Option {
	return func(r *Recorder) error {
		r.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets a logger that receives the operation's context,
// so log lines correlate with the active span.
func WithContextualLogger(logger timelane.ContextualLogger) Option {
	return func(r *Recorder) error {
		r.contextualLogger = logger
		return nil
	}
}
