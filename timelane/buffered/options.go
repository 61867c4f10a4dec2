package buffered

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

var ErrNilWriter = errors.New("nil writer supplied")
var ErrInvalidQueueSize = errors.New("queue size must be positive")
var ErrInvalidBatchSize = errors.New("batch size must be positive")
var ErrInvalidFlushInterval = errors.New("flush interval must be positive")
var ErrInvalidWriteTimeout = errors.New("write timeout must be positive")
var ErrAlreadyClosed = errors.New("buffered sink already closed")

const (
	defaultQueueSize     = 4096
	defaultBatchSize     = 256
	defaultFlushInterval = 250 * time.Millisecond
	defaultWriteTimeout  = 5 * time.Second
)

// Option defines a functional option for configuring a Sink.
type Option func(*Sink) error

// WithQueueSize sets the number of records that can wait for the writer.
func WithQueueSize(size int) Option {
	return func(s *Sink) error {
		if size <= 0 {
			return ErrInvalidQueueSize
		}
		s.queueSize = size

		return nil
	}
}

// WithBatchSize sets the number of records that triggers a write.
func WithBatchSize(size int) Option {
	return func(s *Sink) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		s.batchSize = size

		return nil
	}
}

// WithFlushInterval sets how long a partial batch may wait before it is written.
func WithFlushInterval(interval time.Duration) Option {
	return func(s *Sink) error {
		if interval <= 0 {
			return ErrInvalidFlushInterval
		}
		s.flushInterval = interval

		return nil
	}
}

// WithWriteTimeout bounds every Write call.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Sink) error {
		if timeout <= 0 {
			return ErrInvalidWriteTimeout
		}
		s.writeTimeout = timeout

		return nil
	}
}

// WithLogger sets the logger for write failures and drops.
func WithLogger(logger timelane.Logger) Option {
	return func(s *Sink) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for batch and drop metrics.
func WithMetrics(collector timelane.MetricsCollector) Option {
	return func(s *Sink) error {
		s.metricsCollector = collector
		return nil
	}
}
