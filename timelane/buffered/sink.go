package buffered

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

// Writer persists a batch of records. It is only ever called from one goroutine at a time.
type Writer interface {
	Write(ctx context.Context, records []timelane.Record) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, records []timelane.Record) error

// Write implements Writer.
func (f WriterFunc) Write(ctx context.Context, records []timelane.Record) error {
	return f(ctx, records)
}

// Stats are the counters of a Sink.
type Stats struct {
	Submitted     uint64
	Written       uint64
	Dropped       uint64
	FailedBatches uint64
}

// Sink queues records and writes them in batches on a background goroutine.
type Sink struct {
	writer           Writer
	queueSize        int
	batchSize        int
	flushInterval    time.Duration
	writeTimeout     time.Duration
	logger           timelane.Logger
	metricsCollector timelane.MetricsCollector

	queue  chan timelane.Record
	done   chan struct{}
	mu     sync.RWMutex
	closed atomic.Bool

	submitted     atomic.Uint64
	written       atomic.Uint64
	dropped       atomic.Uint64
	failedBatches atomic.Uint64
}

// New creates a Sink writing through writer and starts its background goroutine.
func New(writer Writer, options ...Option) (*Sink, error) {
	if writer == nil {
		return nil, ErrNilWriter
	}

	s := &Sink{
		writer:        writer,
		queueSize:     defaultQueueSize,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		writeTimeout:  defaultWriteTimeout,
		done:          make(chan struct{}),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	s.queue = make(chan timelane.Record, s.queueSize)

	go s.run()

	return s, nil
}

// Sink returns Log as a timelane.Sink.
func (s *Sink) Sink() timelane.Sink {
	return s.Log
}

// Log queues record. It never blocks; the record is dropped when the queue is full or the sink is closed.
func (s *Sink) Log(record timelane.Record) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed.Load() {
		s.drop(record, dropReasonClosed)
		return
	}

	select {
	case s.queue <- record:
		s.submitted.Add(1)
	default:
		s.drop(record, dropReasonQueueFull)
	}
}

// Close stops accepting records and waits until everything queued was written or ctx is done.
func (s *Sink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return ErrAlreadyClosed
	}
	close(s.queue)
	s.mu.Unlock()

	select {
	case <-s.done:
		s.logOperation(logMsgClosed, logAttrWritten, s.written.Load(), logAttrDropped, s.dropped.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a snapshot of the counters.
func (s *Sink) Stats() Stats {
	return Stats{
		Submitted:     s.submitted.Load(),
		Written:       s.written.Load(),
		Dropped:       s.dropped.Load(),
		FailedBatches: s.failedBatches.Load(),
	}
}

func (s *Sink) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]timelane.Record, 0, s.batchSize)

	for {
		select {
		case record, ok := <-s.queue:
			if !ok {
				s.flush(batch)
				return
			}

			batch = append(batch, record)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = make([]timelane.Record, 0, s.batchSize)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = make([]timelane.Record, 0, s.batchSize)
			}
		}
	}
}

func (s *Sink) flush(batch []timelane.Record) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	start := time.Now()
	err := s.writer.Write(ctx, batch)
	duration := time.Since(start)

	if err != nil {
		s.failedBatches.Add(1)
		s.logError(logMsgWriteFailed, err, logAttrBatchSize, len(batch))
		s.recordWrite(ctx, len(batch), duration, statusError)

		return
	}

	s.written.Add(uint64(len(batch)))
	s.logDebug(logMsgBatchWritten, logAttrBatchSize, len(batch), logAttrDurationMS, toMilliseconds(duration))
	s.recordWrite(ctx, len(batch), duration, statusSuccess)
}
