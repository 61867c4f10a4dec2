package timelane

import (
	"fmt"
	"runtime"
	"time"
)

// Sink receives every record of every subscription it is bound to.
// It is called synchronously from whatever goroutine produced the record and must not block.
type Sink func(Record)

// SinkPanicError describes a panic raised by a Sink while a record was delivered.
type SinkPanicError struct {
	Record Record
	Value  any
	Stack  string
}

// Error implements error.
func (e *SinkPanicError) Error() string {
	return fmt.Sprintf("timelane sink panicked on %s record of %q: %v", e.Record.Kind, e.Record.Subscription, e.Value)
}

// SubscriptionOption configures a Subscription.
type SubscriptionOption func(*Subscription)

// WithRegistry takes ids, the default sink and the version marker from registry
// instead of the process-wide one.
func WithRegistry(registry *Registry) SubscriptionOption {
	return func(s *Subscription) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithFaultHandler receives sink panics. Without it they are swallowed.
func WithFaultHandler(handler func(error)) SubscriptionOption {
	return func(s *Subscription) {
		s.onFault = handler
	}
}

// WithClock overrides the time source for OccurredAt.
func WithClock(now func() time.Time) SubscriptionOption {
	return func(s *Subscription) {
		if now != nil {
			s.now = now
		}
	}
}

// Subscription is the identity of one activation of a lane and the place its records are built.
// Begin, Event and End do not enforce any ordering; callers own the lifecycle rules.
type Subscription struct {
	id       SubscriptionID
	name     string
	sink     Sink
	registry *Registry
	onFault  func(error)
	now      func() time.Time
}

// NewSubscription assigns the next id and binds sink, falling back to the registry's default sink
// when sink is nil. The first subscription of a registry also sends the version record.
func NewSubscription(name string, sink Sink, opts ...SubscriptionOption) *Subscription {
	s := &Subscription{
		name:     name,
		sink:     sink,
		registry: defaultRegistry,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sink == nil {
		s.sink = s.registry.DefaultSink()
	}

	s.id = s.registry.NextSubscriptionID()

	if s.registry.claimVersion() {
		s.emit(Record{Kind: RecordVersion, Version: ProtocolVersion})
	}

	return s
}

// ID returns the process-wide identity of the subscription.
func (s *Subscription) ID() SubscriptionID {
	return s.id
}

// Name returns the lane name.
func (s *Subscription) Name() string {
	return s.name
}

// Begin records the start of the subscription.
func (s *Subscription) Begin(source string) {
	s.emit(Record{Kind: RecordBegin, SubscriptionID: s.id, Subscription: s.name, Source: source})
}

// Event records one data event.
func (s *Subscription) Event(value EventValue, source string) {
	s.emit(Record{
		Kind:           RecordEvent,
		SubscriptionID: s.id,
		Subscription:   s.name,
		Source:         source,
		EventType:      value.Kind,
		Value:          value.Text,
	})
}

// End records the terminal state.
func (s *Subscription) End(state EndState) {
	s.emit(Record{Kind: RecordEnd, SubscriptionID: s.id, Subscription: s.name, State: state})
}

func (s *Subscription) emit(record Record) {
	record.OccurredAt = s.now()

	defer func() {
		if v := recover(); v != nil {
			if s.onFault != nil {
				s.onFault(newSinkPanicError(record, v))
			}
		}
	}()

	s.sink(record)
}

func newSinkPanicError(record Record, v any) *SinkPanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)

	return &SinkPanicError{Record: record, Value: v, Stack: string(buf[:n])}
}
