package timelane

import (
	"log/slog"
	"sync/atomic"
)

// Registry holds the process-wide instrumentation state: the subscription id counter,
// the default sink and the marker for the one-time version record.
//
// Package-level functions operate on the default registry. Tests that need deterministic ids
// either call Reset on it or hand their own Registry to the subscriptions via WithRegistry.
type Registry struct {
	lastID         atomic.Uint64
	versionEmitted atomic.Bool
	sink           atomic.Pointer[Sink]
}

// NewRegistry creates a Registry starting at id 0 with no version record emitted yet.
func NewRegistry() *Registry {
	return &Registry{}
}

// NextSubscriptionID returns a fresh id, strictly greater than every id handed out before.
func (r *Registry) NextSubscriptionID() SubscriptionID {
	return r.lastID.Add(1)
}

// LastSubscriptionID returns the most recently handed out id.
func (r *Registry) LastSubscriptionID() SubscriptionID {
	return r.lastID.Load()
}

// DefaultSink returns the sink used when a lane has no explicit one.
// Without SetDefaultSink it logs through slog.Default at the moment of each call.
func (r *Registry) DefaultSink() Sink {
	if s := r.sink.Load(); s != nil {
		return *s
	}

	return func(record Record) {
		SlogSink(slog.Default())(record)
	}
}

// SetDefaultSink swaps the default sink and returns a func restoring the previous one.
// A nil sink restores the slog based default.
func (r *Registry) SetDefaultSink(sink Sink) (restore func()) {
	var next *Sink
	if sink != nil {
		next = &sink
	}

	previous := r.sink.Swap(next)

	return func() {
		r.sink.Store(previous)
	}
}

// VersionEmitted reports whether the version record was already sent.
func (r *Registry) VersionEmitted() bool {
	return r.versionEmitted.Load()
}

// MarkVersionEmitted suppresses the version record for all following subscriptions.
func (r *Registry) MarkVersionEmitted() {
	r.versionEmitted.Store(true)
}

func (r *Registry) claimVersion() bool {
	return r.versionEmitted.CompareAndSwap(false, true)
}

// Reset sets the id counter to lastID and the version marker to versionEmitted and restores the
// default sink. It exists for tests and must not run concurrently with active lanes.
func (r *Registry) Reset(lastID SubscriptionID, versionEmitted bool) {
	r.lastID.Store(lastID)
	r.versionEmitted.Store(versionEmitted)
	r.sink.Store(nil)
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// DefaultSink returns the default sink of the process-wide registry.
func DefaultSink() Sink {
	return defaultRegistry.DefaultSink()
}

// SetDefaultSink swaps the default sink of the process-wide registry.
func SetDefaultSink(sink Sink) (restore func()) {
	return defaultRegistry.SetDefaultSink(sink)
}

// Reset resets the process-wide registry; see Registry.Reset.
func Reset(lastID SubscriptionID, versionEmitted bool) {
	defaultRegistry.Reset(lastID, versionEmitted)
}
