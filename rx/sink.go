package rx

import (
	"sync/atomic"
)

// grammar decides which event kinds a shape may deliver.
type grammar func(EventKind) bool

func observableGrammar(k EventKind) bool {
	return k == KindNext || k == KindError || k == KindCompleted
}

func singleGrammar(k EventKind) bool {
	return k == KindSuccess || k == KindError
}

func maybeGrammar(k EventKind) bool {
	return k == KindSuccess || k == KindError || k == KindCompleted
}

func completableGrammar(k EventKind) bool {
	return k == KindError || k == KindCompleted
}

func infallibleGrammar(k EventKind) bool {
	return k == KindNext || k == KindCompleted
}

// subscribeFunc is the subscribe primitive shared by all shapes.
type subscribeFunc[T any] func(Observer[T]) Disposable

// sink sits between a producer and the subscriber's observer and enforces the shape's grammar.
type sink[T any] struct {
	observer Observer[T]
	accepts  grammar
	stopped  atomic.Bool
	upstream singleAssignment
}

// guarded wraps producer so that every subscription goes through a sink.
func guarded[T any](producer func(Observer[T]) Disposable, accepts grammar) subscribeFunc[T] {
	return func(observer Observer[T]) Disposable {
		s := &sink[T]{observer: observer, accepts: accepts}
		if producer != nil {
			s.upstream.set(producer(s.on))
		}

		return s
	}
}

func (s *sink[T]) on(e Event[T]) {
	if !s.accepts(e.Kind) || s.stopped.Load() {
		return
	}

	if !e.IsStop() {
		s.observer(e)
		return
	}

	if !s.stopped.CompareAndSwap(false, true) {
		return
	}

	s.observer(e)
	s.upstream.Dispose()
}

// Dispose stops delivery and disposes the upstream.
func (s *sink[T]) Dispose() {
	s.stopped.Store(true)
	s.upstream.Dispose()
}

// subscribe calls fn with a non-nil observer; a zero-value sequence never emits.
func subscribe[T any](fn subscribeFunc[T], observer Observer[T]) Disposable {
	if observer == nil {
		observer = func(Event[T]) {}
	}

	if fn == nil {
		return Nop()
	}

	return fn(observer)
}
