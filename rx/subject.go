package rx

import (
	"sync"
)

// PublishSubject is a hot Observable source: values pushed with Next reach the subscribers
// attached at that moment. Subscribers that arrive after termination receive the stop event only.
type PublishSubject[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	observers map[uint64]Observer[T]
	stop      *Event[T]
}

// NewPublishSubject creates an empty PublishSubject.
func NewPublishSubject[T any]() *PublishSubject[T] {
	return &PublishSubject[T]{observers: make(map[uint64]Observer[T])}
}

// Observable exposes the subject as an Observable.
func (s *PublishSubject[T]) Observable() Observable[T] {
	return CreateObservable(s.attach)
}

// Next pushes value to the current subscribers.
func (s *PublishSubject[T]) Next(value T) {
	s.emit(NextEvent(value))
}

// Fail terminates the subject with err.
func (s *PublishSubject[T]) Fail(err error) {
	s.emit(ErrorEvent[T](err))
}

// Complete terminates the subject.
func (s *PublishSubject[T]) Complete() {
	s.emit(CompletedEvent[T]())
}

// HasObservers reports whether any subscription is attached.
func (s *PublishSubject[T]) HasObservers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.observers) > 0
}

func (s *PublishSubject[T]) attach(observer Observer[T]) Disposable {
	s.mu.Lock()
	if s.stop != nil {
		stop := *s.stop
		s.mu.Unlock()
		observer(stop)

		return Nop()
	}

	id := s.nextID
	s.nextID++
	s.observers[id] = observer
	s.mu.Unlock()

	return NewDisposable(func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	})
}

func (s *PublishSubject[T]) emit(e Event[T]) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}

	if e.IsStop() {
		s.stop = &e
	}

	observers := make([]Observer[T], 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}

	if e.IsStop() {
		s.observers = make(map[uint64]Observer[T])
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(e)
	}
}

// BehaviorSubject is a PublishSubject that replays its latest value to every new subscriber.
type BehaviorSubject[T any] struct {
	publish *PublishSubject[T]
	mu      sync.Mutex
	latest  T
}

// NewBehaviorSubject creates a BehaviorSubject holding initial.
func NewBehaviorSubject[T any](initial T) *BehaviorSubject[T] {
	return &BehaviorSubject[T]{publish: NewPublishSubject[T](), latest: initial}
}

// Value returns the latest value.
func (s *BehaviorSubject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

// Observable exposes the subject as an Observable.
func (s *BehaviorSubject[T]) Observable() Observable[T] {
	return CreateObservable(func(observer Observer[T]) Disposable {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.publish.mu.Lock()
		stopped := s.publish.stop != nil
		s.publish.mu.Unlock()

		if !stopped {
			observer.Next(s.latest)
		}

		return s.publish.attach(observer)
	})
}

// Next stores value and pushes it to the current subscribers.
// Subscribers must not call Next on the same subject from their callbacks.
func (s *BehaviorSubject[T]) Next(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = value
	s.publish.Next(value)
}

// Fail terminates the subject with err.
func (s *BehaviorSubject[T]) Fail(err error) {
	s.publish.Fail(err)
}

// Complete terminates the subject.
func (s *BehaviorSubject[T]) Complete() {
	s.publish.Complete()
}
