package rx

// EventKind discriminates the signals a sequence can deliver.
type EventKind uint8

const (
	// KindNext carries one of possibly many values.
	KindNext EventKind = iota

	// KindSuccess carries the single value of a Single or Maybe and ends the sequence.
	KindSuccess

	// KindError ends the sequence with an error.
	KindError

	// KindCompleted ends the sequence without a value.
	KindCompleted
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event is one signal delivered to an Observer.
type Event[T any] struct {
	Kind  EventKind
	Value T
	Err   error
}

// NextEvent builds a KindNext event.
func NextEvent[T any](value T) Event[T] {
	return Event[T]{Kind: KindNext, Value: value}
}

// SuccessEvent builds a KindSuccess event.
func SuccessEvent[T any](value T) Event[T] {
	return Event[T]{Kind: KindSuccess, Value: value}
}

// ErrorEvent builds a KindError event.
func ErrorEvent[T any](err error) Event[T] {
	return Event[T]{Kind: KindError, Err: err}
}

// CompletedEvent builds a KindCompleted event.
func CompletedEvent[T any]() Event[T] {
	return Event[T]{Kind: KindCompleted}
}

// IsStop reports whether the event terminates the sequence.
func (e Event[T]) IsStop() bool {
	return e.Kind != KindNext
}

// Void is the element type of sequences that never carry a value.
type Void struct{}

// Observer receives the events of one subscription.
type Observer[T any] func(Event[T])

// Next delivers a value.
func (o Observer[T]) Next(value T) {
	o(NextEvent(value))
}

// Success delivers the terminal value of a Single or Maybe.
func (o Observer[T]) Success(value T) {
	o(SuccessEvent(value))
}

// Fail terminates the sequence with err.
func (o Observer[T]) Fail(err error) {
	o(ErrorEvent[T](err))
}

// Complete terminates the sequence without a value.
func (o Observer[T]) Complete() {
	o(CompletedEvent[T]())
}
