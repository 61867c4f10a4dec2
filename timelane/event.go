package timelane

// EventKind discriminates data events.
type EventKind uint8

const (
	EventOutput EventKind = iota + 1
	EventCompleted
	EventError
	EventCancelled
)

// Type returns the visualization vocabulary for the kind.
func (k EventKind) Type() string {
	switch k {
	case EventOutput:
		return "Output"
	case EventCompleted:
		return "Completed"
	case EventError:
		return "Error"
	case EventCancelled:
		return "Cancelled"
	default:
		return ""
	}
}

func eventKindFromType(t string) (EventKind, bool) {
	for _, k := range []EventKind{EventOutput, EventCompleted, EventError, EventCancelled} {
		if k.Type() == t {
			return k, true
		}
	}

	return 0, false
}

// EventValue is one data event of a subscription.
// Text holds the formatted value for EventOutput and the error description for EventError.
type EventValue struct {
	Kind EventKind
	Text string
}

// Value is an output event carrying an already formatted value.
func Value(text string) EventValue {
	return EventValue{Kind: EventOutput, Text: text}
}

// Completion marks natural completion.
func Completion() EventValue {
	return EventValue{Kind: EventCompleted}
}

// Failure carries the description of an upstream error.
func Failure(description string) EventValue {
	return EventValue{Kind: EventError, Text: description}
}

// Cancellation marks disposal before termination.
func Cancellation() EventValue {
	return EventValue{Kind: EventCancelled}
}

// EndState is the terminal outcome of a subscription.
type EndState struct {
	kind        EventKind
	description string
}

// Completed ends a subscription that completed naturally.
func Completed() EndState {
	return EndState{kind: EventCompleted}
}

// Errored ends a subscription that failed.
func Errored(description string) EndState {
	return EndState{kind: EventError, description: description}
}

// Cancelled ends a subscription that was disposed before it terminated.
func Cancelled() EndState {
	return EndState{kind: EventCancelled}
}

// Code is the numeric state on the wire: 1 completed, 2 error, 3 cancelled.
func (s EndState) Code() int {
	switch s.kind {
	case EventCompleted:
		return 1
	case EventError:
		return 2
	case EventCancelled:
		return 3
	default:
		return 0
	}
}

// Description is the error description of an errored state, empty otherwise.
func (s EndState) Description() string {
	return s.description
}

// IsZero reports whether s was never set.
func (s EndState) IsZero() bool {
	return s.kind == 0
}

// String returns completed, error or cancelled.
func (s EndState) String() string {
	switch s.kind {
	case EventCompleted:
		return "completed"
	case EventError:
		return "error"
	case EventCancelled:
		return "cancelled"
	default:
		return ""
	}
}

func endStateFromCode(code int, description string) (EndState, bool) {
	switch code {
	case 1:
		return Completed(), true
	case 2:
		return Errored(description), true
	case 3:
		return Cancelled(), true
	default:
		return EndState{}, false
	}
}

func endStateFromString(s, description string) EndState {
	switch s {
	case "completed":
		return Completed()
	case "error":
		return Errored(description)
	case "cancelled":
		return Cancelled()
	default:
		return EndState{}
	}
}
