package timelane

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// RecordKind discriminates the records a Subscription hands to its Sink.
type RecordKind uint8

const (
	RecordVersion RecordKind = iota + 1
	RecordBegin
	RecordEvent
	RecordEnd
)

// String returns version, begin, event or end.
func (k RecordKind) String() string {
	switch k {
	case RecordVersion:
		return "version"
	case RecordBegin:
		return "begin"
	case RecordEvent:
		return "event"
	case RecordEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseRecordKind is the inverse of RecordKind.String.
func ParseRecordKind(s string) (RecordKind, error) {
	for _, k := range []RecordKind{RecordVersion, RecordBegin, RecordEvent, RecordEnd} {
		if k.String() == s {
			return k, nil
		}
	}

	return 0, errors.Join(ErrUnknownRecordKind, errors.New(s))
}

// SignpostType tells the visualization how to place a record on the timeline.
type SignpostType string

const (
	SignpostBegin SignpostType = "begin"
	SignpostEnd   SignpostType = "end"
	SignpostEvent SignpostType = "event"
)

const (
	fieldSeparator = "###"

	prefixVersion      = "version:"
	prefixSubscribe    = "subscribe:"
	prefixSubscription = "subscription:"
	prefixSource       = "source:"
	prefixID           = "id:"
	prefixState        = "state:"
	prefixType         = "type:"
	prefixValue        = "value:"
)

// Record is one entry of a lane's timeline.
//
// Kind decides which fields are meaningful:
//   - RecordVersion: Version
//   - RecordBegin: SubscriptionID, Subscription, Source
//   - RecordEvent: SubscriptionID, Subscription, Source, EventType, Value
//   - RecordEnd: SubscriptionID, Subscription, State
//
// Value holds the formatted value of an output event and the error description of an error event.
type Record struct {
	Kind           RecordKind
	SubscriptionID SubscriptionID
	Subscription   string
	Source         string
	EventType      EventKind
	Value          string
	State          EndState
	Version        int
	OccurredAt     time.Time
}

// Signpost maps the record kind onto the visualization's signpost types.
// Version records travel as event signposts.
func (r Record) Signpost() SignpostType {
	switch r.Kind {
	case RecordBegin:
		return SignpostBegin
	case RecordEnd:
		return SignpostEnd
	default:
		return SignpostEvent
	}
}

// Type is the event type of an event record, empty otherwise.
func (r Record) Type() string {
	if r.Kind != RecordEvent {
		return ""
	}

	return r.EventType.Type()
}

// Message renders the record as a timelane wire line.
func (r Record) Message() string {
	id := strconv.FormatUint(r.SubscriptionID, 10)

	switch r.Kind {
	case RecordVersion:
		return prefixVersion + strconv.Itoa(r.Version)

	case RecordBegin:
		return join(prefixSubscribe+r.Subscription, prefixSource+r.Source, prefixID+id)

	case RecordEnd:
		return join(
			prefixSubscribe+r.Subscription,
			prefixID+id,
			prefixState+strconv.Itoa(r.State.Code()),
			r.State.Description(),
		)

	case RecordEvent:
		return join(
			prefixSubscription+r.Subscription,
			prefixType+r.EventType.Type(),
			prefixValue+r.Value,
			prefixSource+r.Source,
			prefixID+id,
		)

	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return string(r.Signpost()) + " " + r.Message()
}

// LogArgs returns the record as alternating slog keys and values.
func (r Record) LogArgs() []any {
	args := []any{logAttrRecordKind, r.Kind.String()}

	if r.Kind == RecordVersion {
		return append(args, logAttrVersion, r.Version)
	}

	args = append(args,
		logAttrLane, r.Subscription,
		logAttrSubscriptionID, r.SubscriptionID,
	)

	switch r.Kind {
	case RecordBegin:
		args = append(args, logAttrSource, r.Source)
	case RecordEvent:
		args = append(args, logAttrEventType, r.EventType.Type(), logAttrValue, r.Value, logAttrSource, r.Source)
	case RecordEnd:
		args = append(args, logAttrState, r.State.String())
		if r.State.Description() != "" {
			args = append(args, logAttrError, r.State.Description())
		}
	}

	return args
}

// ParseMessage turns a wire line back into a Record. OccurredAt stays zero.
// Lane names, sources and values containing the field separator "###" cannot be parsed back.
func ParseMessage(signpost SignpostType, message string) (Record, error) {
	malformed := func(reason string) (Record, error) {
		return Record{}, errors.Join(ErrMalformedMessage, errors.New(reason+": "+message))
	}

	if signpost == SignpostEvent && strings.HasPrefix(message, prefixVersion) {
		version, err := strconv.Atoi(strings.TrimPrefix(message, prefixVersion))
		if err != nil {
			return malformed("invalid version")
		}

		return Record{Kind: RecordVersion, Version: version}, nil
	}

	fields := strings.Split(message, fieldSeparator)

	switch signpost {
	case SignpostBegin:
		if len(fields) != 3 {
			return malformed("begin needs 3 fields")
		}

		name, ok1 := strings.CutPrefix(fields[0], prefixSubscribe)
		source, ok2 := strings.CutPrefix(fields[1], prefixSource)
		id, err := parseID(fields[2])
		if !ok1 || !ok2 || err != nil {
			return malformed("invalid begin fields")
		}

		return Record{Kind: RecordBegin, Subscription: name, Source: source, SubscriptionID: id}, nil

	case SignpostEnd:
		if len(fields) != 4 {
			return malformed("end needs 4 fields")
		}

		name, ok1 := strings.CutPrefix(fields[0], prefixSubscribe)
		id, err := parseID(fields[1])
		codeText, ok2 := strings.CutPrefix(fields[2], prefixState)
		code, codeErr := strconv.Atoi(codeText)
		if !ok1 || !ok2 || err != nil || codeErr != nil {
			return malformed("invalid end fields")
		}

		state, ok := endStateFromCode(code, fields[3])
		if !ok {
			return malformed("unknown state code")
		}

		return Record{Kind: RecordEnd, Subscription: name, SubscriptionID: id, State: state}, nil

	case SignpostEvent:
		if len(fields) != 5 {
			return malformed("event needs 5 fields")
		}

		name, ok1 := strings.CutPrefix(fields[0], prefixSubscription)
		typ, ok2 := strings.CutPrefix(fields[1], prefixType)
		value, ok3 := strings.CutPrefix(fields[2], prefixValue)
		source, ok4 := strings.CutPrefix(fields[3], prefixSource)
		id, err := parseID(fields[4])
		if !ok1 || !ok2 || !ok3 || !ok4 || err != nil {
			return malformed("invalid event fields")
		}

		kind, ok := eventKindFromType(typ)
		if !ok {
			return malformed("unknown event type")
		}

		return Record{
			Kind:           RecordEvent,
			Subscription:   name,
			EventType:      kind,
			Value:          value,
			Source:         source,
			SubscriptionID: id,
		}, nil

	default:
		return malformed("unknown signpost type")
	}
}

func parseID(field string) (SubscriptionID, error) {
	text, ok := strings.CutPrefix(field, prefixID)
	if !ok {
		return 0, ErrMalformedMessage
	}

	return strconv.ParseUint(text, 10, 64)
}

func join(fields ...string) string {
	return strings.Join(fields, fieldSeparator)
}
