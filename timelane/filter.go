package timelane

import (
	"errors"
	"strings"
)

// Filter selects which axes of a lane are reported.
type Filter uint8

const (
	// FilterSubscription reports the begin and end of every subscription.
	FilterSubscription Filter = 1 << iota

	// FilterEvent reports values, errors, completions and cancellations.
	FilterEvent
)

const (
	// FilterNone reports nothing; subscriptions still get an id and a termination state.
	FilterNone Filter = 0

	// FilterAll is the default: both axes.
	FilterAll = FilterSubscription | FilterEvent
)

// Has reports whether every axis of other is enabled in f.
func (f Filter) Has(other Filter) bool {
	return f&other == other
}

// String renders the filter in the form ParseFilter accepts.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterAll:
		return "all"
	case FilterSubscription:
		return "subscription"
	case FilterEvent:
		return "event"
	default:
		return "invalid"
	}
}

// ParseFilter parses "all", "none", "subscription", "event" or a comma separated list of axes.
func ParseFilter(s string) (Filter, error) {
	var f Filter

	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "all":
			f |= FilterAll
		case "none", "":
			// contributes nothing
		case "subscription", "subscriptions":
			f |= FilterSubscription
		case "event", "events":
			f |= FilterEvent
		default:
			return FilterNone, errors.Join(ErrInvalidFilter, errors.New("unknown axis: "+strings.TrimSpace(part)))
		}
	}

	return f, nil
}
