package timelane

import (
	"context"
	"strconv"
	"sync"
)

type openSpan struct {
	span   SpanContext
	events int
}

type tracingSink struct {
	ctx       context.Context
	collector TracingCollector

	mu    sync.Mutex
	spans map[SubscriptionID]*openSpan
}

// TracingSink maps every subscription onto one span named "timelane.subscription", started as a
// child of ctx with the first record of the subscription. The end record finishes the span with the
// status completed, error or cancelled. Without end records, the terminal event finishes it.
func TracingSink(ctx context.Context, collector TracingCollector) Sink {
	if collector == nil {
		return Discard
	}

	t := &tracingSink{
		ctx:       ctx,
		collector: collector,
		spans:     make(map[SubscriptionID]*openSpan),
	}

	return t.log
}

func (t *tracingSink) log(record Record) {
	if record.Kind == RecordVersion {
		return
	}

	terminal, state := terminalState(record)

	t.mu.Lock()
	open, ok := t.spans[record.SubscriptionID]
	if !ok {
		if terminal && record.Kind == RecordEvent {
			t.mu.Unlock()
			return
		}

		_, span := t.collector.StartSpan(t.ctx, spanNameSubscription, map[string]string{
			spanAttrLane:           record.Subscription,
			spanAttrSource:         record.Source,
			spanAttrSubscriptionID: strconv.FormatUint(record.SubscriptionID, 10),
		})
		open = &openSpan{span: span}
		t.spans[record.SubscriptionID] = open
	}

	if record.Kind == RecordEvent && record.EventType == EventOutput {
		open.events++
	}

	if !terminal {
		t.mu.Unlock()
		return
	}

	delete(t.spans, record.SubscriptionID)
	t.mu.Unlock()

	attrs := map[string]string{
		spanAttrEventCount: strconv.Itoa(open.events),
	}

	if description := state.Description(); description != "" {
		attrs[spanAttrError] = description
	}

	if open.span != nil {
		t.collector.FinishSpan(open.span, state.String(), attrs)
	}
}

// terminalState reports whether record ends its subscription and with which state.
func terminalState(record Record) (bool, EndState) {
	if record.Kind == RecordEnd {
		return true, record.State
	}

	if record.Kind != RecordEvent {
		return false, EndState{}
	}

	switch record.EventType {
	case EventCompleted:
		return true, Completed()
	case EventError:
		return true, Errored(record.Value)
	case EventCancelled:
		return true, Cancelled()
	default:
		return false, EndState{}
	}
}
