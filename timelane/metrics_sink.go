package timelane

import (
	"context"
	"sync"
	"time"
)

const (
	labelLane      = "lane"
	labelEventType = "event_type"
	labelState     = "state"
)

type metricsSink struct {
	ctx       context.Context
	collector MetricsCollector

	mu     sync.Mutex
	begins map[SubscriptionID]time.Time
	active map[string]int
}

// MetricsSink turns records into lane metrics:
//   - timelane_subscriptions_started_total{lane}
//   - timelane_events_total{lane,event_type}
//   - timelane_subscriptions_finished_total{lane,state}
//   - timelane_subscription_duration_seconds{lane,state}, only when the begin record was seen
//   - timelane_active_subscriptions{lane}
//
// The context-aware methods of a ContextualMetricsCollector are used with ctx when available.
func MetricsSink(ctx context.Context, collector MetricsCollector) Sink {
	if collector == nil {
		return Discard
	}

	m := &metricsSink{
		ctx:       ctx,
		collector: collector,
		begins:    make(map[SubscriptionID]time.Time),
		active:    make(map[string]int),
	}

	return m.log
}

func (m *metricsSink) log(record Record) {
	switch record.Kind {
	case RecordBegin:
		m.mu.Lock()
		m.begins[record.SubscriptionID] = record.OccurredAt
		m.active[record.Subscription]++
		active := m.active[record.Subscription]
		m.mu.Unlock()

		m.increment(metricSubscriptionsStarted, map[string]string{labelLane: record.Subscription})
		m.value(metricActiveSubscriptions, float64(active), map[string]string{labelLane: record.Subscription})

	case RecordEvent:
		m.increment(metricEvents, map[string]string{
			labelLane:      record.Subscription,
			labelEventType: record.EventType.Type(),
		})

	case RecordEnd:
		labels := map[string]string{
			labelLane:  record.Subscription,
			labelState: record.State.String(),
		}

		m.mu.Lock()
		began, seen := m.begins[record.SubscriptionID]
		delete(m.begins, record.SubscriptionID)
		active := 0
		if seen {
			m.active[record.Subscription]--
			active = m.active[record.Subscription]
			if active == 0 {
				delete(m.active, record.Subscription)
			}
		}
		m.mu.Unlock()

		m.increment(metricSubscriptionsFinished, labels)

		if seen {
			m.duration(metricSubscriptionDuration, record.OccurredAt.Sub(began), labels)
			m.value(metricActiveSubscriptions, float64(active), map[string]string{labelLane: record.Subscription})
		}

	default:
		// version records carry no lane
	}
}

func (m *metricsSink) increment(metric string, labels map[string]string) {
	if contextual, ok := m.collector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(m.ctx, metric, labels)
		return
	}

	m.collector.IncrementCounter(metric, labels)
}

func (m *metricsSink) value(metric string, value float64, labels map[string]string) {
	if contextual, ok := m.collector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(m.ctx, metric, value, labels)
		return
	}

	m.collector.RecordValue(metric, value, labels)
}

func (m *metricsSink) duration(metric string, d time.Duration, labels map[string]string) {
	if contextual, ok := m.collector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(m.ctx, metric, d, labels)
		return
	}

	m.collector.RecordDuration(metric, d, labels)
}
