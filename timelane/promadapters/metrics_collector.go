// Package promadapters implements timelane.MetricsCollector on the Prometheus client library.
//
// Vectors are created and registered on first use per metric name. The label names of a metric are
// the sorted keys of the labels passed with its first measurement; later measurements fill missing
// labels with "" and drop unknown ones, since a Prometheus vector has a fixed label set.
package promadapters

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

const (
	logMsgRegisterFailed = "registering prometheus collector failed, measurement dropped"

	logAttrMetric = "metric"
	logAttrError  = "error"
)

// Option defines a functional option for configuring a MetricsCollector.
type Option func(*MetricsCollector)

// WithNamespace prefixes every metric name with namespace.
func WithNamespace(namespace string) Option {
	return func(m *MetricsCollector) {
		m.namespace = namespace
	}
}

// WithBuckets sets the histogram buckets in seconds. The default is prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(m *MetricsCollector) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithLogger sets a logger for registration failures.
func WithLogger(logger timelane.Logger) Option {
	return func(m *MetricsCollector) {
		m.logger = logger
	}
}

// MetricsCollector implements timelane.MetricsCollector with Prometheus vectors:
//   - RecordDuration -> HistogramVec in seconds
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
//
// It is safe for concurrent use.
type MetricsCollector struct {
	registerer prometheus.Registerer
	namespace  string
	buckets    []float64
	logger     timelane.Logger

	mu         sync.Mutex
	histograms map[string]*vector[*prometheus.HistogramVec]
	counters   map[string]*vector[*prometheus.CounterVec]
	gauges     map[string]*vector[*prometheus.GaugeVec]
}

type vector[V prometheus.Collector] struct {
	vec        V
	labelNames []string
}

// NewMetricsCollector creates a MetricsCollector registering on registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewMetricsCollector(registerer prometheus.Registerer, options ...Option) *MetricsCollector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &MetricsCollector{
		registerer: registerer,
		buckets:    prometheus.DefBuckets,
		histograms: make(map[string]*vector[*prometheus.HistogramVec]),
		counters:   make(map[string]*vector[*prometheus.CounterVec]),
		gauges:     make(map[string]*vector[*prometheus.GaugeVec]),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	if h := m.histogram(metric, labels); h != nil {
		h.vec.With(labelValues(h.labelNames, labels)).Observe(duration.Seconds())
	}
}

func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	if c := m.counter(metric, labels); c != nil {
		c.vec.With(labelValues(c.labelNames, labels)).Inc()
	}
}

func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	if g := m.gauge(metric, labels); g != nil {
		g.vec.With(labelValues(g.labelNames, labels)).Set(value)
	}
}

func (m *MetricsCollector) histogram(metric string, labels map[string]string) *vector[*prometheus.HistogramVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, exists := m.histograms[metric]; exists {
		return h
	}

	names := labelNames(labels)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      "timelane duration in seconds",
		Buckets:   m.buckets,
	}, names)

	registered, ok := register(m, metric, vec)
	if !ok {
		return nil
	}

	h := &vector[*prometheus.HistogramVec]{vec: registered, labelNames: names}
	m.histograms[metric] = h

	return h
}

func (m *MetricsCollector) counter(metric string, labels map[string]string) *vector[*prometheus.CounterVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, exists := m.counters[metric]; exists {
		return c
	}

	names := labelNames(labels)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      "timelane counter",
	}, names)

	registered, ok := register(m, metric, vec)
	if !ok {
		return nil
	}

	c := &vector[*prometheus.CounterVec]{vec: registered, labelNames: names}
	m.counters[metric] = c

	return c
}

func (m *MetricsCollector) gauge(metric string, labels map[string]string) *vector[*prometheus.GaugeVec] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, exists := m.gauges[metric]; exists {
		return g
	}

	names := labelNames(labels)
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      metric,
		Help:      "timelane current value",
	}, names)

	registered, ok := register(m, metric, vec)
	if !ok {
		return nil
	}

	g := &vector[*prometheus.GaugeVec]{vec: registered, labelNames: names}
	m.gauges[metric] = g

	return g
}

// register reuses a vector another collector already registered under the same descriptor.
func register[V prometheus.Collector](m *MetricsCollector, metric string, vec V) (V, bool) {
	err := m.registerer.Register(vec)
	if err == nil {
		return vec, true
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		if existing, ok := alreadyRegistered.ExistingCollector.(V); ok {
			return existing, true
		}
	}

	if m.logger != nil {
		m.logger.Error(logMsgRegisterFailed, logAttrMetric, metric, logAttrError, err.Error())
	}

	var zero V

	return zero, false
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func labelValues(names []string, labels map[string]string) prometheus.Labels {
	values := make(prometheus.Labels, len(names))
	for _, name := range names {
		values[name] = labels[name]
	}

	return values
}

var _ timelane.MetricsCollector = (*MetricsCollector)(nil)
