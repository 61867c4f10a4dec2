package demo

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/timelane-go/internal/config"
)

const (
	logMsgSpanFinished = "span finished: "
	logMsgMetric       = "metric: "

	logAttrTraceID    = "trace_id"
	logAttrSpanID     = "span_id"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"
	logAttrPoints     = "data_points"

	instrumentationName = "github.com/AntonStoeckl/timelane-go"
)

// Telemetry holds the OpenTelemetry providers of the demo. Finished spans and, on demand,
// collected metrics are written to the logger.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Propagator     propagation.TextMapPropagator

	reader *sdkmetric.ManualReader
	logger *slog.Logger
}

// NewTelemetry creates the providers for cfg.Tracing.ServiceName.
func NewTelemetry(ctx context.Context, cfg config.TracingConfig, logger *slog.Logger) (*Telemetry, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(Version),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(&spanLogExporter{logger: logger}),
		sdktrace.WithResource(res),
	)

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	return &Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Propagator:     propagation.TraceContext{},
		reader:         reader,
		logger:         logger,
	}, nil
}

// LogMetrics collects the OpenTelemetry metrics once and logs one line per instrument.
func (t *Telemetry) LogMetrics(ctx context.Context) error {
	var resourceMetrics metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &resourceMetrics); err != nil {
		return err
	}

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			t.logger.InfoContext(ctx, logMsgMetric+m.Name, logAttrPoints, dataPoints(m.Data))
		}
	}

	return nil
}

// Shutdown flushes and stops both providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.TracerProvider.Shutdown(ctx),
		t.MeterProvider.Shutdown(ctx),
	)
}

func dataPoints(data metricdata.Aggregation) int {
	switch d := data.(type) {
	case metricdata.Sum[int64]:
		return len(d.DataPoints)
	case metricdata.Gauge[float64]:
		return len(d.DataPoints)
	case metricdata.Histogram[float64]:
		return len(d.DataPoints)
	default:
		return 0
	}
}

// spanLogExporter logs every finished span.
type spanLogExporter struct {
	logger *slog.Logger
}

func (e *spanLogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		args := []any{
			logAttrTraceID, span.SpanContext().TraceID().String(),
			logAttrSpanID, span.SpanContext().SpanID().String(),
			logAttrStatus, span.Status().Code.String(),
			logAttrDurationMS, span.EndTime().Sub(span.StartTime()).Milliseconds(),
		}

		for _, attr := range span.Attributes() {
			args = append(args, string(attr.Key), attributeValue(attr))
		}

		e.logger.DebugContext(ctx, logMsgSpanFinished+span.Name(), args...)
	}

	return nil
}

func (e *spanLogExporter) Shutdown(context.Context) error {
	return nil
}

func attributeValue(attr attribute.KeyValue) string {
	return attr.Value.Emit()
}
