// Package oteladapters implements the timelane observability interfaces on top of OpenTelemetry.
//
// Plug them into the lane operator and the sinks to turn every lane subscription into a span,
// every record into metrics and every diagnostic into a log record correlated with the active span:
//
//	tracer := otel.Tracer("timelane")
//	sink := timelane.TracingSink(ctx, oteladapters.NewTracingCollector(tracer))
//
// Subscriptions that end with cancelled keep an unset span status, since cancellation is not a
// failure of the observed sequence.
package oteladapters
