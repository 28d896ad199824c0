// Package tracing provides OpenTelemetry tracing integration: a global
// tracer, a tracer provider bootstrap, and HTTP middleware that creates a
// server span per request.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the latest-news application.
var tracer = otel.Tracer("latest-news")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// Setup installs a tracer provider with W3C trace-context propagation and
// returns a shutdown function to flush spans on exit. Span export is left to
// the default (none) unless an exporter is registered by the deployment.
func Setup() func(context.Context) error {
	provider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return provider.Shutdown
}
