// Package tracing provides OpenTelemetry tracing integration: a shared
// tracer plus HTTP middleware that extracts and propagates trace context.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the application's global tracer.
var tracer = otel.Tracer("newsreel")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "resolve-media")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
