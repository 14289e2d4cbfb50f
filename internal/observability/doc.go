// Package observability provides the logging, metrics, and tracing
// infrastructure shared by the API server and the assembly pipeline.
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
//   - slo: service level objective gauges for pipeline runs
//
// Example usage:
//
//	import (
//	    "newsreel/internal/observability/logging"
//	    "newsreel/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("pipeline started")
//
//	    metrics.RecordProviderCall("pixabay", true, 120*time.Millisecond)
//	}
package observability
