// Package metrics provides the centralized Prometheus metrics for the
// application. All metrics register with the default registry via promauto
// and are exposed through the /metrics endpoint of whichever process links
// this package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track the job API's request patterns and performance.
var (
	// HTTPRequestsTotal counts HTTP requests by method, normalized path,
	// and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration buckets cover fast status polls through slow
	// list queries, enabling p95 and p99 measurements.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks requests currently being served.
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Pipeline metrics track provider traffic, cache effectiveness, and the
// render stage.
var (
	// ProviderCallsTotal counts media and AI provider calls by outcome.
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of media and AI provider calls",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderCallDuration measures provider call latency per provider.
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_duration_seconds",
			Help:    "Latency of provider calls in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	// CacheLookupsTotal counts artifact cache lookups by kind and result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of artifact cache lookups",
		},
		[]string{"kind", "result"},
	)

	// JobsFinishedTotal counts jobs reaching a terminal state.
	JobsFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_finished_total",
			Help: "Total number of pipeline jobs reaching a terminal state",
		},
		[]string{"status"},
	)

	// CircuitOpen reports per-provider circuit state (1 open, 0 otherwise).
	CircuitOpen = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_open",
			Help: "Whether the provider's circuit breaker is currently open (1) or not (0)",
		},
		[]string{"provider"},
	)

	// GovernorBudget reports the most recent worker budget decision.
	GovernorBudget = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "governor_worker_budget",
			Help: "Render worker budget computed from host resources",
		},
	)

	// RenderDuration measures per-segment render time.
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "render_segment_duration_seconds",
			Help:    "Time taken to render one segment",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
)
