// Package slo tracks the pipeline's service level objectives as gauges
// that a dashboard can alert on directly.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the assembly pipeline.
const (
	// RunSuccessSLO is the target share of runs that complete.
	RunSuccessSLO = 0.95

	// SegmentFallbackSLO is the maximum acceptable share of segments
	// served by the fallback placeholder instead of provider media.
	SegmentFallbackSLO = 0.05

	// CacheHitSLO is the target cache hit ratio once the cache is warm;
	// below it, provider spend grows faster than output.
	CacheHitSLO = 0.5
)

var (
	// SLORunSuccess is the share of runs that completed, over the
	// process lifetime (0-1).
	SLORunSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_run_success_ratio",
			Help: "Share of assembly runs that completed (0-1), target: 0.95",
		},
	)

	// SLOSegmentFallback is the share of segments that fell back to the
	// placeholder visual in the most recent run (0-1).
	SLOSegmentFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_segment_fallback_ratio",
			Help: "Share of segments served by fallback media in the last run (0-1), target: <= 0.05",
		},
	)

	// SLOCacheHit is the cache hit ratio of the most recent run (0-1).
	SLOCacheHit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_cache_hit_ratio",
			Help: "Cache hit ratio of the last assembly run (0-1), target: >= 0.5",
		},
	)
)

// UpdateRunSuccess publishes the lifetime run success ratio.
func UpdateRunSuccess(ratio float64) {
	SLORunSuccess.Set(ratio)
}

// UpdateSegmentFallback publishes the last run's fallback ratio.
func UpdateSegmentFallback(ratio float64) {
	SLOSegmentFallback.Set(ratio)
}

// UpdateCacheHit publishes the last run's cache hit ratio.
func UpdateCacheHit(ratio float64) {
	SLOCacheHit.Set(ratio)
}
