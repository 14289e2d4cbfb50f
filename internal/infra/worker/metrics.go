package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsreel/internal/pkg/config"
)

// PipelineMetrics provides Prometheus metrics for scheduled assembly runs.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// run-level metrics for the cron-driven pipeline.
//
// Pipeline-specific metrics:
//   - pipeline_runs_total: runs by outcome (completed/failed/paused)
//   - pipeline_run_duration_seconds: wall-clock duration per run
//   - pipeline_segments_rendered_total: segments rendered across all runs
//   - pipeline_last_success_timestamp: Unix time of the last completed run
type PipelineMetrics struct {
	*config.ConfigMetrics

	RunsTotal                *prometheus.CounterVec
	RunDurationSeconds       prometheus.Histogram
	SegmentsRenderedTotal    prometheus.Counter
	LastSuccessTimestamp     prometheus.Gauge
	CacheEntriesEvictedTotal prometheus.Counter
}

// NewPipelineMetrics creates the metric set. Registration happens via
// promauto at construction time.
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		ConfigMetrics: config.NewConfigMetrics("pipeline"),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of assembly runs by outcome (completed/failed/paused)",
		}, []string{"outcome"}),

		RunDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Duration of one full assembly run in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		SegmentsRenderedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_segments_rendered_total",
			Help: "Total number of segments rendered across all runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_last_success_timestamp",
			Help: "Unix timestamp of the last completed assembly run",
		}),

		CacheEntriesEvictedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_cache_entries_evicted_total",
			Help: "Total number of expired cache entries removed by eviction",
		}),
	}
}

// MustRegister is a no-op kept for the conventional init sequence;
// promauto already registered everything in NewPipelineMetrics.
func (m *PipelineMetrics) MustRegister() {}

// RecordRun increments the run counter for the given outcome
// (completed, failed, or paused).
func (m *PipelineMetrics) RecordRun(outcome string) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

// RecordRunDuration observes one run's wall-clock duration.
func (m *PipelineMetrics) RecordRunDuration(seconds float64) {
	m.RunDurationSeconds.Observe(seconds)
}

// RecordSegmentsRendered adds the segments completed by one run.
func (m *PipelineMetrics) RecordSegmentsRendered(count int64) {
	m.SegmentsRenderedTotal.Add(float64(count))
}

// RecordLastSuccess stamps the completion time of a successful run.
func (m *PipelineMetrics) RecordLastSuccess() {
	m.LastSuccessTimestamp.SetToCurrentTime()
}

// RecordEvicted adds the entries removed by one eviction sweep.
func (m *PipelineMetrics) RecordEvicted(count int64) {
	m.CacheEntriesEvictedTotal.Add(float64(count))
}
