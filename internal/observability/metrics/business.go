package metrics

import (
	"time"
)

// RecordProviderCall records one provider call's outcome and latency.
func RecordProviderCall(provider string, succeeded bool, latency time.Duration) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	ProviderCallsTotal.WithLabelValues(provider, outcome).Inc()
	ProviderCallDuration.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordCacheLookup records a cache lookup. Result is hit, miss, or
// degraded (backend trouble treated as a miss).
func RecordCacheLookup(kind, result string) {
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// RecordJobFinished records a job reaching a terminal status.
func RecordJobFinished(status string) {
	JobsFinishedTotal.WithLabelValues(status).Inc()
}

// SetCircuitOpen updates the circuit state gauge for a provider.
func SetCircuitOpen(provider string, open bool) {
	v := 0.0
	if open {
		v = 1.0
	}
	CircuitOpen.WithLabelValues(provider).Set(v)
}

// SetGovernorBudget publishes the latest worker budget decision.
func SetGovernorBudget(workers int) {
	GovernorBudget.Set(float64(workers))
}

// RecordRenderDuration records the time taken to render one segment.
func RecordRenderDuration(duration time.Duration) {
	RenderDuration.Observe(duration.Seconds())
}
