// Package health tracks per-provider call outcomes and derives a rolling
// health score over a sliding time window. The score is an input signal
// for the fallback router; it never blocks calls by itself.
package health

import (
	"sync"
	"time"

	"newsreel/internal/domain/entity"
)

// NeutralScore is returned for providers with no calls inside the window,
// so untested providers are neither starved nor over-trusted.
const NeutralScore = 0.5

// DefaultWindow is the trailing window used when callers pass a
// non-positive window.
const DefaultWindow = 60 * time.Minute

type outcome struct {
	succeeded bool
	at        time.Time
}

// Tracker keeps an in-memory sliding window of call outcomes per provider.
// It is safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	window   time.Duration
	outcomes map[string][]outcome
	now      func() time.Time
}

// NewTracker creates a tracker retaining outcomes for the given window.
func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{
		window:   window,
		outcomes: make(map[string][]outcome),
		now:      time.Now,
	}
}

// Record appends a call outcome for the provider. Records older than the
// retention window are pruned opportunistically on each write.
func (t *Tracker) Record(rec *entity.ProviderCallRecord) {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = t.now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := prune(t.outcomes[rec.Provider], t.now().Add(-t.window))
	t.outcomes[rec.Provider] = append(pruned, outcome{succeeded: rec.Succeeded, at: ts})
}

// Score returns the success ratio for the provider over the trailing
// window, in [0, 1]. Providers with no calls in the window score
// NeutralScore.
func (t *Tracker) Score(provider string, window time.Duration) float64 {
	if window <= 0 {
		window = t.window
	}
	cutoff := t.now().Add(-window)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var total, successes int
	for _, o := range t.outcomes[provider] {
		if o.at.Before(cutoff) {
			continue
		}
		total++
		if o.succeeded {
			successes++
		}
	}

	if total == 0 {
		return NeutralScore
	}
	return float64(successes) / float64(total)
}

// Calls returns the number of recorded calls for the provider within the
// trailing window.
func (t *Tracker) Calls(provider string, window time.Duration) int {
	if window <= 0 {
		window = t.window
	}
	cutoff := t.now().Add(-window)

	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, o := range t.outcomes[provider] {
		if !o.at.Before(cutoff) {
			count++
		}
	}
	return count
}

func prune(outcomes []outcome, cutoff time.Time) []outcome {
	idx := 0
	for idx < len(outcomes) && outcomes[idx].at.Before(cutoff) {
		idx++
	}
	if idx == 0 {
		return outcomes
	}
	return append([]outcome(nil), outcomes[idx:]...)
}
