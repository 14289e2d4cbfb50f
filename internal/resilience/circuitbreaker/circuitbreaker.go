// Package circuitbreaker provides per-provider failure isolation for
// external service calls. It uses the github.com/sony/gobreaker library
// to prevent hammering providers that are already failing.
//
// Unlike a single wrapped call site, the artifact fallback chain needs an
// allow/report split: the router asks permission before dispatch and
// reports the outcome after retries complete. The two-step breaker form
// of gobreaker matches that contract directly.
package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"newsreel/internal/observability/metrics"
)

// Config holds the configuration applied to each provider's breaker.
type Config struct {
	// ConsecutiveFailures is the number of consecutive failures that
	// trips the circuit from closed to open.
	ConsecutiveFailures uint32

	// Cooldown is how long the circuit stays open before allowing a
	// single half-open probe.
	Cooldown time.Duration
}

// DefaultConfig returns the default breaker configuration: trip after
// 5 consecutive failures, probe again after 60 seconds. Both values are
// configuration, not invariants.
func DefaultConfig() Config {
	return Config{
		ConsecutiveFailures: 5,
		Cooldown:            60 * time.Second,
	}
}

// MediaProviderConfig returns configuration for stock-media providers.
func MediaProviderConfig() Config {
	return DefaultConfig()
}

// AIAPIConfig returns configuration for generative-text providers.
// Longer cooldown since AI providers rate-limit in minutes, not seconds.
func AIAPIConfig() Config {
	return Config{
		ConsecutiveFailures: 5,
		Cooldown:            2 * time.Minute,
	}
}

// Registry owns the circuit state for every provider in the process.
// It is the only piece of state shared across concurrent jobs; access is
// serialized per provider (gobreaker locks internally per breaker, the
// registry map is guarded here).
type Registry struct {
	cfg      Config
	mu       sync.RWMutex
	breakers map[string]*gobreaker.TwoStepCircuitBreaker
}

// NewRegistry creates a breaker registry applying cfg to every provider.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		breakers: make(map[string]*gobreaker.TwoStepCircuitBreaker),
	}
}

// Allow asks whether a call to the provider may proceed. When the circuit
// is closed, or half-open with the probe slot free, it returns a report
// callback and true; the caller must invoke report with the call outcome.
// When the circuit is open, it returns (nil, false) without any network
// attempt.
func (r *Registry) Allow(provider string) (report func(success bool), ok bool) {
	done, err := r.breaker(provider).Allow()
	if err != nil {
		// gobreaker.ErrOpenState or ErrTooManyRequests (half-open probe
		// already in flight); both mean "do not call".
		return nil, false
	}
	return done, true
}

// State returns the current circuit state for the provider.
func (r *Registry) State(provider string) gobreaker.State {
	return r.breaker(provider).State()
}

// States returns a snapshot of every known provider's circuit state.
func (r *Registry) States() map[string]gobreaker.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]gobreaker.State, len(r.breakers))
	for name, cb := range r.breakers {
		out[name] = cb.State()
	}
	return out
}

// IsOpen reports whether the provider's circuit is currently open.
func (r *Registry) IsOpen(provider string) bool {
	return r.State(provider) == gobreaker.StateOpen
}

// breaker returns the provider's breaker, creating it on first use.
func (r *Registry) breaker(provider string) *gobreaker.TwoStepCircuitBreaker {
	r.mu.RLock()
	cb, found := r.breakers[provider]
	r.mu.RUnlock()
	if found {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, found = r.breakers[provider]; found {
		return cb
	}

	threshold := r.cfg.ConsecutiveFailures
	cb = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1, // exactly one half-open probe
		Timeout:     r.cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.SetCircuitOpen(name, to == gobreaker.StateOpen)
			slog.Warn("circuit breaker state changed",
				slog.String("provider", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	r.breakers[provider] = cb
	return cb
}
