package circuitbreaker

import (
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		ConsecutiveFailures: 5,
		Cooldown:            50 * time.Millisecond,
	}
}

// fail records n consecutive failures against the provider.
func fail(t *testing.T, r *Registry, provider string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		report, ok := r.Allow(provider)
		require.True(t, ok, "call %d should be allowed", i+1)
		report(false)
	}
}

func TestRegistry_StartsClosed(t *testing.T) {
	r := NewRegistry(testConfig())

	assert.Equal(t, gobreaker.StateClosed, r.State("nasa"))
	assert.False(t, r.IsOpen("nasa"))

	report, ok := r.Allow("nasa")
	require.True(t, ok)
	report(true)
	assert.Equal(t, gobreaker.StateClosed, r.State("nasa"))
}

func TestRegistry_TripsAfterConsecutiveFailures(t *testing.T) {
	r := NewRegistry(testConfig())

	fail(t, r, "nasa", 4)
	assert.False(t, r.IsOpen("nasa"), "4 failures must not trip a threshold of 5")

	fail(t, r, "nasa", 1)
	assert.True(t, r.IsOpen("nasa"))

	_, ok := r.Allow("nasa")
	assert.False(t, ok, "open circuit must refuse without a network attempt")
}

func TestRegistry_SuccessResetsConsecutiveCount(t *testing.T) {
	r := NewRegistry(testConfig())

	fail(t, r, "pexels", 4)
	report, ok := r.Allow("pexels")
	require.True(t, ok)
	report(true)

	fail(t, r, "pexels", 4)
	assert.False(t, r.IsOpen("pexels"), "success in between must reset the failure streak")
}

func TestRegistry_HalfOpenSingleProbe(t *testing.T) {
	r := NewRegistry(testConfig())

	fail(t, r, "nasa", 5)
	require.True(t, r.IsOpen("nasa"))

	// Cooldown elapses; exactly one probe is allowed.
	time.Sleep(60 * time.Millisecond)

	probe, ok := r.Allow("nasa")
	require.True(t, ok, "first call after cooldown is the half-open probe")

	_, ok = r.Allow("nasa")
	assert.False(t, ok, "second call during half-open must be refused")

	// Probe success re-closes the circuit.
	probe(true)
	assert.Equal(t, gobreaker.StateClosed, r.State("nasa"))

	report, ok := r.Allow("nasa")
	require.True(t, ok)
	report(true)
}

func TestRegistry_ProbeFailureReopensWithFreshCooldown(t *testing.T) {
	r := NewRegistry(testConfig())

	fail(t, r, "giphy", 5)
	time.Sleep(60 * time.Millisecond)

	probe, ok := r.Allow("giphy")
	require.True(t, ok)
	probe(false)

	assert.True(t, r.IsOpen("giphy"))
	_, ok = r.Allow("giphy")
	assert.False(t, ok, "circuit must be open again right after a failed probe")
}

func TestRegistry_ProvidersAreIndependent(t *testing.T) {
	r := NewRegistry(testConfig())

	fail(t, r, "nasa", 5)
	assert.True(t, r.IsOpen("nasa"))
	assert.False(t, r.IsOpen("pixabay"))

	report, ok := r.Allow("pixabay")
	require.True(t, ok)
	report(true)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry(testConfig())

	var wg sync.WaitGroup
	providers := []string{"nasa", "pexels", "pixabay", "unsplash", "giphy"}
	for _, p := range providers {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(provider string) {
				defer wg.Done()
				if report, ok := r.Allow(provider); ok {
					report(true)
				}
			}(p)
		}
	}
	wg.Wait()

	for _, p := range providers {
		assert.False(t, r.IsOpen(p))
	}
}
