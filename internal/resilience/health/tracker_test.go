package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newsreel/internal/domain/entity"
)

func record(provider string, succeeded bool, at time.Time) *entity.ProviderCallRecord {
	return &entity.ProviderCallRecord{
		Provider:  provider,
		Succeeded: succeeded,
		Timestamp: at,
	}
}

func TestTracker_NeutralScoreWithoutCalls(t *testing.T) {
	tr := NewTracker(time.Hour)

	assert.InDelta(t, NeutralScore, tr.Score("nasa", time.Hour), 1e-9)
	assert.Equal(t, 0, tr.Calls("nasa", time.Hour))
}

func TestTracker_ScoreIsSuccessRatio(t *testing.T) {
	tr := NewTracker(time.Hour)
	now := time.Now()

	tr.Record(record("pixabay", true, now))
	tr.Record(record("pixabay", true, now))
	tr.Record(record("pixabay", false, now))
	tr.Record(record("pixabay", true, now))

	assert.InDelta(t, 0.75, tr.Score("pixabay", time.Hour), 1e-9)
	assert.Equal(t, 4, tr.Calls("pixabay", time.Hour))
}

func TestTracker_WindowExcludesOldOutcomes(t *testing.T) {
	tr := NewTracker(2 * time.Hour)
	now := time.Now()

	// Old failures outside a 30m window, fresh successes inside it.
	tr.Record(record("nasa", false, now.Add(-time.Hour)))
	tr.Record(record("nasa", false, now.Add(-time.Hour)))
	tr.Record(record("nasa", true, now))

	assert.InDelta(t, 1.0, tr.Score("nasa", 30*time.Minute), 1e-9)
	// The wider window still sees the failures.
	assert.InDelta(t, 1.0/3.0, tr.Score("nasa", 2*time.Hour), 1e-9)
}

func TestTracker_ProvidersIndependent(t *testing.T) {
	tr := NewTracker(time.Hour)
	now := time.Now()

	tr.Record(record("nasa", false, now))
	tr.Record(record("pexels", true, now))

	assert.InDelta(t, 0.0, tr.Score("nasa", time.Hour), 1e-9)
	assert.InDelta(t, 1.0, tr.Score("pexels", time.Hour), 1e-9)
}

func TestTracker_PrunesBeyondRetention(t *testing.T) {
	tr := NewTracker(10 * time.Minute)
	now := time.Now()

	tr.Record(record("giphy", false, now.Add(-time.Hour)))
	// Writing a fresh record prunes the stale one.
	tr.Record(record("giphy", true, now))

	assert.Equal(t, 1, tr.Calls("giphy", time.Hour))
}

func TestTracker_ZeroWindowFallsBackToDefault(t *testing.T) {
	tr := NewTracker(0)
	tr.Record(record("unsplash", true, time.Now()))

	assert.InDelta(t, 1.0, tr.Score("unsplash", 0), 1e-9)
}

func TestTracker_ConcurrentRecordAndScore(t *testing.T) {
	tr := NewTracker(time.Hour)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			tr.Record(record("nasa", i%2 == 0, time.Now()))
		}
	}()
	for i := 0; i < 100; i++ {
		s := tr.Score("nasa", time.Hour)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	<-done
}
