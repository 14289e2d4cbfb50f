package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected bool
	}{
		{"pending is valid", JobStatusPending, true},
		{"processing is valid", JobStatusProcessing, true},
		{"completed is valid", JobStatusCompleted, true},
		{"failed is valid", JobStatusFailed, true},
		{"paused is valid", JobStatusPaused, true},
		{"empty is invalid", JobStatus(""), false},
		{"unknown is invalid", JobStatus("running"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestJobStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{JobStatusPending, JobStatusProcessing, true},
		{JobStatusPending, JobStatusFailed, true},
		{JobStatusPending, JobStatusCompleted, false},
		{JobStatusPending, JobStatusPaused, false},
		{JobStatusProcessing, JobStatusCompleted, true},
		{JobStatusProcessing, JobStatusFailed, true},
		{JobStatusProcessing, JobStatusPaused, true},
		{JobStatusPaused, JobStatusProcessing, true},
		{JobStatusPaused, JobStatusFailed, true},
		{JobStatusPaused, JobStatusCompleted, false},
		{JobStatusCompleted, JobStatusProcessing, false},
		{JobStatusFailed, JobStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestJob_Transition(t *testing.T) {
	job := NewJob("job-1", "SpaceNews_1700000000", "balanced")
	require.Equal(t, JobStatusPending, job.Status)
	require.Nil(t, job.CompletedAt)

	require.NoError(t, job.Transition(JobStatusProcessing))
	assert.Equal(t, JobStatusProcessing, job.Status)

	require.NoError(t, job.Transition(JobStatusPaused))
	require.NoError(t, job.Transition(JobStatusProcessing))

	require.NoError(t, job.Transition(JobStatusCompleted))
	assert.NotNil(t, job.CompletedAt)
}

func TestJob_Transition_TerminalIsFinal(t *testing.T) {
	job := NewJob("job-1", "test", "fast")
	require.NoError(t, job.Transition(JobStatusProcessing))
	require.NoError(t, job.Transition(JobStatusFailed))

	err := job.Transition(JobStatusProcessing)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, JobStatusFailed, job.Status)
}

func TestJob_Transition_Illegal(t *testing.T) {
	job := NewJob("job-1", "test", "fast")

	err := job.Transition(JobStatusPaused)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, JobStatusPending, job.Status)
}

func TestJob_AppendError(t *testing.T) {
	job := NewJob("job-1", "test", "balanced")

	job.AppendError(JobError{Step: "processing_media", Provider: "nasa", Message: "HTTP 503"})
	job.AppendError(JobError{Step: "processing_media", Provider: "pexels", Message: "HTTP 429"})

	require.Len(t, job.ErrorLog, 2)
	assert.Equal(t, "nasa", job.ErrorLog[0].Provider)
	assert.Equal(t, "pexels", job.ErrorLog[1].Provider)
	assert.False(t, job.ErrorLog[0].OccurredAt.IsZero())
}

func TestJobMetrics_Incr(t *testing.T) {
	m := JobMetrics{}

	m.Incr("api_calls_made", 1)
	m.Incr("api_calls_made", 2)
	m.Incr("cache_hits", 1)

	assert.Equal(t, int64(3), m.Get("api_calls_made"))
	assert.Equal(t, int64(1), m.Get("cache_hits"))
	assert.Equal(t, int64(0), m.Get("unknown_counter"))
}

func TestJob_Validate(t *testing.T) {
	valid := func() *Job {
		j := NewJob("job-1", "SpaceNews", "balanced")
		j.StartedAt = time.Now()
		return j
	}

	t.Run("valid job", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		j := valid()
		j.ID = ""
		assert.Error(t, j.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		j := valid()
		j.Name = ""
		assert.Error(t, j.Validate())
	})

	t.Run("bad status", func(t *testing.T) {
		j := valid()
		j.Status = "exploded"
		assert.Error(t, j.Validate())
	})

	t.Run("progress out of range", func(t *testing.T) {
		j := valid()
		j.ProgressPercent = 120
		assert.Error(t, j.Validate())
	})
}

func TestSegment_Duration(t *testing.T) {
	seg := Segment{Index: 1, Start: 2.5, End: 10.0, Text: "aurora over iceland"}
	assert.InDelta(t, 7.5, seg.Duration(), 1e-9)
}
