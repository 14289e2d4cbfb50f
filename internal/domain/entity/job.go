package entity

import (
	"fmt"
	"time"
)

// JobStatus represents the lifecycle state of a pipeline run.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusPaused     JobStatus = "paused"
)

// IsValid reports whether the status is one of the known job states.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted,
		JobStatusFailed, JobStatusPaused:
		return true
	}
	return false
}

// Terminal reports whether the status is final. Terminal jobs accept no
// further field mutation except CompletedAt.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether the state machine allows moving from the
// current status to the target status:
//
//	pending -> processing -> {completed, failed}
//	processing <-> paused
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusProcessing || target == JobStatusFailed
	case JobStatusProcessing:
		return target == JobStatusCompleted || target == JobStatusFailed ||
			target == JobStatusPaused
	case JobStatusPaused:
		return target == JobStatusProcessing || target == JobStatusFailed
	}
	return false
}

// JobError is a single structured entry in a job's error log.
// The log is append-only: entries are never overwritten or dropped, so it
// forms a complete audit trail of everything that went wrong during a run.
type JobError struct {
	Step       string    `json:"step"`
	Provider   string    `json:"provider,omitempty"`
	SegmentIdx int       `json:"segment_idx,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// JobMetrics holds free-form performance counters for a job run, such as
// api_calls_made, cache_hits, and per-step elapsed milliseconds.
type JobMetrics map[string]int64

// Incr increments the named counter by delta, creating it if absent.
func (m JobMetrics) Incr(name string, delta int64) {
	m[name] = m[name] + delta
}

// Get returns the value of the named counter, zero if absent.
func (m JobMetrics) Get(name string) int64 {
	return m[name]
}

// Job represents one end-to-end pipeline run. It is the unit external
// callers poll and resume against.
//
// A job has a single logical owner: only the run that created it mutates
// progress fields, so no internal locking is required. Concurrent readers
// receive snapshots through the job ledger.
type Job struct {
	ID                string
	Name              string
	Mode              string
	Status            JobStatus
	ProgressPercent   int
	CurrentStep       string
	TotalSegments     int
	ProcessedSegments int
	ErrorLog          []JobError
	Metrics           JobMetrics
	OutputPath        string
	StartedAt         time.Time
	UpdatedAt         time.Time
	CompletedAt       *time.Time
}

// NewJob creates a pending job with initialized metrics.
func NewJob(id, name, mode string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		Name:      name,
		Mode:      mode,
		Status:    JobStatusPending,
		Metrics:   JobMetrics{},
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the job to the target status, enforcing the state
// machine. Returns an error for illegal transitions or mutation of a
// terminal job.
func (j *Job) Transition(target JobStatus) error {
	if j.Status.Terminal() {
		return fmt.Errorf("job %s: %w: status %s is terminal", j.ID, ErrInvalidTransition, j.Status)
	}
	if !j.Status.CanTransitionTo(target) {
		return fmt.Errorf("job %s: %w: %s -> %s", j.ID, ErrInvalidTransition, j.Status, target)
	}
	j.Status = target
	j.UpdatedAt = time.Now()
	if target.Terminal() {
		now := time.Now()
		j.CompletedAt = &now
	}
	return nil
}

// AppendError appends a structured error record to the job's error log.
func (j *Job) AppendError(e JobError) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	j.ErrorLog = append(j.ErrorLog, e)
	j.UpdatedAt = time.Now()
}

// Validate validates the Job fields required for persistence.
func (j *Job) Validate() error {
	if j.ID == "" {
		return &ValidationError{Field: "id", Message: "job id is required"}
	}
	if j.Name == "" {
		return &ValidationError{Field: "name", Message: "job name is required"}
	}
	if !j.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "unknown job status"}
	}
	if j.ProgressPercent < 0 || j.ProgressPercent > 100 {
		return &ValidationError{Field: "progress_percent", Message: "progress must be between 0 and 100"}
	}
	return nil
}
