package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"newsreel/internal/domain/entity"
	"newsreel/internal/observability/metrics"
	"newsreel/internal/repository"
)

// Progress checkpoints per pipeline step.
var stepProgress = map[string]int{
	"fetch":      10,
	"script":     25,
	"narration":  40,
	"transcript": 55,
	"media":      75,
	"render":     95,
}

// Service owns all mutations of a job. The pipeline holds the *entity.Job
// in memory and routes every change through this service, so the ledger
// stays consistent even when the store is down.
type Service struct {
	Repo   repository.JobRepository
	Logger *slog.Logger

	writeAttempts uint
	writeDelay    time.Duration
}

// NewService creates a job ledger backed by the given repository.
func NewService(repo repository.JobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:          repo,
		Logger:        logger,
		writeAttempts: 3,
		writeDelay:    100 * time.Millisecond,
	}
}

// Create registers a new pending job. A store outage is logged and the
// in-memory job is returned anyway; later writes will retry.
func (s *Service) Create(ctx context.Context, name, mode string) (*entity.Job, error) {
	j := entity.NewJob(uuid.NewString(), name, mode)
	if err := j.Validate(); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.write(ctx, "create", j, func() error {
		return s.Repo.Create(ctx, j)
	})
	return j, nil
}

// Advance records that the job reached the given step. The first advance
// moves the job from pending to processing. Progress only moves forward.
// A paused job still accepts bookkeeping: tasks that were already in
// flight when the pause landed finish and must be counted.
func (s *Service) Advance(ctx context.Context, j *entity.Job, step string, processedSegments int64) error {
	if j.Status == entity.JobStatusPending {
		if err := j.Transition(entity.JobStatusProcessing); err != nil {
			return fmt.Errorf("advance job: %w", err)
		}
	}
	s.adoptPause(ctx, j)
	if j.Status != entity.JobStatusProcessing && j.Status != entity.JobStatusPaused {
		return fmt.Errorf("advance job: %w (status %s)", entity.ErrInvalidTransition, j.Status)
	}

	j.CurrentStep = step
	if p, ok := stepProgress[step]; ok && p > j.ProgressPercent {
		j.ProgressPercent = p
	}
	if processedSegments > 0 {
		j.ProcessedSegments += int(processedSegments)
		j.Metrics.Incr("segments_processed", processedSegments)
	}
	j.UpdatedAt = time.Now()

	s.write(ctx, "advance", j, func() error {
		return s.Repo.Update(ctx, j)
	})
	return nil
}

// RecordError appends a failure to the job's error log. The log is
// append-only and never truncated; a logged error does not change status.
func (s *Service) RecordError(ctx context.Context, j *entity.Job, jobErr entity.JobError) {
	s.adoptPause(ctx, j)
	j.AppendError(jobErr)

	s.write(ctx, "record_error", j, func() error {
		return s.Repo.Update(ctx, j)
	})
}

// IncrMetric bumps a named job counter.
func (s *Service) IncrMetric(ctx context.Context, j *entity.Job, name string, delta int64) {
	s.adoptPause(ctx, j)
	j.Metrics.Incr(name, delta)
	j.UpdatedAt = time.Now()

	s.write(ctx, "incr_metric", j, func() error {
		return s.Repo.Update(ctx, j)
	})
}

// Finish closes the job. It completes when processedSegments meets the
// caller's minimum, and fails otherwise. The terminal write is returned to
// the caller because it is the last chance to persist the outcome.
func (s *Service) Finish(ctx context.Context, j *entity.Job, processedSegments, minSegments int64) error {
	if minSegments < 1 {
		minSegments = 1
	}

	// A pause that lands after the last task started has no boundary left
	// to stop at; the run finished every task, so the job closes normally.
	if j.Status == entity.JobStatusPaused {
		if err := j.Transition(entity.JobStatusProcessing); err != nil {
			return fmt.Errorf("finish job: %w", err)
		}
	}

	target := entity.JobStatusCompleted
	if processedSegments < minSegments {
		target = entity.JobStatusFailed
	}
	if err := j.Transition(target); err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	if target == entity.JobStatusCompleted {
		j.ProgressPercent = 100
	}
	j.Metrics.Incr("segments_completed", processedSegments)
	metrics.RecordJobFinished(string(target))

	if err := s.write(ctx, "finish", j, func() error {
		return s.Repo.Update(ctx, j)
	}); err != nil {
		return fmt.Errorf("finish job: persist terminal state: %w", err)
	}
	return nil
}

// Fail marks the job failed regardless of progress.
func (s *Service) Fail(ctx context.Context, j *entity.Job, reason string) error {
	j.AppendError(entity.JobError{
		Step:       j.CurrentStep,
		Message:    reason,
		OccurredAt: time.Now(),
	})
	if err := j.Transition(entity.JobStatusFailed); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	metrics.RecordJobFinished(string(entity.JobStatusFailed))

	if err := s.write(ctx, "fail", j, func() error {
		return s.Repo.Update(ctx, j)
	}); err != nil {
		return fmt.Errorf("fail job: persist terminal state: %w", err)
	}
	return nil
}

// Pause suspends a processing job at the next task boundary.
func (s *Service) Pause(ctx context.Context, j *entity.Job) error {
	if err := j.Transition(entity.JobStatusPaused); err != nil {
		return fmt.Errorf("pause job: %w", err)
	}
	s.write(ctx, "pause", j, func() error {
		return s.Repo.Update(ctx, j)
	})
	return nil
}

// Resume returns a paused job to processing.
func (s *Service) Resume(ctx context.Context, j *entity.Job) error {
	if err := j.Transition(entity.JobStatusProcessing); err != nil {
		return fmt.Errorf("resume job: %w", err)
	}
	s.write(ctx, "resume", j, func() error {
		return s.Repo.Update(ctx, j)
	})
	return nil
}

// PauseRequested reports whether a pause is pending for the job, either
// already folded into the in-memory copy or sitting in the store after an
// external Pause. Runs poll this at task boundaries.
func (s *Service) PauseRequested(ctx context.Context, j *entity.Job) bool {
	if j.Status == entity.JobStatusPaused {
		return true
	}
	stored, err := s.Repo.Get(ctx, j.ID)
	if err != nil || stored == nil {
		return false
	}
	return stored.Status == entity.JobStatusPaused
}

// adoptPause folds a pause issued by another writer into the in-memory
// copy before a full-row write, so the write cannot overwrite the stored
// paused status with stale processing state.
func (s *Service) adoptPause(ctx context.Context, j *entity.Job) {
	if j.Status != entity.JobStatusProcessing {
		return
	}
	stored, err := s.Repo.Get(ctx, j.ID)
	if err != nil || stored == nil {
		return
	}
	if stored.Status == entity.JobStatusPaused {
		j.Status = entity.JobStatusPaused
		j.UpdatedAt = time.Now()
	}
}

// Get returns a job snapshot for pollers.
func (s *Service) Get(ctx context.Context, id string) (*entity.Job, error) {
	j, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if j == nil {
		return nil, ErrJobNotFound
	}
	return j, nil
}

// List returns the most recent jobs.
func (s *Service) List(ctx context.Context, limit int) ([]*entity.Job, error) {
	if limit <= 0 {
		limit = 20
	}
	jobs, err := s.Repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// write persists a ledger mutation with backoff. A final failure is logged
// and returned; most callers ignore it so the job continues in memory.
func (s *Service) write(ctx context.Context, op string, j *entity.Job, fn func() error) error {
	err := retry.Do(fn,
		retry.Attempts(s.writeAttempts),
		retry.Delay(s.writeDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		s.Logger.Warn("job ledger write failed, continuing in memory",
			slog.String("op", op),
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()))
	}
	return err
}
