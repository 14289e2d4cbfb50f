package repository

import (
	"context"

	"newsreel/internal/domain/entity"
)

// JobRepository persists pipeline job state.
// Jobs are single-writer: only the owning run mutates a job's row, so
// implementations need no optimistic locking.
type JobRepository interface {
	// Create inserts a new job row.
	Create(ctx context.Context, job *entity.Job) error

	// Update writes the job's mutable fields (status, progress, error
	// log, metrics) over the existing row.
	Update(ctx context.Context, job *entity.Job) error

	// Get returns the job by ID, or (nil, nil) when it does not exist.
	Get(ctx context.Context, id string) (*entity.Job, error)

	// List returns jobs ordered by started_at descending, newest first.
	List(ctx context.Context, limit int) ([]*entity.Job, error)
}
