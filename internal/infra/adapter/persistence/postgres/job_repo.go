package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"newsreel/internal/domain/entity"
	"newsreel/internal/repository"
)

// JobRepo implements repository.JobRepository on PostgreSQL.
type JobRepo struct{ db *sql.DB }

// NewJobRepo creates a new PostgreSQL-backed job repository.
func NewJobRepo(db *sql.DB) repository.JobRepository {
	return &JobRepo{db: db}
}

func (repo *JobRepo) Create(ctx context.Context, job *entity.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	errorLog, metrics, err := marshalJobJSON(job)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	const query = `
INSERT INTO jobs (id, name, mode, status, progress_percent, current_step,
                  total_segments, processed_segments, error_log, metrics,
                  output_path, started_at, updated_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = repo.db.ExecContext(ctx, query,
		job.ID, job.Name, job.Mode, string(job.Status), job.ProgressPercent,
		job.CurrentStep, job.TotalSegments, job.ProcessedSegments,
		errorLog, metrics, job.OutputPath,
		job.StartedAt, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *JobRepo) Update(ctx context.Context, job *entity.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	errorLog, metrics, err := marshalJobJSON(job)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	const query = `
UPDATE jobs
SET status = $2, progress_percent = $3, current_step = $4,
    total_segments = $5, processed_segments = $6, error_log = $7,
    metrics = $8, output_path = $9, updated_at = $10, completed_at = $11
WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query,
		job.ID, string(job.Status), job.ProgressPercent, job.CurrentStep,
		job.TotalSegments, job.ProcessedSegments, errorLog, metrics,
		job.OutputPath, job.UpdatedAt, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *JobRepo) Get(ctx context.Context, id string) (*entity.Job, error) {
	const query = `
SELECT id, name, mode, status, progress_percent, current_step,
       total_segments, processed_segments, error_log, metrics,
       output_path, started_at, updated_at, completed_at
FROM jobs
WHERE id = $1
LIMIT 1`
	job, err := scanJob(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return job, nil
}

func (repo *JobRepo) List(ctx context.Context, limit int) ([]*entity.Job, error) {
	const query = `
SELECT id, name, mode, status, progress_percent, current_step,
       total_segments, processed_segments, error_log, metrics,
       output_path, started_at, updated_at, completed_at
FROM jobs
ORDER BY started_at DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	jobs := make([]*entity.Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func marshalJobJSON(job *entity.Job) (errorLog, metrics []byte, err error) {
	errorLog, err = json.Marshal(job.ErrorLog)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal error_log: %w", err)
	}
	metrics, err = json.Marshal(job.Metrics)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal metrics: %w", err)
	}
	return errorLog, metrics, nil
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var (
		job      entity.Job
		status   string
		errorLog []byte
		metrics  []byte
	)
	if err := row.Scan(
		&job.ID, &job.Name, &job.Mode, &status, &job.ProgressPercent,
		&job.CurrentStep, &job.TotalSegments, &job.ProcessedSegments,
		&errorLog, &metrics, &job.OutputPath,
		&job.StartedAt, &job.UpdatedAt, &job.CompletedAt,
	); err != nil {
		return nil, err
	}
	job.Status = entity.JobStatus(status)

	if len(errorLog) > 0 {
		if err := json.Unmarshal(errorLog, &job.ErrorLog); err != nil {
			return nil, fmt.Errorf("unmarshal error_log: %w", err)
		}
	}
	job.Metrics = entity.JobMetrics{}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &job.Metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
	}
	return &job, nil
}
