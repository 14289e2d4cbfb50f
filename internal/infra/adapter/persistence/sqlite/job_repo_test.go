package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"newsreel/internal/domain/entity"
	"newsreel/internal/infra/adapter/persistence/sqlite"
)

func jobRow(t *testing.T, job *entity.Job) *sqlmock.Rows {
	t.Helper()
	errorLog, err := json.Marshal(job.ErrorLog)
	if err != nil {
		t.Fatalf("marshal error log: %v", err)
	}
	metrics, err := json.Marshal(job.Metrics)
	if err != nil {
		t.Fatalf("marshal metrics: %v", err)
	}
	return sqlmock.NewRows([]string{
		"id", "name", "mode", "status", "progress_percent", "current_step",
		"total_segments", "processed_segments", "error_log", "metrics",
		"output_path", "started_at", "updated_at", "completed_at",
	}).AddRow(
		job.ID, job.Name, job.Mode, string(job.Status), job.ProgressPercent,
		job.CurrentStep, job.TotalSegments, job.ProcessedSegments,
		errorLog, metrics, job.OutputPath,
		job.StartedAt, job.UpdatedAt, job.CompletedAt,
	)
}

func TestJobRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	job := entity.NewJob("job-1", "mars rover update", "balanced")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := sqlite.NewJobRepo(db)
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestJobRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	want := &entity.Job{
		ID:              "job-2",
		Name:            "solar flare brief",
		Mode:            "fast",
		Status:          entity.JobStatusProcessing,
		ProgressPercent: 40,
		CurrentStep:     "media",
		ErrorLog: []entity.JobError{
			{Step: "media", Provider: "nasa", Message: "timeout", OccurredAt: now},
		},
		Metrics:   entity.JobMetrics{"provider_calls": 3},
		StartedAt: now.Add(-time.Minute),
		UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, mode, status")).
		WithArgs(want.ID).
		WillReturnRows(jobRow(t, want))

	repo := sqlite.NewJobRepo(db)
	got, err := repo.Get(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestJobRepo_Get_Missing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, mode, status")).
		WithArgs("job-gone").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := sqlite.NewJobRepo(db)
	got, err := repo.Get(context.Background(), "job-gone")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil", got)
	}
}

func TestJobRepo_Update_Missing(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	job := entity.NewJob("job-3", "comet flyby", "hq")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := sqlite.NewJobRepo(db)
	err := repo.Update(context.Background(), job)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("Update err=%v, want ErrNotFound", err)
	}
}

func TestJobRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	a := entity.NewJob("job-a", "launch recap", "fast")
	b := entity.NewJob("job-b", "iss resupply", "balanced")

	rows := jobRow(t, a)
	errorLog, _ := json.Marshal(b.ErrorLog)
	metrics, _ := json.Marshal(b.Metrics)
	rows.AddRow(
		b.ID, b.Name, b.Mode, string(b.Status), b.ProgressPercent,
		b.CurrentStep, b.TotalSegments, b.ProcessedSegments,
		errorLog, metrics, b.OutputPath,
		b.StartedAt, b.UpdatedAt, b.CompletedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY started_at DESC")).
		WithArgs(10).
		WillReturnRows(rows)

	repo := sqlite.NewJobRepo(db)
	got, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List len=%d, want 2", len(got))
	}
}
