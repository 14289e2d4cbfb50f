package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/repository"
)

// CallRecordRepo implements repository.CallRecordRepository on PostgreSQL.
// The table is append-only; the pipeline never updates or deletes rows.
type CallRecordRepo struct{ db *sql.DB }

// NewCallRecordRepo creates a new PostgreSQL-backed call record repository.
func NewCallRecordRepo(db *sql.DB) repository.CallRecordRepository {
	return &CallRecordRepo{db: db}
}

func (repo *CallRecordRepo) Insert(ctx context.Context, rec *entity.ProviderCallRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	const query = `
INSERT INTO provider_call_records (provider, request_signature, succeeded, latency_ms, error_detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := repo.db.ExecContext(ctx, query,
		rec.Provider, rec.RequestSignature, rec.Succeeded,
		rec.Latency.Milliseconds(), rec.ErrorDetail, ts,
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

func (repo *CallRecordRepo) ListSince(ctx context.Context, provider string, cutoff time.Time) ([]*entity.ProviderCallRecord, error) {
	const query = `
SELECT id, provider, request_signature, succeeded, latency_ms, error_detail, created_at
FROM provider_call_records
WHERE provider = $1 AND created_at >= $2
ORDER BY created_at ASC`
	rows, err := repo.db.QueryContext(ctx, query, provider, cutoff)
	if err != nil {
		return nil, fmt.Errorf("ListSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*entity.ProviderCallRecord, 0, 64)
	for rows.Next() {
		var (
			rec       entity.ProviderCallRecord
			latencyMS int64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Provider, &rec.RequestSignature,
			&rec.Succeeded, &latencyMS, &rec.ErrorDetail, &rec.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("ListSince: %w", err)
		}
		rec.Latency = time.Duration(latencyMS) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}
