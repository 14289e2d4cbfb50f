// Package postgres provides PostgreSQL implementations of the repository
// interfaces. It targets database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/repository"
)

// CacheRepo implements repository.CacheRepository on PostgreSQL.
type CacheRepo struct{ db *sql.DB }

// NewCacheRepo creates a new PostgreSQL-backed cache repository.
func NewCacheRepo(db *sql.DB) repository.CacheRepository {
	return &CacheRepo{db: db}
}

func (repo *CacheRepo) Get(ctx context.Context, kind entity.ArtifactKind, key string) (*entity.CacheEntry, error) {
	const query = `
SELECT id, kind, cache_key, payload_ref, metadata, created_at, last_used_at, use_count, expires_at
FROM cache_entries
WHERE kind = $1 AND cache_key = $2
LIMIT 1`
	entry, err := scanCacheEntry(repo.db.QueryRowContext(ctx, query, string(kind), key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return entry, nil
}

// Put inserts the entry unless (kind, cache_key) already exists. The
// ON CONFLICT DO NOTHING keeps cached payloads immutable even under
// concurrent duplicate fetches.
func (repo *CacheRepo) Put(ctx context.Context, e *entity.CacheEntry) (*entity.CacheEntry, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("Put: %w", err)
	}

	metadata, err := json.Marshal(e.Metadata)
	if err != nil {
		return nil, fmt.Errorf("Put: marshal metadata: %w", err)
	}

	const query = `
INSERT INTO cache_entries (kind, cache_key, payload_ref, metadata, created_at, last_used_at, use_count, expires_at)
VALUES ($1, $2, $3, $4, now(), now(), 0, $5)
ON CONFLICT (kind, cache_key) DO NOTHING
RETURNING id, created_at, last_used_at, use_count`

	stored := *e
	err = repo.db.QueryRowContext(ctx, query,
		string(e.Kind), e.Key, e.PayloadRef, metadata, e.ExpiresAt,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.LastUsedAt, &stored.UseCount)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: an entry already exists; return it untouched.
		return repo.Get(ctx, e.Kind, e.Key)
	}
	if err != nil {
		return nil, fmt.Errorf("Put: %w", err)
	}
	return &stored, nil
}

func (repo *CacheRepo) Touch(ctx context.Context, kind entity.ArtifactKind, key string) error {
	const query = `
UPDATE cache_entries
SET last_used_at = now(), use_count = use_count + 1
WHERE kind = $1 AND cache_key = $2`
	res, err := repo.db.ExecContext(ctx, query, string(kind), key)
	if err != nil {
		return fmt.Errorf("Touch: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Touch: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Touch: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *CacheRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM cache_entries WHERE expires_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeleteExpired: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteExpired: %w", err)
	}
	return affected, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCacheEntry(row rowScanner) (*entity.CacheEntry, error) {
	var (
		e        entity.CacheEntry
		kind     string
		metadata []byte
	)
	if err := row.Scan(
		&e.ID, &kind, &e.Key, &e.PayloadRef, &metadata,
		&e.CreatedAt, &e.LastUsedAt, &e.UseCount, &e.ExpiresAt,
	); err != nil {
		return nil, err
	}
	e.Kind = entity.ArtifactKind(kind)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &e, nil
}
