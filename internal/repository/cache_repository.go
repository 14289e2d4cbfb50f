// Package repository defines the persistence interfaces consumed by the
// use case layer. Concrete implementations live under
// internal/infra/adapter/persistence.
package repository

import (
	"context"
	"time"

	"newsreel/internal/domain/entity"
)

// CacheRepository persists content-addressed cache entries.
//
// Implementations must tolerate concurrent readers and concurrent
// idempotent writers: Put for an existing (kind, key) pair must not
// replace the payload reference.
type CacheRepository interface {
	// Get returns the entry for (kind, key) regardless of expiry.
	// Returns (nil, nil) when no entry exists.
	Get(ctx context.Context, kind entity.ArtifactKind, key string) (*entity.CacheEntry, error)

	// Put inserts the entry if absent. When an entry with the same
	// (kind, key) already exists, the stored payload is left untouched
	// and the existing entry is returned.
	Put(ctx context.Context, e *entity.CacheEntry) (*entity.CacheEntry, error)

	// Touch updates last_used_at to now and increments use_count.
	Touch(ctx context.Context, kind entity.ArtifactKind, key string) error

	// DeleteExpired removes entries whose expiry is before the cutoff
	// and returns the number removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
