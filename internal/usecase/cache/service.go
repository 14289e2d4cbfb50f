package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsreel/internal/domain/entity"
	"newsreel/internal/observability/metrics"
	"newsreel/internal/repository"
)

const (
	// DefaultTTL is how long an artifact stays reusable.
	DefaultTTL = 30 * 24 * time.Hour

	// degradedAfter is the consecutive backend failure count that flips the
	// store into no-cache mode.
	degradedAfter = 3

	// degradedCooldown is how long the store stays in no-cache mode before
	// probing the backend again.
	degradedCooldown = 30 * time.Second
)

// Service provides cache lookup/put/touch/evict use cases.
// It treats the backend as best effort: a broken backend degrades the store
// into no-cache mode rather than failing the pipeline.
type Service struct {
	Repo   repository.CacheRepository
	TTL    time.Duration
	Logger *slog.Logger

	now func() time.Time

	mu         sync.Mutex
	failStreak int
	downUntil  time.Time
}

// NewService creates a cache service with the given repository.
func NewService(repo repository.CacheRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Repo:   repo,
		TTL:    DefaultTTL,
		Logger: logger,
		now:    time.Now,
	}
}

// Lookup returns the entry for (kind, key), or nil on a miss. Expired rows
// count as misses; they stay in storage until an eviction pass. A backend
// failure is reported as a miss so callers fall through to providers.
func (s *Service) Lookup(ctx context.Context, kind entity.ArtifactKind, key string) (*entity.CacheEntry, error) {
	if s.degraded() {
		metrics.RecordCacheLookup(string(kind), "degraded")
		return nil, nil
	}

	entry, err := s.Repo.Get(ctx, kind, key)
	if err != nil {
		s.recordFailure()
		s.Logger.Warn("cache lookup failed, treating as miss",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		metrics.RecordCacheLookup(string(kind), "miss")
		return nil, nil
	}
	s.recordSuccess()

	if entry == nil || entry.Expired(s.now()) {
		metrics.RecordCacheLookup(string(kind), "miss")
		return nil, nil
	}
	metrics.RecordCacheLookup(string(kind), "hit")

	// Bump usage stats; losing the bump is harmless.
	if err := s.Repo.Touch(ctx, kind, key); err != nil {
		s.Logger.Warn("cache touch failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
	return entry, nil
}

// Put stores an artifact reference under (kind, key). Existing keys are
// immutable: putting again keeps the stored payload and counts as a use.
// Returns a *BackendError when the backend is unavailable; in degraded mode
// the write is skipped entirely.
func (s *Service) Put(ctx context.Context, kind entity.ArtifactKind, key, payloadRef string, meta entity.CacheMetadata) (*entity.CacheEntry, error) {
	if s.degraded() {
		return nil, nil
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	entry, err := s.Repo.Put(ctx, &entity.CacheEntry{
		Kind:       kind,
		Key:        key,
		PayloadRef: payloadRef,
		Metadata:   meta,
		ExpiresAt:  s.now().Add(ttl),
	})
	if err != nil {
		s.recordFailure()
		return nil, &BackendError{Op: "put", Err: err}
	}
	s.recordSuccess()

	if err := s.Repo.Touch(ctx, kind, key); err != nil {
		s.Logger.Warn("cache touch failed",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
	return entry, nil
}

// Touch bumps last_used_at and use_count for an existing entry.
func (s *Service) Touch(ctx context.Context, kind entity.ArtifactKind, key string) error {
	if err := s.Repo.Touch(ctx, kind, key); err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

// Evict deletes all expired entries and returns the number removed.
func (s *Service) Evict(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, &BackendError{Op: "evict", Err: err}
	}
	if n > 0 {
		s.Logger.Info("evicted expired cache entries", slog.Int64("count", n))
	}
	return n, nil
}

// degraded reports whether the store is currently in no-cache mode.
func (s *Service) degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failStreak >= degradedAfter && s.now().Before(s.downUntil)
}

func (s *Service) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStreak++
	if s.failStreak >= degradedAfter {
		s.downUntil = s.now().Add(degradedCooldown)
		s.Logger.Warn("cache backend degraded, entering no-cache mode",
			slog.Int("fail_streak", s.failStreak),
			slog.Duration("cooldown", degradedCooldown))
	}
}

func (s *Service) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStreak = 0
	s.downUntil = time.Time{}
}
