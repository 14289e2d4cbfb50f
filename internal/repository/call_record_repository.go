package repository

import (
	"context"
	"time"

	"newsreel/internal/domain/entity"
)

// CallRecordRepository persists the append-only provider call audit log.
type CallRecordRepository interface {
	// Insert appends a call record. Records are never updated or deleted
	// by the pipeline.
	Insert(ctx context.Context, rec *entity.ProviderCallRecord) error

	// ListSince returns the provider's records with timestamps at or
	// after the cutoff, oldest first.
	ListSince(ctx context.Context, provider string, cutoff time.Time) ([]*entity.ProviderCallRecord, error)
}
