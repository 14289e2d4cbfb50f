// Package notifier delivers run-outcome notifications over webhooks.
// Implementations handle retries and rate limiting internally; callers
// treat delivery as best effort and never fail a run on a notify error.
package notifier

import (
	"context"

	"newsreel/internal/domain/entity"
)

// Notifier announces the outcome of one assembly run.
type Notifier interface {
	// Name identifies the channel for logging, e.g. "slack".
	Name() string

	// NotifyRun sends a summary of the finished job. Implementations
	// must respect context cancellation.
	NotifyRun(ctx context.Context, j *entity.Job) error
}
