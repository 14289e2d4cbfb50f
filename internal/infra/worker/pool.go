package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newsreel/internal/infra/renderer"
	"newsreel/internal/observability/metrics"
)

// ErrPaused is returned when the pool stops at a task boundary because the
// run was paused. Completed tasks stand; the remaining tasks are reported
// back so the caller can resume later.
var ErrPaused = errors.New("render paused")

// Budget supplies the worker limit. It is consulted once per batch; the
// limit never changes mid-batch.
type Budget interface {
	MaxConcurrency() int
}

// RenderHooks carries the per-run callbacks one Render call consults.
// Any field may be nil. Callbacks never run concurrently with each other,
// so they may mutate shared run state without locking.
type RenderHooks struct {
	// ShouldPause is polled at task boundaries.
	ShouldPause func() bool

	// OnRendered receives each successfully rendered task.
	OnRendered func(task renderer.Task)

	// OnError receives per-task failures. Failed tasks are skipped, not
	// retried; the pool itself never aborts on a task error.
	OnError func(task renderer.Task, err error)
}

func (h RenderHooks) paused() bool {
	return h.ShouldPause != nil && h.ShouldPause()
}

// Pool renders segment tasks in budget-sized batches.
type Pool struct {
	Renderer renderer.Renderer
	Budget   Budget
	Logger   *slog.Logger
}

// NewPool creates a render pool.
func NewPool(r renderer.Renderer, budget Budget, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{Renderer: r, Budget: budget, Logger: logger}
}

// Render processes the tasks and returns the number completed successfully
// together with any unprocessed remainder. It returns ErrPaused when
// stopping at a pause boundary and the context error when cancelled.
func (p *Pool) Render(ctx context.Context, tasks []renderer.Task, hooks RenderHooks) (completed int64, remaining []renderer.Task, err error) {
	pending := tasks
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return completed, pending, err
		}
		if hooks.paused() {
			return completed, pending, ErrPaused
		}

		limit := p.Budget.MaxConcurrency()
		if limit < 1 {
			limit = 1
		}
		batch := pending
		if len(batch) > limit {
			batch = batch[:limit]
		}
		pending = pending[len(batch):]

		p.Logger.Debug("render batch starting",
			slog.Int("batch_size", len(batch)),
			slog.Int("budget", limit),
			slog.Int("remaining", len(pending)))

		completed += p.renderBatch(ctx, batch, limit, hooks)
	}
	return completed, nil, nil
}

// renderBatch runs one batch to completion. Task failures are reported and
// skipped so one bad segment never cancels its siblings. Hooks fire under
// the batch lock, one at a time.
func (p *Pool) renderBatch(ctx context.Context, batch []renderer.Task, limit int, hooks RenderHooks) int64 {
	var (
		g  errgroup.Group
		mu sync.Mutex
		ok int64
	)
	g.SetLimit(limit)

	for _, task := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			start := time.Now()
			if err := p.Renderer.RenderSegment(ctx, task); err != nil {
				p.Logger.Warn("segment render failed",
					slog.Int("segment", task.Segment.Index),
					slog.String("error", err.Error()))
				if hooks.OnError != nil {
					mu.Lock()
					hooks.OnError(task, err)
					mu.Unlock()
				}
				return nil
			}
			metrics.RecordRenderDuration(time.Since(start))
			mu.Lock()
			ok++
			if hooks.OnRendered != nil {
				hooks.OnRendered(task)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return ok
}
