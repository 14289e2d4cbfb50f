// Package renderer defines the boundary to the external render engine.
// The pipeline only needs per-segment rendering; composition of the final
// video happens outside this process.
package renderer

import (
	"context"
	"log/slog"

	"newsreel/internal/domain/entity"
)

// Task is one segment render request: the timed text and the artifact
// chosen for it.
type Task struct {
	Segment  entity.Segment
	Artifact *entity.Artifact
	Preset   string
}

// Renderer renders a single segment.
type Renderer interface {
	RenderSegment(ctx context.Context, task Task) error
}

// Noop logs instead of rendering. Used in dry runs and tests.
type Noop struct {
	Logger *slog.Logger
}

// NewNoop creates a no-op renderer.
func NewNoop(logger *slog.Logger) *Noop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Noop{Logger: logger}
}

func (n *Noop) RenderSegment(ctx context.Context, task Task) error {
	n.Logger.InfoContext(ctx, "render skipped (noop renderer)",
		slog.Int("segment", task.Segment.Index),
		slog.String("preset", task.Preset))
	return nil
}
