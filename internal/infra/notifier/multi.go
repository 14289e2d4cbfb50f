package notifier

import (
	"context"
	"log/slog"

	"newsreel/internal/domain/entity"
)

// Multi fans one run summary out to every configured channel. Channel
// failures are logged and swallowed so a dead webhook never fails a run.
type Multi struct {
	channels []Notifier
	logger   *slog.Logger
}

// NewMulti creates a fan-out notifier over the given channels.
func NewMulti(logger *slog.Logger, channels ...Notifier) *Multi {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multi{channels: channels, logger: logger}
}

func (m *Multi) Name() string { return "multi" }

// Enabled reports whether any channel is configured.
func (m *Multi) Enabled() bool { return len(m.channels) > 0 }

// NotifyRun delivers to every channel, continuing past failures. It
// always returns nil; delivery is best effort.
func (m *Multi) NotifyRun(ctx context.Context, j *entity.Job) error {
	for _, ch := range m.channels {
		if err := ch.NotifyRun(ctx, j); err != nil {
			m.logger.Warn("run notification failed",
				slog.String("channel", ch.Name()),
				slog.String("job_id", j.ID),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
