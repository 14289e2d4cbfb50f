// Package narrator turns a generated script into narration audio.
package narrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Narrator synthesizes narration audio for a script and writes it to
// outPath.
type Narrator interface {
	Name() string
	Synthesize(ctx context.Context, script, outPath string) error
}

// Noop writes the script text itself to outPath instead of audio. It
// keeps the pipeline runnable without a speech backend; pair it with the
// script-splitting transcriber so downstream stages still get segments.
type Noop struct {
	logger *slog.Logger
}

func NewNoop(logger *slog.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) Name() string { return "noop" }

func (n *Noop) Synthesize(ctx context.Context, script, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("Synthesize: %w", err)
	}
	n.logger.Info("narration skipped (noop narrator)",
		slog.String("out_path", outPath),
		slog.Int("script_chars", len(script)),
	)
	return nil
}
