package narrator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNoop_Synthesize(t *testing.T) {
	out := filepath.Join(t.TempDir(), "narration.txt")
	n := NewNoop(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := n.Synthesize(context.Background(), "Hello from orbit.", out); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "Hello from orbit." {
		t.Errorf("output = %q, want script text", got)
	}
}

func TestNoop_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewNoop(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := n.Synthesize(ctx, "text", filepath.Join(t.TempDir(), "out")); err == nil {
		t.Error("Synthesize() expected error for cancelled context")
	}
}
