package transcriber

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSplitter_Transcribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narration.txt")
	script := "A solar flare erupted overnight. Skywatchers should look north tonight! Crews docked safely."
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	segments, err := NewSplitter().Transcribe(context.Background(), path, "ignored")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("len(segments) = %d, want 3", len(segments))
	}
	if segments[0].Text != "A solar flare erupted overnight." {
		t.Errorf("segments[0].Text = %q", segments[0].Text)
	}
	if segments[0].Start != 0 {
		t.Errorf("segments[0].Start = %f, want 0", segments[0].Start)
	}
	// 5 words at 2.5 words per second.
	if segments[0].End != 2.0 {
		t.Errorf("segments[0].End = %f, want 2.0", segments[0].End)
	}
	if segments[1].Start != segments[0].End {
		t.Error("segments should be contiguous")
	}
	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segments[%d].Index = %d", i, seg.Index)
		}
	}
}

func TestSplitter_EmptyScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("   "), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := NewSplitter().Transcribe(context.Background(), path, ""); err == nil {
		t.Error("Transcribe() expected error for empty script")
	}
}

func TestSplitter_MissingFile(t *testing.T) {
	if _, err := NewSplitter().Transcribe(context.Background(), filepath.Join(t.TempDir(), "absent"), ""); err == nil {
		t.Error("Transcribe() expected error for missing file")
	}
}
