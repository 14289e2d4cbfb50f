package hashutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContent_Deterministic(t *testing.T) {
	a := Content("aurora borealis")
	b := Content("aurora borealis")
	if a != b {
		t.Errorf("Content() not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Content() length = %d, want 64 hex chars", len(a))
	}
	if a == Content("aurora") {
		t.Error("Content() collision for different inputs")
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.bin")
	if err := os.WriteFile(path, []byte("fake media bytes"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if got != Content("fake media bytes") {
		t.Errorf("File() = %q, want content digest", got)
	}
}

func TestFile_Missing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("File() expected error for missing file")
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aurora  Borealis", "aurora borealis"},
		{"  mars   rover ", "mars rover"},
		{"ISS", "iss"},
	}
	for _, tt := range tests {
		if got := NormalizeQuery(tt.in); got != tt.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMediaKey_QueryVariationsShareKey(t *testing.T) {
	a := MediaKey("Aurora  Borealis", "nasa", "image")
	b := MediaKey("aurora borealis", "nasa", "image")
	if a != b {
		t.Error("normalized query variations should share a key")
	}
	if a == MediaKey("aurora borealis", "pixabay", "image") {
		t.Error("different providers should not share a key")
	}
	if a == MediaKey("aurora borealis", "nasa", "video") {
		t.Error("different media types should not share a key")
	}
}

func TestScriptKey_OrderIndependent(t *testing.T) {
	a := ScriptKey([]string{"https://a.example/1", "https://b.example/2"})
	b := ScriptKey([]string{"https://b.example/2", "https://a.example/1"})
	if a != b {
		t.Error("article order should not change the script key")
	}
	if a == ScriptKey([]string{"https://a.example/1"}) {
		t.Error("different article sets should not share a key")
	}
}

func TestTranscriptKey(t *testing.T) {
	a := TranscriptKey("abc123", "whisper-1")
	if a == TranscriptKey("abc123", "whisper-large") {
		t.Error("different models should not share a key")
	}
}
