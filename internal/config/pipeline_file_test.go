package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadPipelineFile_OverlaysEnvironment(t *testing.T) {
	t.Setenv("FEED_URLS", "https://env.example.com/feed")
	t.Setenv("ARTICLE_LIMIT", "7")
	t.Setenv("RENDER_MODE", "fast")

	path := writeConfigFile(t, `
feeds:
  - https://file.example.com/a
  - https://file.example.com/b
mode: hq
output_dir: /tmp/renders
`)

	cfg, err := LoadPipelineFile(path)
	if err != nil {
		t.Fatalf("LoadPipelineFile: %v", err)
	}

	if len(cfg.FeedURLs) != 2 || cfg.FeedURLs[0] != "https://file.example.com/a" {
		t.Errorf("FeedURLs = %v, want file values", cfg.FeedURLs)
	}
	if cfg.Mode != "hq" {
		t.Errorf("Mode = %q, want %q", cfg.Mode, "hq")
	}
	if cfg.OutputDir != "/tmp/renders" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/tmp/renders")
	}
	// Fields absent from the file keep their environment values.
	if cfg.ArticleLimit != 7 {
		t.Errorf("ArticleLimit = %d, want 7", cfg.ArticleLimit)
	}
}

func TestLoadPipelineFile_InvalidMode(t *testing.T) {
	path := writeConfigFile(t, "mode: cinematic\n")

	if _, err := LoadPipelineFile(path); err == nil {
		t.Fatal("expected error for unknown preset name")
	}
}

func TestLoadPipelineFile_MissingFile(t *testing.T) {
	if _, err := LoadPipelineFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadPipelineFile_Malformed(t *testing.T) {
	path := writeConfigFile(t, "feeds: [unclosed\n")

	if _, err := LoadPipelineFile(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
