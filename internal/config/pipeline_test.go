package config

import (
	"testing"
)

func TestLoadPipelineConfig_Defaults(t *testing.T) {
	t.Setenv("FEED_URLS", "")
	t.Setenv("ARTICLE_LIMIT", "")
	t.Setenv("MIN_SEGMENTS", "")
	t.Setenv("RENDER_MODE", "")

	cfg, err := LoadPipelineConfig()
	if err != nil {
		t.Fatalf("LoadPipelineConfig() error = %v", err)
	}
	if cfg.ArticleLimit != 5 {
		t.Errorf("ArticleLimit = %d, want 5", cfg.ArticleLimit)
	}
	if cfg.MinSegments != 3 {
		t.Errorf("MinSegments = %d, want 3", cfg.MinSegments)
	}
	if cfg.Mode != DefaultPresetName {
		t.Errorf("Mode = %q, want %q", cfg.Mode, DefaultPresetName)
	}
	if len(cfg.FeedURLs) != 0 {
		t.Errorf("FeedURLs = %v, want empty", cfg.FeedURLs)
	}
}

func TestLoadPipelineConfig_FeedURLList(t *testing.T) {
	t.Setenv("FEED_URLS", "https://a.example/rss, https://b.example/feed ,,")

	cfg, err := LoadPipelineConfig()
	if err != nil {
		t.Fatalf("LoadPipelineConfig() error = %v", err)
	}
	want := []string{"https://a.example/rss", "https://b.example/feed"}
	if len(cfg.FeedURLs) != len(want) {
		t.Fatalf("FeedURLs = %v, want %v", cfg.FeedURLs, want)
	}
	for i := range want {
		if cfg.FeedURLs[i] != want[i] {
			t.Errorf("FeedURLs[%d] = %q, want %q", i, cfg.FeedURLs[i], want[i])
		}
	}
}

func TestLoadPipelineConfig_InvalidMode(t *testing.T) {
	t.Setenv("RENDER_MODE", "cinematic")

	if _, err := LoadPipelineConfig(); err == nil {
		t.Error("LoadPipelineConfig() expected error for unknown preset")
	}
}

func TestPipelineConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PipelineConfig
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  PipelineConfig{ArticleLimit: 5, MinSegments: 3, Mode: "balanced"},
		},
		{
			name:    "zero article limit",
			cfg:     PipelineConfig{ArticleLimit: 0, MinSegments: 3, Mode: "balanced"},
			wantErr: true,
		},
		{
			name:    "zero min segments",
			cfg:     PipelineConfig{ArticleLimit: 5, MinSegments: 0, Mode: "balanced"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     PipelineConfig{ArticleLimit: 5, MinSegments: 3, Mode: "imax"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
