// Package config holds the pipeline's configuration surface: render
// presets and environment-driven settings.
package config

import (
	"fmt"

	pkgconfig "newsreel/pkg/config"
)

// PipelineConfig is everything one run needs from the environment.
type PipelineConfig struct {
	// FeedURLs are the RSS/Atom feeds articles are pulled from.
	FeedURLs []string

	// ArticleLimit is how many articles feed one script.
	ArticleLimit int

	// MinSegments is the completion threshold: a run that renders fewer
	// segments than this is marked failed.
	MinSegments int

	// Mode selects the render preset.
	Mode string

	// OutputDir receives rendered segments; free space there is the
	// governor's disk signal.
	OutputDir string

	// SQLitePath switches persistence to a local file when DATABASE_URL
	// is not set.
	SQLitePath string

	// Provider API keys. Empty keys disable the provider.
	PixabayKey  string
	PexelsKey   string
	UnsplashKey string
	GiphyKey    string

	// AI API keys.
	OpenAIKey    string
	AnthropicKey string
}

// LoadPipelineConfig reads pipeline settings from the environment.
//
// Environment variables:
//   - FEED_URLS: comma-separated feed list
//   - ARTICLE_LIMIT: articles per script (default 5)
//   - MIN_SEGMENTS: completion threshold (default 3)
//   - RENDER_MODE: preset name (default balanced)
//   - OUTPUT_DIR: render output directory (default ./out)
//   - SQLITE_PATH: local database path (default newsreel.db, used only
//     when DATABASE_URL is unset)
//   - PIXABAY_API_KEY, PEXELS_API_KEY, UNSPLASH_API_KEY, GIPHY_API_KEY
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY
func LoadPipelineConfig() (*PipelineConfig, error) {
	cfg := pipelineFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return cfg, nil
}

func pipelineFromEnv() *PipelineConfig {
	return &PipelineConfig{
		FeedURLs:     pkgconfig.GetEnvStringList("FEED_URLS", nil),
		ArticleLimit: pkgconfig.GetEnvInt("ARTICLE_LIMIT", 5),
		MinSegments:  pkgconfig.GetEnvInt("MIN_SEGMENTS", 3),
		Mode:         pkgconfig.GetEnvString("RENDER_MODE", DefaultPresetName),
		OutputDir:    pkgconfig.GetEnvString("OUTPUT_DIR", "./out"),
		SQLitePath:   pkgconfig.GetEnvString("SQLITE_PATH", "newsreel.db"),
		PixabayKey:   pkgconfig.GetEnvString("PIXABAY_API_KEY", ""),
		PexelsKey:    pkgconfig.GetEnvString("PEXELS_API_KEY", ""),
		UnsplashKey:  pkgconfig.GetEnvString("UNSPLASH_API_KEY", ""),
		GiphyKey:     pkgconfig.GetEnvString("GIPHY_API_KEY", ""),
		OpenAIKey:    pkgconfig.GetEnvString("OPENAI_API_KEY", ""),
		AnthropicKey: pkgconfig.GetEnvString("ANTHROPIC_API_KEY", ""),
	}
}

// Validate checks settings that would only fail mid-run otherwise.
func (c *PipelineConfig) Validate() error {
	if c.ArticleLimit < 1 {
		return fmt.Errorf("article limit must be positive, got %d", c.ArticleLimit)
	}
	if c.MinSegments < 1 {
		return fmt.Errorf("min segments must be positive, got %d", c.MinSegments)
	}
	if _, err := PresetByName(c.Mode); err != nil {
		return err
	}
	return nil
}
