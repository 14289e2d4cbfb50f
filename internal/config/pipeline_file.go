package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// filePipelineConfig is the YAML shape of a pipeline config file. API keys
// are deliberately absent: secrets stay in the environment.
type filePipelineConfig struct {
	Feeds        []string `yaml:"feeds"`
	ArticleLimit int      `yaml:"article_limit"`
	MinSegments  int      `yaml:"min_segments"`
	Mode         string   `yaml:"mode"`
	OutputDir    string   `yaml:"output_dir"`
	SQLitePath   string   `yaml:"sqlite_path"`
}

// LoadPipelineFile loads the environment-derived configuration and overlays
// the YAML file at path on top of it. File values win over environment
// values; zero-valued fields in the file leave the environment value alone.
func LoadPipelineFile(path string) (*PipelineConfig, error) {
	cfg := pipelineFromEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPipelineFile: %w", err)
	}

	var f filePipelineConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadPipelineFile: parse %s: %w", path, err)
	}

	if len(f.Feeds) > 0 {
		cfg.FeedURLs = f.Feeds
	}
	if f.ArticleLimit > 0 {
		cfg.ArticleLimit = f.ArticleLimit
	}
	if f.MinSegments > 0 {
		cfg.MinSegments = f.MinSegments
	}
	if f.Mode != "" {
		cfg.Mode = f.Mode
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.SQLitePath != "" {
		cfg.SQLitePath = f.SQLitePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return cfg, nil
}
