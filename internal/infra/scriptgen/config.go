// Package scriptgen turns a set of news articles into a narration script.
// Generators are chained: OpenAI first, Anthropic second, and a static
// template last so a script always comes out.
package scriptgen

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds generation parameters shared by the API-backed generators.
// Configuration is loaded from environment variables with fallback to defaults.
type Config struct {
	// Model is the chat model identifier.
	Model string

	// MaxTokens bounds the response length.
	MaxTokens int

	// TokenBudget bounds the prompt input; articles beyond the budget are
	// truncated before the API call.
	TokenBudget int

	// TargetSeconds is the spoken length the prompt asks for.
	TargetSeconds int

	// Timeout is the maximum duration for a single generation call.
	Timeout time.Duration
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.TokenBudget <= 0 {
		return fmt.Errorf("token budget must be positive, got %d", c.TokenBudget)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// LoadConfig loads generation configuration from environment variables.
//
// Environment variables:
//   - SCRIPTGEN_MODEL: chat model (default: gpt-4o-mini)
//   - SCRIPTGEN_TOKEN_BUDGET: prompt token budget (default: 6000)
//   - SCRIPTGEN_TARGET_SECONDS: spoken script length (default: 75)
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Model:         "gpt-4o-mini",
		MaxTokens:     1024,
		TokenBudget:   6000,
		TargetSeconds: 75,
		Timeout:       60 * time.Second,
	}

	if model := os.Getenv("SCRIPTGEN_MODEL"); model != "" {
		cfg.Model = model
	}
	if budget := os.Getenv("SCRIPTGEN_TOKEN_BUDGET"); budget != "" {
		parsed, err := strconv.Atoi(budget)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRIPTGEN_TOKEN_BUDGET format: %s: %w", budget, err)
		}
		cfg.TokenBudget = parsed
	}
	if secs := os.Getenv("SCRIPTGEN_TARGET_SECONDS"); secs != "" {
		parsed, err := strconv.Atoi(secs)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRIPTGEN_TARGET_SECONDS format: %s: %w", secs, err)
		}
		cfg.TargetSeconds = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scriptgen configuration: %w", err)
	}
	return cfg, nil
}
