package scriptgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newsreel/internal/domain/entity"
	"newsreel/internal/resilience/circuitbreaker"
	"newsreel/internal/resilience/retry"
)

// AnthropicGenerator is the secondary script generator.
type AnthropicGenerator struct {
	client      anthropic.Client
	cfg         *Config
	model       string
	breakers    *circuitbreaker.Registry
	retryConfig retry.Config
}

// NewAnthropicGenerator creates an Anthropic-backed script generator.
func NewAnthropicGenerator(apiKey string, cfg *Config, breakers *circuitbreaker.Registry) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		cfg:         cfg,
		model:       string(anthropic.ModelClaudeSonnet4_5_20250929),
		breakers:    breakers,
		retryConfig: retry.AIAPIConfig(),
	}
}

func (g *AnthropicGenerator) Name() string { return "anthropic" }

func (g *AnthropicGenerator) Generate(ctx context.Context, articles []*entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", &retry.PermanentError{Err: fmt.Errorf("no articles to script")}
	}

	report, allowed := g.breakers.Allow(g.Name())
	if !allowed {
		return "", fmt.Errorf("anthropic unavailable: circuit open")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := truncateToBudget(buildPrompt(articles, g.cfg.TargetSeconds), g.cfg.Model, g.cfg.TokenBudget)

	var script string
	err := retry.WithBackoff(ctx, g.retryConfig, func(ctx context.Context) error {
		start := time.Now()
		message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(g.model),
			MaxTokens: int64(g.cfg.MaxTokens),
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(prompt),
				),
			},
		})
		if err != nil {
			return fmt.Errorf("anthropic api error: %w", err)
		}
		if len(message.Content) == 0 {
			return fmt.Errorf("anthropic api returned empty response")
		}
		script = message.Content[0].Text
		slog.InfoContext(ctx, "script generated",
			slog.String("generator", g.Name()),
			slog.Int("script_length", len(script)),
			slog.Duration("duration", time.Since(start)))
		return nil
	})

	report(err == nil)
	if err != nil {
		return "", fmt.Errorf("anthropic script generation failed: %w", err)
	}
	return script, nil
}
