package scriptgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"newsreel/internal/domain/entity"
	"newsreel/internal/resilience/circuitbreaker"
	"newsreel/internal/resilience/retry"
)

// OpenAIGenerator generates scripts via the OpenAI chat API, wrapped in the
// shared breaker registry and AI retry policy.
type OpenAIGenerator struct {
	client      *openai.Client
	cfg         *Config
	breakers    *circuitbreaker.Registry
	retryConfig retry.Config
}

// NewOpenAIGenerator creates an OpenAI-backed script generator.
func NewOpenAIGenerator(apiKey string, cfg *Config, breakers *circuitbreaker.Registry) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		cfg:         cfg,
		breakers:    breakers,
		retryConfig: retry.AIAPIConfig(),
	}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate builds the prompt, trims it to the token budget, and calls the
// chat API with retries. An open circuit fails fast so the chain falls back.
func (g *OpenAIGenerator) Generate(ctx context.Context, articles []*entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", &retry.PermanentError{Err: fmt.Errorf("no articles to script")}
	}

	report, allowed := g.breakers.Allow(g.Name())
	if !allowed {
		return "", fmt.Errorf("openai unavailable: circuit open")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := truncateToBudget(buildPrompt(articles, g.cfg.TargetSeconds), g.cfg.Model, g.cfg.TokenBudget)

	var script string
	err := retry.WithBackoff(ctx, g.retryConfig, func(ctx context.Context) error {
		start := time.Now()
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     g.cfg.Model,
			MaxTokens: g.cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			}},
		})
		if err != nil {
			return fmt.Errorf("openai api error: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("openai api returned empty response")
		}
		script = resp.Choices[0].Message.Content
		slog.InfoContext(ctx, "script generated",
			slog.String("generator", g.Name()),
			slog.Int("script_length", len(script)),
			slog.Duration("duration", time.Since(start)))
		return nil
	})

	report(err == nil)
	if err != nil {
		return "", fmt.Errorf("openai script generation failed: %w", err)
	}
	return script, nil
}
