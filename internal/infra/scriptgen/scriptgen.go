package scriptgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"newsreel/internal/domain/entity"
)

// Generator produces one narration script from a set of articles.
type Generator interface {
	Name() string
	Generate(ctx context.Context, articles []*entity.Article) (string, error)
}

// Chain tries each generator in order and returns the first script.
// The last generator should be infallible (the static template).
type Chain struct {
	Generators []Generator
	Logger     *slog.Logger
}

// NewChain creates a generator chain.
func NewChain(logger *slog.Logger, generators ...Generator) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{Generators: generators, Logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Generate walks the chain. Each failure is logged and the next generator
// takes over; only total exhaustion returns an error.
func (c *Chain) Generate(ctx context.Context, articles []*entity.Article) (string, error) {
	var lastErr error
	for _, g := range c.Generators {
		script, err := g.Generate(ctx, articles)
		if err == nil {
			return script, nil
		}
		lastErr = err
		c.Logger.Warn("script generator failed, trying next",
			slog.String("generator", g.Name()),
			slog.String("error", err.Error()))
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("all script generators failed: %w", lastErr)
}

// buildPrompt asks for a spoken-news script of roughly targetSeconds.
func buildPrompt(articles []*entity.Article, targetSeconds int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a news presenter. Write a narration script of about %d seconds of spoken audio covering the following space and science stories. ", targetSeconds)
	b.WriteString("Use short, clear sentences suitable for text-to-speech. No stage directions, no markdown.\n\n")
	for i, a := range articles {
		fmt.Fprintf(&b, "Story %d: %s\n%s\n\n", i+1, a.Title, a.Text())
	}
	return b.String()
}

// truncateToBudget trims the prompt to roughly budget tokens. Token counts
// come from tiktoken when the model's encoding is available; otherwise a
// 4-characters-per-token estimate is used.
func truncateToBudget(prompt, model string, budget int) string {
	if budget <= 0 {
		return prompt
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		approxChars := budget * 4
		if len(prompt) <= approxChars {
			return prompt
		}
		return prompt[:approxChars]
	}

	tokens := enc.Encode(prompt, nil, nil)
	if len(tokens) <= budget {
		return prompt
	}
	return enc.Decode(tokens[:budget])
}
