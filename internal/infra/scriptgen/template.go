package scriptgen

import (
	"context"
	"fmt"
	"strings"

	"newsreel/internal/domain/entity"
)

// TemplateGenerator is the infallible last resort: a plain readout built
// from the article titles and summaries, no API involved.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the static fallback generator.
func NewTemplateGenerator() *TemplateGenerator { return &TemplateGenerator{} }

func (g *TemplateGenerator) Name() string { return "template" }

func (g *TemplateGenerator) Generate(_ context.Context, articles []*entity.Article) (string, error) {
	if len(articles) == 0 {
		return "", fmt.Errorf("no articles to script")
	}

	var b strings.Builder
	b.WriteString("Here are today's top space and science stories. ")
	for i, a := range articles {
		fmt.Fprintf(&b, "Story %d: %s. ", i+1, strings.TrimSpace(a.Title))
		if s := firstSentence(a.Text()); s != "" {
			b.WriteString(s)
			b.WriteString(" ")
		}
	}
	b.WriteString("That's all for this update. Thanks for listening.")
	return b.String(), nil
}

// firstSentence returns the leading sentence of the text, capped at 200
// characters so a malformed summary cannot flood the script.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		text = text[:idx+1]
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
