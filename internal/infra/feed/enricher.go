package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"newsreel/internal/domain/entity"
)

// ContentEnricher extracts the full article body from its URL.
type ContentEnricher interface {
	Extract(ctx context.Context, articleURL string) (string, error)
}

// maxContentBytes caps the fetched HTML to keep one huge page from
// exhausting memory.
const maxContentBytes = 2 << 20

// ReadabilityEnricher pulls the article HTML and runs the readability
// extraction over it.
type ReadabilityEnricher struct {
	client *http.Client
}

// NewReadabilityEnricher creates an enricher with a dedicated HTTP client.
func NewReadabilityEnricher(timeout time.Duration) *ReadabilityEnricher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ReadabilityEnricher{
		client: &http.Client{Timeout: timeout},
	}
}

// Extract downloads the page and returns its readable text content.
func (e *ReadabilityEnricher) Extract(ctx context.Context, articleURL string) (string, error) {
	if err := entity.ValidateURL(articleURL); err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch article page: status %d", resp.StatusCode)
	}

	parsed, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("parse article url: %w", err)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxContentBytes), parsed)
	if err != nil {
		return "", fmt.Errorf("extract readable content: %w", err)
	}
	if article.TextContent == "" {
		return "", fmt.Errorf("extract readable content: empty result")
	}
	return article.TextContent, nil
}
