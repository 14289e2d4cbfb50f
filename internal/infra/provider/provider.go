// Package provider implements the external stock-media adapters. Each
// adapter wraps one HTTP API behind the route.Provider interface with a
// token-bucket rate limiter and status-class error mapping, so the fallback
// router treats every source uniformly.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"newsreel/internal/resilience/retry"
)

// Config holds the common knobs for one provider adapter.
type Config struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the token bucket.
	RequestsPerSecond float64
	Burst             int
}

func (c Config) withDefaults(baseURL string, rps float64, burst int) Config {
	if c.BaseURL == "" {
		c.BaseURL = baseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = rps
	}
	if c.Burst <= 0 {
		c.Burst = burst
	}
	return c
}

// client is the shared HTTP plumbing for all adapters.
type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newClient(cfg Config) client {
	return client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// getJSON performs a rate-limited GET and decodes the JSON response into
// out. Non-2xx statuses map to *retry.HTTPError so the retry layer can
// classify them by status class.
func (c client) getJSON(ctx context.Context, url string, header http.Header, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errNoResults marks an empty result set as permanent for this provider;
// retrying the same query cannot produce results, the router should fall
// back instead.
func errNoResults(provider, query string) error {
	return &retry.PermanentError{
		Err: fmt.Errorf("%s: no results for %q", provider, query),
	}
}
