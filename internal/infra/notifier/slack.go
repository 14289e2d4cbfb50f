package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"newsreel/internal/domain/entity"
)

const (
	webhookTimeout  = 10 * time.Second
	webhookAttempts = 3
)

// Slack posts run summaries to a Slack incoming webhook.
type Slack struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewSlack creates a Slack notifier. Slack allows roughly one webhook
// message per second, so the limiter is pinned there.
func NewSlack(webhookURL string, logger *slog.Logger) *Slack {
	if logger == nil {
		logger = slog.Default()
	}
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		logger:     logger,
	}
}

func (s *Slack) Name() string { return "slack" }

type slackPayload struct {
	Text string `json:"text"`
}

// NotifyRun posts the run summary, retrying transient failures with
// backoff. A 429 waits out the advertised retry-after before the next
// attempt.
func (s *Slack) NotifyRun(ctx context.Context, j *entity.Job) error {
	body, err := json.Marshal(slackPayload{Text: runSummary(j)})
	if err != nil {
		return fmt.Errorf("slack payload: %w", err)
	}

	err = retry.Do(
		func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return postWebhook(ctx, s.client, s.webhookURL, body)
		},
		retry.Attempts(webhookAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return fmt.Errorf("slack notify: %w", err)
	}
	s.logger.Debug("slack notification sent", slog.String("job_id", j.ID))
	return nil
}

// postWebhook performs one webhook POST and maps the status code onto the
// shared error types.
func postWebhook(ctx context.Context, client *http.Client, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("webhook returned %d", resp.StatusCode)}
	default:
		return &ClientError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("webhook returned %d", resp.StatusCode)}
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}
