package notifier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"newsreel/internal/domain/entity"
)

// RateLimitError represents a 429 response from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx response other than 429. Not retryable.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx response. Retryable.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// isRetryable reports whether the webhook call is worth retrying.
// Server and network errors are; client errors are not, except 429 which
// carries its own retry-after delay.
func isRetryable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	return true
}

// runSummary renders the one-line outcome text shared by all channels.
func runSummary(j *entity.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s run %s: %s (%d/%d segments)",
		j.Name, j.ID, j.Status, j.ProcessedSegments, j.TotalSegments)
	if j.OutputPath != "" {
		fmt.Fprintf(&b, " -> %s", j.OutputPath)
	}
	if n := len(j.ErrorLog); n > 0 {
		fmt.Fprintf(&b, ", %d errors logged", n)
	}
	return b.String()
}
