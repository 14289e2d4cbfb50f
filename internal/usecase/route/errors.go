// Package route implements provider fallback for media fetches. Providers
// are tried in a fixed preference order; circuit state and health scores
// only skip providers, never re-rank them. The first success wins.
package route

import (
	"fmt"
	"strings"
)

// AllExhaustedError indicates that every provider in the preference order
// was skipped or failed. It is recoverable at job level: the segment is
// degraded and the run continues.
type AllExhaustedError struct {
	Query     string
	Attempted []string
	LastErr   error
}

func (e *AllExhaustedError) Error() string {
	return fmt.Sprintf("all providers exhausted for %q (tried: %s): %v",
		e.Query, strings.Join(e.Attempted, ", "), e.LastErr)
}

func (e *AllExhaustedError) Unwrap() error { return e.LastErr }
