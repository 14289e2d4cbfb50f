// Package job provides the job ledger use cases. A job tracks one
// assembly run: status, progress, step, an append-only error log, and
// counters for pollers. Ledger writes are best effort; a broken store
// never stops a running job.
package job

import "errors"

// Sentinel errors for job ledger operations.
var (
	// ErrJobNotFound indicates that the requested job does not exist.
	ErrJobNotFound = errors.New("job not found")
)
