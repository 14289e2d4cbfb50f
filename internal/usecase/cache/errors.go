// Package cache provides the artifact cache use cases. It wraps a
// repository.CacheRepository with lookup/put/touch/evict operations,
// deterministic key hashing, and a degraded no-cache mode when the backend
// is unavailable.
package cache

import "fmt"

// BackendError indicates that the cache backend failed during an operation.
// The pipeline treats it as non-fatal: the in-memory artifact is still used,
// only the cache write or read is lost.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("cache backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
