// Package pathutil provides URL path helpers for HTTP handlers: ID
// extraction and path normalization for metrics labels.
package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts a job ID from a URL path. It removes the given
// prefix and an optional trailing action segment such as /pause.
//
// Example:
//
//	id, err := ExtractID("/jobs/3f2a.../pause", "/jobs/")
//	// Returns: "3f2a...", nil
func ExtractID(path, prefix string) (string, error) {
	id := strings.TrimPrefix(path, prefix)
	if idx := strings.IndexByte(id, '/'); idx != -1 {
		id = id[:idx]
	}
	if id == "" || id == path {
		return "", ErrInvalidID
	}
	return id, nil
}
