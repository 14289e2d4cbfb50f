// Package hashutil derives the deterministic cache keys used by the
// artifact cache. Identical inputs always produce identical keys, so
// repeated work resolves to the same cache entry.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Content returns the hex-encoded SHA-256 digest of the given text.
func Content(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// File returns the hex-encoded SHA-256 digest of a file's contents,
// streaming so large media files do not load into memory.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("File: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("File: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NormalizeQuery lowercases a search query and collapses runs of
// whitespace, so cosmetic variations of the same query share a key.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// MediaKey derives the cache key for a fetched media artifact from the
// normalized search query, the provider that served it, and the media
// type.
func MediaKey(query, provider, mediaType string) string {
	return Content(NormalizeQuery(query) + "|" + provider + "|" + mediaType)
}

// TranscriptKey derives the cache key for a transcription from the audio
// content hash and the model that produced it.
func TranscriptKey(audioHash, model string) string {
	return Content(audioHash + "|" + model)
}

// ScriptKey derives the cache key for a generated script from the set of
// input article URLs. The set is sorted first, so article order does not
// change the key.
func ScriptKey(articleURLs []string) string {
	urls := make([]string, len(articleURLs))
	copy(urls, articleURLs)
	sort.Strings(urls)
	return Content(strings.Join(urls, "\n"))
}
