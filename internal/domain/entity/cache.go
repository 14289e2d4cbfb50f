// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as CacheEntry and Job, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// ArtifactKind identifies the class of cached artifact.
// Each kind has its own deterministic key derivation (see pkg hashutil)
// and its own metadata shape.
type ArtifactKind string

const (
	// ArtifactKindMedia is a downloaded image or video clip, keyed by
	// normalized search query plus source provider.
	ArtifactKindMedia ArtifactKind = "media"

	// ArtifactKindTranscript is a narration transcript, keyed by the
	// content hash of the narration audio plus transcription model.
	ArtifactKindTranscript ArtifactKind = "transcript"

	// ArtifactKindScript is generated narration script text, keyed by the
	// hash of the input article set.
	ArtifactKindScript ArtifactKind = "script"
)

// IsValid reports whether the artifact kind is one of the known kinds.
func (k ArtifactKind) IsValid() bool {
	switch k {
	case ArtifactKindMedia, ArtifactKindTranscript, ArtifactKindScript:
		return true
	}
	return false
}

// CacheMetadata holds kind-specific attributes of a cached artifact.
// Only the fields relevant to the entry's kind are populated.
type CacheMetadata struct {
	MediaType    string  `json:"media_type,omitempty"` // image or video
	Resolution   string  `json:"resolution,omitempty"`
	QualityScore int     `json:"quality_score,omitempty"`
	FileSize     int64   `json:"file_size,omitempty"`
	WordCount    int     `json:"word_count,omitempty"`
	DurationSec  float64 `json:"duration_sec,omitempty"`
	Model        string  `json:"model,omitempty"`
	Provider     string  `json:"provider,omitempty"`
}

// CacheEntry represents a content-addressed cached artifact.
// The key is a deterministic hash of the semantically relevant inputs, so
// identical work always resolves to the same entry. The payload itself is
// never stored inline; PayloadRef points at the stored bytes (local path
// or blob reference).
//
// Entries are immutable once written: a repeated put for an existing key
// only refreshes usage statistics. Entries past ExpiresAt are invisible to
// lookups but remain in the store until an eviction pass removes them.
type CacheEntry struct {
	ID         int64
	Kind       ArtifactKind
	Key        string
	PayloadRef string
	Metadata   CacheMetadata
	CreatedAt  time.Time
	LastUsedAt time.Time
	UseCount   int64
	ExpiresAt  time.Time
}

// Expired reports whether the entry is past its expiry at the given time.
func (e *CacheEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Validate validates the CacheEntry fields required for persistence.
func (e *CacheEntry) Validate() error {
	if !e.Kind.IsValid() {
		return &ValidationError{Field: "kind", Message: "unknown artifact kind"}
	}
	if e.Key == "" {
		return &ValidationError{Field: "key", Message: "key is required"}
	}
	if e.PayloadRef == "" {
		return &ValidationError{Field: "payload_ref", Message: "payload reference is required"}
	}
	return nil
}
