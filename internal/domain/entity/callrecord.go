package entity

import "time"

// ProviderCallRecord is the append-only record of a single external
// provider call. Records are never mutated after creation; they feed the
// sliding-window health scoring in the resilience layer.
type ProviderCallRecord struct {
	ID               int64
	Provider         string
	RequestSignature string
	Succeeded        bool
	Latency          time.Duration
	ErrorDetail      string
	Timestamp        time.Time
}

// Validate validates the ProviderCallRecord fields required for persistence.
func (r *ProviderCallRecord) Validate() error {
	if r.Provider == "" {
		return &ValidationError{Field: "provider", Message: "provider is required"}
	}
	if r.Latency < 0 {
		return &ValidationError{Field: "latency", Message: "latency must not be negative"}
	}
	return nil
}
