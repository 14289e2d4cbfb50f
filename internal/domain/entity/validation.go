package entity

import (
	"net/url"
)

// maxURLLength caps accepted URL length to keep pathological configuration
// values out of the persistence layer.
const maxURLLength = 2048

// ValidateURL validates the format of a URL used for feed sources and
// provider endpoints. It checks that the URL is well-formed, uses an
// HTTP/HTTPS scheme, and has a host.
// Returns a ValidationError if the URL is invalid or empty.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{Field: "url", Message: "URL exceeds maximum length"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL is not parseable"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	return nil
}
