package validator

import (
	"net/url"
	"strings"
)

// allowedSchemes lists permitted URL schemes.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// ValidateURL checks if a string is an acceptable URL to shorten.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL cannot be empty"}
	}

	if len(rawURL) > 2048 {
		return &ValidationError{Field: "url", Message: "URL too long (max 2048 characters)"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "Invalid URL structure"}
	}

	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return &ValidationError{Field: "url", Message: "Unsupported URL scheme"}
	}

	if parsed.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must contain a host"}
	}

	return nil
}

// NormalizeURL prepends a scheme when missing so bare hostnames are
// shortenable. Anything else is left untouched: the stored URL must
// round-trip byte for byte.
func NormalizeURL(rawURL string) string {
	if rawURL == "" {
		return rawURL
	}
	if !strings.Contains(rawURL, "://") {
		return "http://" + rawURL
	}
	return rawURL
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
