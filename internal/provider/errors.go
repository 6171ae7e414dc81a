package provider

import (
	"errors"
	"fmt"
)

// Fetch failures fall into four classes. The resolver never propagates them
// to callers; it logs the class and moves to the next vendor.
var (
	// ErrNetwork covers unreachable hosts, timeouts, and non-2xx statuses
	// other than rate limiting.
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse covers undecodable or structurally unexpected
	// vendor payloads.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrValidation covers payloads that decoded fine but failed semantic
	// checks (non-positive price, empty history).
	ErrValidation = errors.New("validation error")

	// ErrRateLimited covers explicit vendor throttling (HTTP 429).
	ErrRateLimited = errors.New("rate limited")
)

// NetworkError wraps err as a network-class failure.
func NetworkError(err error) error {
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// MalformedError wraps a description as a malformed-response failure.
func MalformedError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// ValidationError wraps a description as a validation failure.
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RateLimitedError wraps a description as a throttling failure.
func RateLimitedError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrRateLimited, fmt.Sprintf(format, args...))
}

// Classify names the error class for logs and metrics labels.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
