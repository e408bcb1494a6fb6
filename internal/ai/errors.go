package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when a
	// provider other than the default has no API key available.
	ErrMissingCredential = errors.New("missing provider api key")

	// ErrUnknownProvider is returned when no registered backend matches
	// the requested provider name.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnknownModel is returned when the requested model is not in the
	// provider's advertised catalog.
	ErrUnknownModel = errors.New("model not offered by provider")
)

// APIError is a non-2xx response from a provider endpoint.
type APIError struct {
	Provider   ProviderName
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// MalformedResponseError is a 2xx response whose payload cannot be reduced
// to text (missing or empty choices, unexpected content shape).
type MalformedResponseError struct {
	Provider ProviderName
	Reason   string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: malformed response: %s: %v", e.Provider, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: malformed response: %s", e.Provider, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}
