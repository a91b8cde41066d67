package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoAPIKey is returned when the selected model has no API key configured
	ErrNoAPIKey = errors.New("API key not configured. Use 'deepchat config set' or set DEEPCHAT_API_KEY")

	// ErrAuth is returned when the server rejects the API key (HTTP 401/403)
	ErrAuth = errors.New("authentication failed: check your API key")

	// ErrRateLimited is returned when the server throttles the request (HTTP 429)
	ErrRateLimited = errors.New("rate limited by the API")

	// ErrDecode is returned when a response body does not match the expected shape
	ErrDecode = errors.New("unexpected response from the API")

	// ErrStreamInterrupted is returned when the connection drops mid-stream
	ErrStreamInterrupted = errors.New("stream interrupted")
)

// APIError carries a non-2xx HTTP status and the server-provided message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies auth and rate-limit statuses so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}
