package openweather

import (
	"errors"
	"fmt"
)

// ErrInvalidAPIKey is returned on an upstream 401. It indicates a
// misconfigured credential and must not be retried.
var ErrInvalidAPIKey = errors.New(
	"invalid OpenWeather API key: verify WEATHER_API_KEY is correct, activated, and has no extra whitespace")

// RateLimitError is returned on an upstream 429. The caller may retry later;
// the client never retries internally.
type RateLimitError struct {
	Body string
}

func (e *RateLimitError) Error() string {
	return "OpenWeather rate limit exceeded"
}

// UpstreamError is returned for any other non-2xx upstream status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("OpenWeather request failed with status %d", e.StatusCode)
}

// TransportError wraps a network-level failure (timeout, connection error).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "OpenWeather request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
