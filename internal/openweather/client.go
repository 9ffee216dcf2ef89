// Package openweather provides the HTTP client for the OpenWeather current
// weather API. It standardizes upstream failures into typed errors so the
// weather service can map them without inspecting status codes itself.
package openweather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/journiv/journiv-server/internal/metrics"
)

// DefaultBaseURL is the OpenWeather current weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client calls the OpenWeather API.
// It issues at most one upstream request per invocation; retries are the
// caller's business.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates an OpenWeather client with a timeout-bounded HTTP client,
// so a slow provider cannot stall a request indefinitely.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CurrentWeather fetches the current weather for the given coordinates and
// returns the raw response body. Temperatures are requested in metric units.
//
// Error mapping:
//   - 401 → ErrInvalidAPIKey
//   - 429 → *RateLimitError
//   - other non-2xx → *UpstreamError carrying status and body
//   - network failure or timeout → *TransportError
func (c *Client) CurrentWeather(ctx context.Context, latitude, longitude float64) ([]byte, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamDuration(time.Since(start))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrInvalidAPIKey
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Body: string(body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
