package dto

import (
	"net/http"
	"time"

	"github.com/journiv/journiv-server/internal/domain/model"
)

const (
	// ErrCodeInvalidRequest indicates an invalid request.
	ErrCodeInvalidRequest = "invalid_request"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal = "internal_error"
	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized = "unauthorized"
	// ErrCodeForbidden indicates insufficient permissions.
	ErrCodeForbidden = "forbidden"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound = "not_found"
	// ErrCodeRateLimit indicates rate limit exceeded.
	ErrCodeRateLimit = "rate_limit_exceeded"
	// ErrCodeConflict indicates a conflict with current state.
	ErrCodeConflict = "conflict"
	// ErrCodeTimeout indicates a request timeout.
	ErrCodeTimeout = "timeout"
	// ErrCodeUpstream indicates an upstream provider failure.
	ErrCodeUpstream = "upstream_unavailable"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response data.
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"latitude: must be between -90 and 90"`
	// Details contains additional error details (optional).
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// WeatherFetchResponse represents a successful weather fetch.
//
// @Description Current weather for the requested coordinates
type WeatherFetchResponse struct {
	// Weather is the normalized weather reading.
	Weather *model.WeatherReading `json:"weather"`
	// Provider identifies the upstream weather provider.
	Provider string `json:"provider" example:"openweather"`
	// Timestamp is when the reading was produced.
	Timestamp time.Time `json:"timestamp"`
} // @name WeatherFetchResponse

// WeatherDisabledResponse is returned when the weather feature cannot serve
// requests, either because no API key is configured or the configured key
// was rejected by the provider.
//
// @Description Weather feature unavailable
type WeatherDisabledResponse struct {
	Enabled bool   `json:"enabled" example:"false"`
	Message string `json:"message" example:"weather is not configured"`
} // @name WeatherDisabledResponse

// UserListResponse represents a paginated list of users.
//
// @Description Paginated user list
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total" example:"42"`
	Limit int64          `json:"limit" example:"50"`
	Skip  int64          `json:"skip" example:"0"`
} // @name UserListResponse

// NewUserResponse converts a domain user to its API representation.
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeUpstream
	default:
		return ErrCodeInternal
	}
}
