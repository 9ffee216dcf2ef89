package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/middleware"
	"github.com/journiv/journiv-server/internal/openweather"
	"github.com/journiv/journiv-server/internal/service"
)

// WeatherHandler provides HTTP handlers for weather routes.
type WeatherHandler struct {
	weatherService service.WeatherService
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

// Fetch handles POST /api/weather/fetch requests.
//
// A disabled weather feature is not an error from the client's point of
// view: both a missing API key and a key rejected by the provider produce
// a 200 response with enabled=false, so journal entry creation never
// fails because of weather.
//
// @Summary      Fetch current weather
// @Description  Fetches current weather for a coordinate pair, served from cache when a recent reading for the same rounded coordinates exists.
// @Tags         Weather
// @Accept       json
// @Produce      json
// @Param        request body dto.WeatherFetchRequest true "Coordinates"
// @Success      200 {object} dto.WeatherFetchResponse "Current weather, or a disabled payload when the feature is unavailable"
// @Failure      400 {object} dto.ErrorResponse "Bad request - coordinates out of range"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error - provider payload unusable"
// @Failure      503 {object} dto.ErrorResponse "Provider unavailable"
// @Router       /api/weather/fetch [post]
// @Security     BearerAuth
func (h *WeatherHandler) Fetch(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.WeatherFetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, err.Error(), err)
		return
	}

	reading, err := h.weatherService.Fetch(c.Request.Context(), req.Latitude, req.Longitude)
	if err != nil {
		h.writeFetchError(c, builder, err)
		return
	}

	h.auditFetch(c, req)

	builder.SuccessOK(dto.WeatherFetchResponse{
		Weather:   reading,
		Provider:  service.WeatherProvider,
		Timestamp: time.Now().UTC(),
	})
}

// writeFetchError maps weather service errors to HTTP responses.
func (h *WeatherHandler) writeFetchError(c *gin.Context, builder *ResponseBuilder, err error) {
	var coordErr *service.InvalidCoordinateError
	var rateErr *openweather.RateLimitError
	var upstreamErr *openweather.UpstreamError
	var transportErr *openweather.TransportError

	switch {
	case errors.As(err, &coordErr):
		builder.Error(http.StatusBadRequest, coordErr.Error(), err)

	case errors.Is(err, openweather.ErrInvalidAPIKey):
		// Feature unavailable, not a request failure. The message carries
		// the credential guidance an operator needs to fix the key.
		c.JSON(http.StatusOK, dto.WeatherDisabledResponse{
			Enabled: false,
			Message: openweather.ErrInvalidAPIKey.Error(),
		})

	case errors.Is(err, service.ErrWeatherDisabled):
		c.JSON(http.StatusOK, dto.WeatherDisabledResponse{
			Enabled: false,
			Message: service.ErrWeatherDisabled.Error(),
		})

	case errors.As(err, &rateErr),
		errors.As(err, &upstreamErr),
		errors.As(err, &transportErr):
		builder.Error(http.StatusServiceUnavailable, "weather provider unavailable", err)

	case errors.Is(err, service.ErrNoWeatherData):
		builder.Error(http.StatusInternalServerError, "no weather data available", err)

	default:
		builder.Error(http.StatusInternalServerError, "failed to fetch weather", err)
	}
}

func (h *WeatherHandler) auditFetch(c *gin.Context, req dto.WeatherFetchRequest) {
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "weather_fetch", "Weather fetched", map[string]interface{}{
				"latitude":  req.Latitude,
				"longitude": req.Longitude,
			})
		}
	}
}
