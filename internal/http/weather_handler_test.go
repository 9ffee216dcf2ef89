package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
	"github.com/journiv/journiv-server/internal/openweather"
	"github.com/journiv/journiv-server/internal/service"
)

// stubWeatherService returns a fixed reading or error.
type stubWeatherService struct {
	reading *model.WeatherReading
	err     error
	enabled bool
}

func (s *stubWeatherService) IsEnabled() bool { return s.enabled }

func (s *stubWeatherService) Fetch(context.Context, float64, float64) (*model.WeatherReading, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.reading, nil
}

func newWeatherTestRouter(svc service.WeatherService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewWeatherHandler(svc)
	router.POST("/api/weather/fetch", handler.Fetch)
	return router
}

func postWeatherFetch(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/weather/fetch", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWeatherHandler_Fetch(t *testing.T) {
	t.Run("returns the reading on success", func(t *testing.T) {
		reading := &model.WeatherReading{TempC: 21.6, TempF: 70.9, Condition: "Clouds"}
		router := newWeatherTestRouter(&stubWeatherService{reading: reading, enabled: true})

		w := postWeatherFetch(t, router, `{"latitude": 52.52, "longitude": 13.405}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data dto.WeatherFetchResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Data.Weather)
		assert.Equal(t, 21.6, resp.Data.Weather.TempC)
		assert.Equal(t, "Clouds", resp.Data.Weather.Condition)
		assert.Equal(t, service.WeatherProvider, resp.Data.Provider)
	})

	t.Run("out of range coordinates return 400", func(t *testing.T) {
		router := newWeatherTestRouter(&stubWeatherService{enabled: true})

		tests := []struct {
			name string
			body string
		}{
			{"latitude too high", `{"latitude": 90.5, "longitude": 0}`},
			{"latitude too low", `{"latitude": -91, "longitude": 0}`},
			{"longitude too high", `{"latitude": 0, "longitude": 181}`},
			{"longitude too low", `{"latitude": 0, "longitude": -180.1}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := postWeatherFetch(t, router, tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)

				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
			})
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		router := newWeatherTestRouter(&stubWeatherService{enabled: true})
		w := postWeatherFetch(t, router, `{"latitude": "north"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("disabled feature returns 200 with enabled false", func(t *testing.T) {
		router := newWeatherTestRouter(&stubWeatherService{err: service.ErrWeatherDisabled})

		w := postWeatherFetch(t, router, `{"latitude": 52.52, "longitude": 13.405}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.WeatherDisabledResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Enabled)
		assert.Contains(t, resp.Message, "WEATHER_API_KEY")
	})

	t.Run("rejected API key returns disabled with credential guidance", func(t *testing.T) {
		router := newWeatherTestRouter(&stubWeatherService{err: openweather.ErrInvalidAPIKey})

		w := postWeatherFetch(t, router, `{"latitude": 52.52, "longitude": 13.405}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.WeatherDisabledResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Enabled)
		assert.Contains(t, resp.Message, "invalid OpenWeather API key")
		assert.Contains(t, resp.Message, "WEATHER_API_KEY")
	})

	t.Run("provider failures return 503", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
		}{
			{"rate limited", &openweather.RateLimitError{}},
			{"upstream 500", &openweather.UpstreamError{StatusCode: 500}},
			{"network failure", &openweather.TransportError{Err: context.DeadlineExceeded}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newWeatherTestRouter(&stubWeatherService{err: tt.err})
				w := postWeatherFetch(t, router, `{"latitude": 52.52, "longitude": 13.405}`)
				assert.Equal(t, http.StatusServiceUnavailable, w.Code)

				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeUpstream, resp.Error)
			})
		}
	})

	t.Run("unusable provider payload returns 500", func(t *testing.T) {
		router := newWeatherTestRouter(&stubWeatherService{err: service.ErrNoWeatherData})
		w := postWeatherFetch(t, router, `{"latitude": 52.52, "longitude": 13.405}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
