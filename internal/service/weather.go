// Package service contains the business logic for the Journiv backend.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/cache"
	"github.com/journiv/journiv-server/internal/domain/model"
	"github.com/journiv/journiv-server/internal/metrics"
	"github.com/journiv/journiv-server/internal/openweather"
)

const (
	// WeatherNamespace is the scoped cache namespace owned by the weather service.
	WeatherNamespace = "weather"
	// WeatherCacheType namespaces weather readings within a scope.
	WeatherCacheType = "weather"
	// WeatherProvider names the upstream provider in responses.
	WeatherProvider = "openweather"
)

var (
	// ErrWeatherDisabled is returned when no API key is configured.
	ErrWeatherDisabled = errors.New(
		"weather service is not configured: set WEATHER_API_KEY in environment variables")
	// ErrNoWeatherData is returned when the upstream payload could not be
	// turned into a reading (missing temperature). Nothing is cached.
	ErrNoWeatherData = errors.New("no weather data available")
)

// InvalidCoordinateError is returned when a latitude or longitude is out of range.
type InvalidCoordinateError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid %s: %v (must be %v to %v)", e.Field, e.Value, e.Min, e.Max)
}

// WeatherUpstream abstracts the OpenWeather client for the weather service.
type WeatherUpstream interface {
	CurrentWeather(ctx context.Context, latitude, longitude float64) ([]byte, error)
}

// WeatherService fetches weather readings for coordinates, consulting the
// scoped cache before calling the upstream provider.
type WeatherService interface {
	IsEnabled() bool
	Fetch(ctx context.Context, latitude, longitude float64) (*model.WeatherReading, error)
}

// WeatherServiceImpl implements WeatherService.
type WeatherServiceImpl struct {
	apiKey    string
	upstream  WeatherUpstream
	cache     *cache.ScopedCache
	cacheTTL  time.Duration
	precision int
}

// NewWeatherService creates a weather service over the given upstream and
// scoped cache. The cache must be bound to the weather namespace.
func NewWeatherService(cfg config.WeatherConfig, upstream WeatherUpstream, scoped *cache.ScopedCache) *WeatherServiceImpl {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	precision := cfg.CoordinatePrecision
	if precision < 0 {
		precision = 2
	}
	return &WeatherServiceImpl{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		upstream:  upstream,
		cache:     scoped,
		cacheTTL:  ttl,
		precision: precision,
	}
}

// NewWeatherServiceFromConfig wires a weather service with its own
// OpenWeather client, for use at application startup.
func NewWeatherServiceFromConfig(cfg config.WeatherConfig, scoped *cache.ScopedCache) *WeatherServiceImpl {
	client := openweather.NewClient(openweather.Config{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
	})
	return NewWeatherService(cfg, client, scoped)
}

// IsEnabled reports whether an API key is configured.
func (s *WeatherServiceImpl) IsEnabled() bool {
	return s.apiKey != ""
}

// Fetch returns the current weather for the given coordinates.
//
// Coordinates are validated before anything else. Cache hits short-circuit
// the upstream call; successful fetches are written back with the configured
// TTL. Upstream failures surface as the typed errors of the openweather
// package; a payload without a temperature yields ErrNoWeatherData and is
// never cached.
func (s *WeatherServiceImpl) Fetch(ctx context.Context, latitude, longitude float64) (*model.WeatherReading, error) {
	if latitude < -90 || latitude > 90 {
		metrics.RecordWeatherFetch("invalid_coordinates")
		return nil, &InvalidCoordinateError{Field: "latitude", Value: latitude, Min: -90, Max: 90}
	}
	if longitude < -180 || longitude > 180 {
		metrics.RecordWeatherFetch("invalid_coordinates")
		return nil, &InvalidCoordinateError{Field: "longitude", Value: longitude, Min: -180, Max: 180}
	}

	if !s.IsEnabled() {
		metrics.RecordWeatherFetch("disabled")
		return nil, ErrWeatherDisabled
	}

	scopeID := s.cacheKey(latitude, longitude)

	if reading := s.fromCache(ctx, scopeID); reading != nil {
		log.Debug().Str("scope_id", scopeID).Msg("Weather cache hit")
		metrics.RecordWeatherFetch("hit")
		return reading, nil
	}

	body, err := s.upstream.CurrentWeather(ctx, latitude, longitude)
	if err != nil {
		metrics.RecordWeatherFetch("upstream_error")
		return nil, err
	}

	reading := parseCurrentWeather(body)
	if reading == nil {
		metrics.RecordWeatherFetch("parse_failure")
		return nil, ErrNoWeatherData
	}

	s.toCache(ctx, scopeID, reading)
	metrics.RecordWeatherFetch("fetched")
	log.Info().Str("scope_id", scopeID).Msg("Weather fetched from upstream")
	return reading, nil
}

// cacheKey builds the scope ID for a coordinate pair. Coordinates are rounded
// to the configured precision so nearby requests collapse to one cache entry.
func (s *WeatherServiceImpl) cacheKey(latitude, longitude float64) string {
	lat := strconv.FormatFloat(roundTo(latitude, s.precision), 'f', -1, 64)
	lon := strconv.FormatFloat(roundTo(longitude, s.precision), 'f', -1, 64)
	return lat + "," + lon
}

func roundTo(v float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(v*shift) / shift
}

// fromCache decodes a cached reading, or returns nil on miss/failure.
// Decode problems count as a miss; the cache must never break the fetch path.
func (s *WeatherServiceImpl) fromCache(ctx context.Context, scopeID string) *model.WeatherReading {
	lookup := s.cache.Get(ctx, scopeID, WeatherCacheType)
	if !lookup.Found() {
		return nil
	}

	result, ok := lookup.Value["result"]
	if !ok {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		log.Warn().Err(err).Str("scope_id", scopeID).Msg("Failed to decode cached weather reading")
		return nil
	}
	var reading model.WeatherReading
	if err := json.Unmarshal(raw, &reading); err != nil {
		log.Warn().Err(err).Str("scope_id", scopeID).Msg("Failed to decode cached weather reading")
		return nil
	}
	return &reading
}

// toCache serializes the reading and writes it back with the configured TTL.
func (s *WeatherServiceImpl) toCache(ctx context.Context, scopeID string, reading *model.WeatherReading) {
	raw, err := json.Marshal(reading)
	if err != nil {
		log.Warn().Err(err).Str("scope_id", scopeID).Msg("Failed to serialize weather reading for cache")
		return
	}
	var serialized map[string]interface{}
	if err := json.Unmarshal(raw, &serialized); err != nil {
		log.Warn().Err(err).Str("scope_id", scopeID).Msg("Failed to serialize weather reading for cache")
		return
	}

	s.cache.Set(ctx, scopeID, WeatherCacheType, map[string]interface{}{"result": serialized}, s.cacheTTL)
}

// parseCurrentWeather normalizes an OpenWeather payload into a reading.
// A missing temperature invalidates the whole payload; every other field is
// independently optional and absent fields degrade silently.
func parseCurrentWeather(body []byte) *model.WeatherReading {
	temp := gjson.GetBytes(body, "main.temp")
	if !temp.Exists() {
		log.Warn().Msg("Temperature not found in OpenWeather response")
		return nil
	}

	tempC := model.Round1(temp.Float())
	reading := &model.WeatherReading{
		TempC:     tempC,
		TempF:     model.CelsiusToFahrenheit(tempC),
		Condition: "Unknown",
	}

	if v := gjson.GetBytes(body, "weather.0.main"); v.Exists() {
		reading.Condition = v.String()
	}
	if v := gjson.GetBytes(body, "weather.0.description"); v.Exists() {
		desc := v.String()
		reading.Description = &desc
	}
	if v := gjson.GetBytes(body, "weather.0.icon"); v.Exists() {
		icon := v.String()
		reading.Icon = &icon
	}
	if v := gjson.GetBytes(body, "main.humidity"); v.Exists() {
		humidity := int(v.Int())
		reading.Humidity = &humidity
	}
	if v := gjson.GetBytes(body, "main.pressure"); v.Exists() {
		pressure := int(v.Int())
		reading.Pressure = &pressure
	}
	if v := gjson.GetBytes(body, "wind.speed"); v.Exists() {
		speed := v.Float()
		reading.WindSpeed = &speed
	}
	if v := gjson.GetBytes(body, "visibility"); v.Exists() {
		visibility := int(v.Int())
		reading.Visibility = &visibility
	}

	return reading
}
