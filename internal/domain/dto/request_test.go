package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherFetchRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantField string
	}{
		{"valid coordinates", 52.52, 13.405, ""},
		{"zero coordinates", 0, 0, ""},
		{"latitude at upper bound", 90, 0, ""},
		{"latitude at lower bound", -90, 0, ""},
		{"longitude at upper bound", 0, 180, ""},
		{"longitude at lower bound", 0, -180, ""},
		{"latitude too high", 90.0001, 0, "latitude"},
		{"latitude too low", -90.0001, 0, "latitude"},
		{"longitude too high", 0, 180.0001, "longitude"},
		{"longitude too low", 0, -180.0001, "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := WeatherFetchRequest{Latitude: tt.latitude, Longitude: tt.longitude}
			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	valid := LoginRequest{Email: "user@example.com", Password: "password123"}
	assert.NoError(t, valid.Validate())

	noEmail := LoginRequest{Password: "password123"}
	assert.Error(t, noEmail.Validate())

	shortPassword := LoginRequest{Email: "user@example.com", Password: "short"}
	assert.Error(t, shortPassword.Validate())
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{Email: "user@example.com", Password: "password123", Name: "Jane"}
	assert.NoError(t, valid.Validate())

	shortPassword := RegisterRequest{Email: "user@example.com", Password: "1234567"}
	assert.Error(t, shortPassword.Validate())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "latitude", Message: "must be between -90 and 90"}
	assert.Equal(t, "latitude: must be between -90 and 90", err.Error())
}
