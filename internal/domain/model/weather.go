package model

import "math"

// WeatherReading is a normalized weather observation for a coordinate pair.
//
// TempF is always derived from TempC; it is never taken from the upstream
// payload. Optional fields are pointers so that "not reported" survives a
// round trip through the cache.
type WeatherReading struct {
	TempC       float64  `json:"temp_c" bson:"temp_c"`
	TempF       float64  `json:"temp_f" bson:"temp_f"`
	Condition   string   `json:"condition" bson:"condition"`
	Description *string  `json:"description,omitempty" bson:"description,omitempty"`
	Humidity    *int     `json:"humidity,omitempty" bson:"humidity,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty" bson:"wind_speed,omitempty"`
	Pressure    *int     `json:"pressure,omitempty" bson:"pressure,omitempty"`
	Visibility  *int     `json:"visibility,omitempty" bson:"visibility,omitempty"`
	Icon        *string  `json:"icon,omitempty" bson:"icon,omitempty"`
}

// CelsiusToFahrenheit converts a Celsius temperature to Fahrenheit,
// rounded to one decimal place.
func CelsiusToFahrenheit(c float64) float64 {
	return Round1(c*9/5 + 32)
}

// Round1 rounds a value to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
