// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

// WeatherFetchRequest represents the JSON request body for the weather fetch endpoint.
//
// Latitude and Longitude are required and must fall within valid
// geographic ranges. Validation is performed using gin's binding tags.
//
// @Description Request to fetch current weather for a coordinate pair
// @Example {"latitude": 52.52, "longitude": 13.405}
type WeatherFetchRequest struct {
	// Latitude in decimal degrees, between -90 and 90.
	Latitude float64 `json:"latitude" binding:"min=-90,max=90" example:"52.52" minimum:"-90" maximum:"90"`
	// Longitude in decimal degrees, between -180 and 180.
	Longitude float64 `json:"longitude" binding:"min=-180,max=180" example:"13.405" minimum:"-180" maximum:"180"`
} // @name WeatherFetchRequest

// CreateUserRequest represents the JSON request body for the admin create-user endpoint.
//
// @Description Request to create a new user account
type CreateUserRequest struct {
	// Email is the new user's email address.
	Email string `json:"email" binding:"required,email" example:"new@example.com"`
	// Password is the new user's password (minimum 8 characters).
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	// Name is the new user's display name (optional).
	Name string `json:"name,omitempty" example:"New User"`
	// Role is the new user's role. Defaults to "user" when omitted.
	Role string `json:"role,omitempty" binding:"omitempty,oneof=admin user" example:"user"`
} // @name CreateUserRequest

// UpdateUserRequest represents the JSON request body for the admin update-user endpoint.
//
// All fields are optional pointers so that absent fields leave the
// stored value unchanged.
//
// @Description Request to update an existing user account
type UpdateUserRequest struct {
	// Name replaces the user's display name when present.
	Name *string `json:"name,omitempty" example:"Renamed User"`
	// Role replaces the user's role when present.
	Role *string `json:"role,omitempty" binding:"omitempty,oneof=admin user" example:"admin"`
	// Active enables or disables the account when present.
	Active *bool `json:"active,omitempty" example:"true"`
	// Password replaces the user's password when present.
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
} // @name UpdateUserRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate performs custom validation on the weather fetch request.
// Returns an error if validation fails, nil otherwise.
func (r *WeatherFetchRequest) Validate() error {
	if r.Latitude < -90 || r.Latitude > 90 {
		return &ValidationError{
			Field:   "latitude",
			Message: "must be between -90 and 90",
		}
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return &ValidationError{
			Field:   "longitude",
			Message: "must be between -180 and 180",
		}
	}
	return nil
}
