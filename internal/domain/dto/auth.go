// Package dto defines Data Transfer Objects for authentication.
package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRequest represents the JSON request body for the login endpoint.
//
// @Description Request to authenticate a user
// @Example {"email": "user@example.com", "password": "password123"}
type LoginRequest struct {
	// Email is the user's email address.
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
	// Password is the user's password.
	Password string `json:"password" binding:"required,min=8" example:"password123"`
} // @name LoginRequest

// RegisterRequest represents the JSON request body for the register endpoint.
//
// @Description Request to register a new user account
// @Example {"email": "user@example.com", "password": "password123", "name": "Jane Doe"}
type RegisterRequest struct {
	// Email is the user's email address.
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
	// Password is the user's password (minimum 8 characters).
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	// Name is the user's display name (optional).
	Name string `json:"name,omitempty" example:"Jane Doe"`
} // @name RegisterRequest

// LoginResponse represents the JSON response body for the login and register endpoints.
//
// @Description Successful authentication response with JWT tokens
type LoginResponse struct {
	// Token is the JWT access token.
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// RefreshToken is the JWT refresh token.
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// User contains the authenticated user information.
	User UserResponse `json:"user"`
} // @name LoginResponse

// TokenPair represents an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// Claims represents the application-level JWT claims.
type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
	Role   string             `json:"role"`
}

// UserResponse represents user information in API responses.
type UserResponse struct {
	// ID is the user's unique identifier.
	ID string `json:"id" example:"665f1c2ab7e2d80001a3c9f1"`
	// Email is the user's email address.
	Email string `json:"email" example:"user@example.com"`
	// Name is the user's display name.
	Name string `json:"name,omitempty" example:"Jane Doe"`
	// Role is the user's role, either "admin" or "user".
	Role string `json:"role" example:"user"`
	// Active reports whether the account is enabled.
	Active bool `json:"active" example:"true"`
	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
} // @name UserResponse

// Validate performs custom validation on the login request.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return &ValidationError{
			Field:   "email",
			Message: "email is required",
		}
	}
	if len(r.Password) < 8 {
		return &ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		}
	}
	return nil
}

// Validate performs custom validation on the register request.
func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return &ValidationError{
			Field:   "email",
			Message: "email is required",
		}
	}
	if len(r.Password) < 8 {
		return &ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		}
	}
	return nil
}
