package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/middleware"
	"github.com/journiv/journiv-server/internal/service"
)

// AuthHandler provides HTTP handlers for authentication routes.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles POST /api/auth/login requests.
//
// @Summary      Login user
// @Description  Authenticates a user and returns a JWT token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Login credentials"
// @Success      200 {object} dto.LoginResponse "Successful login"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid credentials"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, err.Error(), err)
		return
	}

	tokenPair, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.auditError(c, "login_failed", "Failed login attempt", err, map[string]interface{}{
				"email": req.Email,
			})
			builder.Error(http.StatusUnauthorized, "invalid email or password", err)
		} else {
			builder.Error(http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	c.Set("user_id", user.ID)
	c.Set("user_email", user.Email)

	h.audit(c, "login", "User logged in successfully", map[string]interface{}{
		"email": user.Email,
	})

	builder.SuccessOK(dto.LoginResponse{
		Token:        tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         dto.NewUserResponse(user),
	})
}

// Register handles POST /api/auth/register requests.
//
// The first account ever created becomes the admin and may register even
// when signup is disabled.
//
// @Summary      Register new user
// @Description  Creates a new user account and returns a JWT token. The first account becomes the administrator.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "Registration information"
// @Success      201 {object} dto.LoginResponse "Successful registration"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - signup is disabled"
// @Failure      409 {object} dto.ErrorResponse "Conflict - user already exists"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		builder.Error(http.StatusBadRequest, err.Error(), err)
		return
	}

	tokenPair, user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			h.auditError(c, "register_failed", "Failed registration attempt - user already exists", err, map[string]interface{}{
				"email": req.Email,
			})
			builder.Error(http.StatusConflict, "user already exists", err)
		case errors.Is(err, service.ErrSignupDisabled):
			builder.Error(http.StatusForbidden, "signup is disabled", err)
		default:
			builder.Error(http.StatusInternalServerError, "registration failed", err)
		}
		return
	}

	c.Set("user_id", user.ID)
	c.Set("user_email", user.Email)

	h.audit(c, "register", "New user registered successfully", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	builder.SuccessCreated(dto.LoginResponse{
		Token:        tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         dto.NewUserResponse(user),
	})
}

// RefreshToken handles POST /api/auth/refresh requests.
//
// @Summary      Refresh access token
// @Description  Generates a new access token using a refresh token. Refresh token is extracted from X-Refresh-Token header.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        X-Refresh-Token header string true "Refresh token"
// @Success      200 {object} dto.LoginResponse "Successful token refresh"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing refresh token"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid refresh token"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	builder := NewResponseBuilder(c)

	refreshToken := c.GetHeader("X-Refresh-Token")
	if refreshToken == "" {
		builder.Error(http.StatusBadRequest, "X-Refresh-Token header is required", nil)
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrInvalidCredentials) {
			builder.Error(http.StatusUnauthorized, "invalid or expired token", err)
		} else {
			builder.Error(http.StatusInternalServerError, "token refresh failed", err)
		}
		return
	}

	builder.SuccessOK(dto.LoginResponse{
		Token:        tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	})
}

// Logout handles POST /api/auth/logout requests.
//
// @Summary      Logout user
// @Description  Invalidates access and refresh tokens. Access token is extracted from Authorization header, refresh token from X-Refresh-Token header.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Authorization header string true "Bearer token" default(Bearer )
// @Param        X-Refresh-Token header string false "Refresh token"
// @Success      200 {object} dto.SuccessResponse "Successful logout"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	builder := NewResponseBuilder(c)

	authHeader := c.GetHeader("Authorization")
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		builder.Error(http.StatusUnauthorized, "invalid authorization header", nil)
		return
	}
	accessToken := strings.TrimPrefix(authHeader, bearerPrefix)
	refreshToken := c.GetHeader("X-Refresh-Token")

	if err := h.authService.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		builder.Error(http.StatusInternalServerError, "logout failed", err)
		return
	}

	h.audit(c, "logout", "User logged out", nil)

	builder.SuccessOK(gin.H{"message": "logged out"})
}

func (h *AuthHandler) audit(c *gin.Context, actionType, message string, fields map[string]interface{}) {
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, actionType, message, fields)
		}
	}
}

func (h *AuthHandler) auditError(c *gin.Context, actionType, message string, err error, fields map[string]interface{}) {
	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLogError(ls, c, actionType, message, err, fields)
		}
	}
}
