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
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
	"github.com/journiv/journiv-server/internal/service"
)

// stubAuthService returns canned results for handler tests.
type stubAuthService struct {
	pair *dto.TokenPair
	user *model.User
	err  error
}

func (s *stubAuthService) Login(context.Context, string, string) (*dto.TokenPair, *model.User, error) {
	return s.pair, s.user, s.err
}

func (s *stubAuthService) Register(context.Context, string, string, string) (*dto.TokenPair, *model.User, error) {
	return s.pair, s.user, s.err
}

func (s *stubAuthService) RefreshToken(context.Context, string) (*dto.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubAuthService) ValidateToken(context.Context, string) (*dto.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.Claims{UserID: s.user.ID, Email: s.user.Email, Role: s.user.Role}, nil
}

func (s *stubAuthService) InvalidateToken(context.Context, string) error { return s.err }

func (s *stubAuthService) InvalidateUserTokens(context.Context, primitive.ObjectID) error {
	return s.err
}

func (s *stubAuthService) Logout(context.Context, string, string) error { return s.err }

func newAuthTestRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAuthHandler(svc)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/refresh", handler.RefreshToken)
	router.POST("/api/auth/logout", handler.Logout)
	return router
}

func authRequest(t *testing.T, router *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func stubTokenPair() *dto.TokenPair {
	return &dto.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", ExpiresIn: 900}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials return tokens and user", func(t *testing.T) {
		user := testUser(model.RoleUser)
		router := newAuthTestRouter(&stubAuthService{pair: stubTokenPair(), user: user})
		w := authRequest(t, router, "/api/auth/login",
			`{"email": "user@example.com", "password": "password123"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data dto.LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "access-token", resp.Data.Token)
		assert.Equal(t, "refresh-token", resp.Data.RefreshToken)
		assert.Equal(t, user.Email, resp.Data.User.Email)
	})

	t.Run("invalid credentials return 401", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{err: service.ErrInvalidCredentials})
		w := authRequest(t, router, "/api/auth/login",
			`{"email": "user@example.com", "password": "wrong-password"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{})
		w := authRequest(t, router, "/api/auth/login", `{"email": 42}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing password returns 400", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{})
		w := authRequest(t, router, "/api/auth/login", `{"email": "user@example.com"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("successful registration returns 201", func(t *testing.T) {
		user := testUser(model.RoleAdmin)
		router := newAuthTestRouter(&stubAuthService{pair: stubTokenPair(), user: user})
		w := authRequest(t, router, "/api/auth/register",
			`{"email": "founder@example.com", "password": "password123", "name": "Founder"}`, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data dto.LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.RoleAdmin, resp.Data.User.Role)
	})

	t.Run("duplicate user returns 409", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{err: service.ErrUserExists})
		w := authRequest(t, router, "/api/auth/register",
			`{"email": "dup@example.com", "password": "password123"}`, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("disabled signup returns 403", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{err: service.ErrSignupDisabled})
		w := authRequest(t, router, "/api/auth/register",
			`{"email": "late@example.com", "password": "password123"}`, nil)
		require.Equal(t, http.StatusForbidden, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error)
	})

	t.Run("short password returns 400", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{})
		w := authRequest(t, router, "/api/auth/register",
			`{"email": "user@example.com", "password": "short"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Run("valid header rotates tokens", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{pair: stubTokenPair()})
		w := authRequest(t, router, "/api/auth/refresh", "",
			map[string]string{"X-Refresh-Token": "refresh-token"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data dto.LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "access-token", resp.Data.Token)
	})

	t.Run("missing header returns 400", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{pair: stubTokenPair()})
		w := authRequest(t, router, "/api/auth/refresh", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{err: service.ErrInvalidToken})
		w := authRequest(t, router, "/api/auth/refresh", "",
			map[string]string{"X-Refresh-Token": "expired"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("logs out with bearer token", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{})
		w := authRequest(t, router, "/api/auth/logout", "",
			map[string]string{"Authorization": "Bearer access-token"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing bearer prefix returns 401", func(t *testing.T) {
		router := newAuthTestRouter(&stubAuthService{})
		w := authRequest(t, router, "/api/auth/logout", "",
			map[string]string{"Authorization": "access-token"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
