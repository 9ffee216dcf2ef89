package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journiv/journiv-server/internal/domain/dto"
	"github.com/journiv/journiv-server/internal/domain/model"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("generates an ID when absent", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		var captured string
		router.GET("/", func(c *gin.Context) {
			captured = GetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
		assert.Equal(t, captured, w.Header().Get(RequestIDHeader))
	})

	t.Run("propagates a client supplied ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-id-123", w.Header().Get(RequestIDHeader))
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(claims *dto.Claims) *gin.Engine {
		router := gin.New()
		router.GET("/admin", func(c *gin.Context) {
			if claims != nil {
				c.Set("user_claims", claims)
			}
			c.Next()
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	get := func(router *gin.Engine) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		return w
	}

	t.Run("admin passes", func(t *testing.T) {
		w := get(newRouter(&dto.Claims{Role: model.RoleAdmin}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		w := get(newRouter(&dto.Claims{Role: model.RoleUser}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing claims is unauthorized", func(t *testing.T) {
		w := get(newRouter(nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestShardedRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rl *ShardedRateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(rl.RateLimit())
		router.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("allows up to the limit then rejects", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)
		defer rl.Stop()
		router := newRouter(rl)

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("sets rate limit headers", func(t *testing.T) {
		rl := NewRateLimiter(5, time.Minute)
		defer rl.Stop()
		router := newRouter(rl)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("window reset allows new requests", func(t *testing.T) {
		rl := NewRateLimiter(1, 10*time.Millisecond)
		defer rl.Stop()
		router := newRouter(rl)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		time.Sleep(20 * time.Millisecond)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("identifiers are limited independently", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		defer rl.Stop()

		allowed, _ := rl.checkRateLimit("ip:10.0.0.1")
		require.True(t, allowed)
		allowed, _ = rl.checkRateLimit("ip:10.0.0.1")
		require.False(t, allowed)

		allowed, _ = rl.checkRateLimit("ip:10.0.0.2")
		assert.True(t, allowed)
	})
}
