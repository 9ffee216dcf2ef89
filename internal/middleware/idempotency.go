package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/internal/cache"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute

	idempotencyCacheType = "response"
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   *cache.ScopedCache
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns default idempotency configuration backed
// by an in-process store.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:   cache.New("idempotency", cache.NewMemoryStore()),
		TTL:     IdempotencyKeyTTL,
		Enabled: true,
	}
}

// Idempotency returns a middleware that handles idempotency using the
// Idempotency-Key header. If a request with the same idempotency key was
// processed recently, the cached response is replayed.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		// Only apply idempotency to POST, PUT, PATCH methods
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopeID := requestFingerprint(key, c.Request)

		if lookup := cfg.Cache.Get(c.Request.Context(), scopeID, idempotencyCacheType); lookup.Found() {
			status := http.StatusOK
			if s, ok := lookup.Value["status"].(float64); ok {
				status = int(s)
			} else if s, ok := lookup.Value["status"].(int); ok {
				status = s
			}
			body, _ := lookup.Value["body"].(string)
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(status, "application/json", []byte(body))
			c.Abort()
			return
		}

		writer := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		c.Writer = writer

		c.Next()

		// Only successful responses are replayable
		if writer.statusCode >= 200 && writer.statusCode < 300 {
			cfg.Cache.Set(c.Request.Context(), scopeID, idempotencyCacheType, map[string]interface{}{
				"status": writer.statusCode,
				"body":   writer.body.String(),
			}, cfg.TTL)
		}
	}
}

// requestFingerprint derives a cache scope from the idempotency key plus the
// request method, path and body.
func requestFingerprint(idempotencyKey string, req *http.Request) string {
	hasher := sha256.New()
	hasher.Write([]byte(idempotencyKey))
	hasher.Write([]byte(req.Method))
	hasher.Write([]byte(req.URL.Path))

	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		if len(bodyBytes) > 0 {
			hasher.Write(bodyBytes)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// captureWriter duplicates the response body so it can be cached.
type captureWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (w *captureWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
