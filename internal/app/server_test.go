package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journiv/journiv-server/config"
)

func TestNewServer_AppliesServerConfig(t *testing.T) {
	cfg := config.ServerConfig{
		Port:            "9191",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    6 * time.Second,
		IdleTimeout:     45 * time.Second,
		ShutdownTimeout: 3 * time.Second,
	}

	s := NewServer(http.NewServeMux(), cfg)

	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":9191", s.httpServer.Addr)
	assert.Equal(t, 5*time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 6*time.Second, s.httpServer.WriteTimeout)
	assert.Equal(t, 45*time.Second, s.httpServer.IdleTimeout)
	assert.Equal(t, 3*time.Second, s.cfg.ShutdownTimeout)
}

func TestServer_ShutdownWithoutStart(t *testing.T) {
	cfg := config.ServerConfig{Port: "0", ShutdownTimeout: time.Second}
	s := NewServer(http.NewServeMux(), cfg)

	// Shutting down a server that never started listening is a no-op.
	assert.NoError(t, s.Shutdown())
}
