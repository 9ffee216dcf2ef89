// Package app provides application initialization and dependency injection.
package app

import (
	"github.com/gin-gonic/gin"

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/http"
	"github.com/journiv/journiv-server/internal/middleware"
)

// InitializeApp creates and wires all application dependencies.
// This is the main orchestration function that initializes all components.
func InitializeApp(cfg config.Config) *gin.Engine {
	// Logger first, everything else logs through it
	InitializeLogger()

	dbComponents := InitializeDatabase(cfg.Database)

	services := InitializeServices(cfg, dbComponents)

	if dbComponents != nil && dbComponents.LoggingService != nil {
		middleware.InitAsyncLogger(dbComponents.LoggingService, middleware.DefaultAsyncLoggerConfig())
	}

	routerComponents := InitializeRouter(services, dbComponents, cfg)

	return http.NewRouter(routerComponents.HealthHandler, routerComponents.Config)
}
