// Package app provides router configuration.
package app

import (
	"context"
	"time"

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/http"
	"github.com/journiv/journiv-server/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	if dbComponents != nil {
		if dbComponents.CacheCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_cache", dbComponents.CacheCircuitBreaker)
		}
		if dbComponents.LogsCircuitBreaker != nil {
			healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
		}
		if dbComponents.DB != nil {
			db := dbComponents.DB
			healthHandler.RegisterChecker("mongodb", http.HealthCheckerFunc(func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				return db.HealthCheck(ctx)
			}))
		}
	}

	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		LoggingService:    loggingService,
		AuthService:       services.AuthService,
		WeatherService:    services.WeatherService,
		AdminService:      services.AdminService,
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
