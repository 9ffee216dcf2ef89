// Package app provides service initialization.
package app

import (
	"sync"

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/cache"
	"github.com/journiv/journiv-server/internal/service"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	AuthService    service.AuthService
	AdminService   service.AdminService
	WeatherService service.WeatherService
}

// InitializeServices initializes the business logic services.
//
// AuthService and AdminService share one mutex: registration and admin
// mutations both run check-then-act sequences over the users collection,
// and the admin invariants only hold when those sequences never interleave.
func InitializeServices(cfg config.Config, dbComponents *DatabaseComponents) *ServiceComponents {
	components := &ServiceComponents{}

	// Weather cache degrades to an in-process store when Mongo is unavailable
	var cacheStore cache.Store
	if dbComponents != nil && dbComponents.CacheStore != nil {
		cacheStore = dbComponents.CacheStore
	} else {
		cacheStore = cache.NewMemoryStore()
	}
	weatherCache := cache.New(service.WeatherNamespace, cacheStore)
	components.WeatherService = service.NewWeatherServiceFromConfig(cfg.Weather, weatherCache)

	if dbComponents == nil || dbComponents.UserRepo == nil {
		return components
	}

	var userMu sync.Mutex
	tokenService := service.NewTokenService(dbComponents.TokenRepo, service.NewTokenConfigFromAuthConfig(cfg.Auth))
	components.AuthService = service.NewAuthServiceWithTokenService(
		dbComponents.UserRepo,
		tokenService,
		cfg.Auth.SignupEnabled,
		&userMu,
	)
	components.AdminService = service.NewAdminService(dbComponents.UserRepo, tokenService, &userMu)

	return components
}
