// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/cache"
	"github.com/journiv/journiv-server/internal/circuitbreaker"
	"github.com/journiv/journiv-server/internal/repository"
	"github.com/journiv/journiv-server/internal/service"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                  *repository.MongoDB
	UserRepo            repository.UserRepositoryInterface
	TokenRepo           repository.TokenRepositoryInterface
	LoggingService      service.LoggingService
	CacheStore          cache.Store
	CacheCircuitBreaker *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker  *circuitbreaker.CircuitBreaker
}

// InitializeDatabase initializes the MongoDB connection and creates the
// repositories built on it. Returns nil if the database is disabled or the
// connection fails; callers then fall back to in-process stores where one
// exists.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	cacheCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-cache",
	})

	logsCB := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             "mongodb-logs",
	})

	logsRepo := repository.NewLogsRepository(db)
	logsRepoWithCB := repository.NewLogsRepositoryWithCircuitBreaker(logsRepo, logsCB)
	loggingService := service.NewLoggingService(logsRepoWithCB)

	cacheRepo := repository.NewCacheRepository(db.Database)
	cacheStore := repository.NewCacheRepositoryWithCircuitBreaker(cacheRepo, cacheCB)

	userRepo := repository.NewUserRepository(db.Database)
	tokenRepo := repository.NewTokenRepository(db.Database)

	return &DatabaseComponents{
		DB:                  db,
		UserRepo:            userRepo,
		TokenRepo:           tokenRepo,
		LoggingService:      loggingService,
		CacheStore:          cacheStore,
		CacheCircuitBreaker: cacheCB,
		LogsCircuitBreaker:  logsCB,
	}
}
