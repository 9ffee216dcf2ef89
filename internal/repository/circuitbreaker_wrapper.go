// Package repository provides circuit breaker wrappers for MongoDB-backed stores.
package repository

import (
	"context"

	"github.com/journiv/journiv-server/internal/cache"
	"github.com/journiv/journiv-server/internal/circuitbreaker"
	"github.com/journiv/journiv-server/internal/domain/model"
)

// CacheRepositoryWithCircuitBreaker wraps CacheRepository with circuit
// breaker protection. When the circuit is open a lookup reports a plain miss
// and a write becomes a no-op, matching the cache's degrade-silently
// contract without hammering a broken database.
type CacheRepositoryWithCircuitBreaker struct {
	repo           *CacheRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCacheRepositoryWithCircuitBreaker creates a new cache store wrapper with circuit breaker.
func NewCacheRepositoryWithCircuitBreaker(repo *CacheRepository, cb *circuitbreaker.CircuitBreaker) *CacheRepositoryWithCircuitBreaker {
	return &CacheRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Get returns the stored entry with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) Get(ctx context.Context, namespace, scopeID, cacheType string) (*cache.Entry, error) {
	var result *cache.Entry
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Get(ctx, namespace, scopeID, cacheType)
		return cbErr
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - treat as a cache miss
		return nil, nil
	}
	return result, err
}

// Put stores the entry with circuit breaker protection.
func (r *CacheRepositoryWithCircuitBreaker) Put(ctx context.Context, entry *cache.Entry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Put(ctx, entry)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		// Circuit is open - skip the write, the cache is an optimization
		return nil
	}
	return err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *CacheRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps LogsRepository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           *LogsRepository
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new logs repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo *LogsRepository, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If the circuit is open the write silently fails; logging is non-critical.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if err == circuitbreaker.ErrCircuitOpen {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	var result []*model.LogEntry
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Query(ctx, opts)
		return cbErr
	})
	return result, err
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Count(ctx, opts)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
