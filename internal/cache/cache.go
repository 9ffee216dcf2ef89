// Package cache provides the scoped TTL cache shared by Journiv services.
//
// Entries are keyed by (namespace, scope_id, cache_type): the namespace is
// fixed per service, the scope identifies the subject of the cached data and
// the cache type distinguishes kinds of entries sharing a scope. Expiry is
// lazy: an entry whose expires_at has passed is reported as absent, no
// background eviction runs.
package cache

import (
	"context"
	"time"

	"github.com/journiv/journiv-server/internal/logger"
	"github.com/journiv/journiv-server/internal/metrics"
)

// Entry is a single cached record.
type Entry struct {
	Namespace string                 `bson:"namespace" json:"namespace"`
	ScopeID   string                 `bson:"scope_id" json:"scope_id"`
	CacheType string                 `bson:"cache_type" json:"cache_type"`
	Value     map[string]interface{} `bson:"value" json:"value"`
	ExpiresAt time.Time              `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the entry's TTL has passed at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is the persistence layer behind a ScopedCache.
// Implementations must be safe for concurrent use; last writer wins on Put.
type Store interface {
	// Get returns the entry for the exact key, or nil if none is stored.
	// Expiry is not the store's concern; it may return expired entries.
	Get(ctx context.Context, namespace, scopeID, cacheType string) (*Entry, error)

	// Put stores or replaces the entry for its key.
	Put(ctx context.Context, entry *Entry) error
}

// Status classifies the outcome of a cache lookup.
type Status int

const (
	// Hit means a live entry was found.
	Hit Status = iota
	// Miss means no entry exists or the entry has expired.
	Miss
	// Failure means the store errored. Callers treat Failure exactly like
	// Miss; the reason is logged here and carried for inspection only.
	Failure
)

// Lookup is the result of a ScopedCache.Get call.
type Lookup struct {
	Status Status
	Value  map[string]interface{}
	Reason error
}

// Found reports whether the lookup produced a usable value.
func (l Lookup) Found() bool {
	return l.Status == Hit
}

// ScopedCache is a namespaced view over a Store with TTL semantics.
//
// The cache is a pure optimization: lookups degrade to Miss and writes to
// no-ops when the store fails, so cache trouble never breaks the caller's
// primary path.
type ScopedCache struct {
	namespace string
	store     Store
	now       func() time.Time
}

// Option configures a ScopedCache.
type Option func(*ScopedCache)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ScopedCache) {
		c.now = now
	}
}

// New creates a ScopedCache over the given store, bound to a namespace.
func New(namespace string, store Store, opts ...Option) *ScopedCache {
	c := &ScopedCache{
		namespace: namespace,
		store:     store,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Namespace returns the namespace this cache is bound to.
func (c *ScopedCache) Namespace() string {
	return c.namespace
}

// Get looks up the entry for (scopeID, cacheType).
// Expired entries are reported as Miss regardless of their presence in the
// store. Store errors are logged as warnings and reported as Failure.
func (c *ScopedCache) Get(ctx context.Context, scopeID, cacheType string) Lookup {
	entry, err := c.store.Get(ctx, c.namespace, scopeID, cacheType)
	if err != nil {
		log := logger.Logger()
		log.Warn().
			Err(err).
			Str("namespace", c.namespace).
			Str("scope_id", scopeID).
			Str("cache_type", cacheType).
			Msg("Cache lookup failed")
		metrics.RecordCacheOperation("get", "failure")
		return Lookup{Status: Failure, Reason: err}
	}
	if entry == nil {
		metrics.RecordCacheOperation("get", "miss")
		return Lookup{Status: Miss}
	}
	if entry.Expired(c.now()) {
		metrics.RecordCacheOperation("get", "expired")
		return Lookup{Status: Miss}
	}
	metrics.RecordCacheOperation("get", "hit")
	return Lookup{Status: Hit, Value: entry.Value}
}

// Set stores or replaces the entry for (scopeID, cacheType) with the given
// TTL, resetting any prior expiry. Store errors are logged and swallowed so
// that a failed write degrades to a no-op for the caller.
func (c *ScopedCache) Set(ctx context.Context, scopeID, cacheType string, value map[string]interface{}, ttl time.Duration) {
	entry := &Entry{
		Namespace: c.namespace,
		ScopeID:   scopeID,
		CacheType: cacheType,
		Value:     value,
		ExpiresAt: c.now().Add(ttl),
	}
	if err := c.store.Put(ctx, entry); err != nil {
		log := logger.Logger()
		log.Warn().
			Err(err).
			Str("namespace", c.namespace).
			Str("scope_id", scopeID).
			Str("cache_type", cacheType).
			Msg("Cache write failed")
		metrics.RecordCacheOperation("set", "failure")
		return
	}
	metrics.RecordCacheOperation("set", "success")
}
