// Package repository provides the persisted scoped cache store.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/journiv/journiv-server/internal/cache"
)

// CacheRepository implements cache.Store on top of the cache_entries
// collection. The unique (namespace, scope_id, cache_type) index plus an
// upsert gives last-writer-wins replacement semantics; expiry stays the
// ScopedCache's concern.
type CacheRepository struct {
	collection *mongo.Collection
}

// NewCacheRepository creates a new cache entry repository.
func NewCacheRepository(db *mongo.Database) *CacheRepository {
	return &CacheRepository{
		collection: db.Collection("cache_entries"),
	}
}

// Get returns the entry for the exact key, or nil if none is stored.
func (r *CacheRepository) Get(ctx context.Context, namespace, scopeID, cacheType string) (*cache.Entry, error) {
	filter := bson.M{
		"namespace":  namespace,
		"scope_id":   scopeID,
		"cache_type": cacheType,
	}

	var entry cache.Entry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores or replaces the entry for its key.
func (r *CacheRepository) Put(ctx context.Context, entry *cache.Entry) error {
	filter := bson.M{
		"namespace":  entry.Namespace,
		"scope_id":   entry.ScopeID,
		"cache_type": entry.CacheType,
	}
	update := bson.M{
		"$set": bson.M{
			"value":      entry.Value,
			"expires_at": entry.ExpiresAt,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
