package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := &Entry{
		Namespace: "journiv",
		ScopeID:   "scope",
		CacheType: "weather",
		Value:     map[string]interface{}{"temp_c": 12.0},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Put(ctx, entry))

	got, err := store.Get(ctx, "journiv", "scope", "weather")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12.0, got.Value["temp_c"])

	// Unknown key returns nil without error
	got, err = store.Get(ctx, "journiv", "other", "weather")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_LazyEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, &Entry{
		Namespace: "journiv",
		ScopeID:   "scope",
		CacheType: "weather",
		Value:     map[string]interface{}{},
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	assert.Equal(t, 1, store.Len())

	// Reading an expired entry drops it from the map
	_, err := store.Get(ctx, "journiv", "scope", "weather")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry := &Entry{
				Namespace: "journiv",
				ScopeID:   "scope",
				CacheType: "weather",
				Value:     map[string]interface{}{},
				ExpiresAt: time.Now().Add(time.Hour),
			}
			_ = store.Put(ctx, entry)
			_, _ = store.Get(ctx, "journiv", "scope", "weather")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
}
