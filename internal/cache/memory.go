package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process Store used when MongoDB is disabled.
// Expired entries are dropped lazily on read; nothing sweeps the map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[memoryKey]*Entry
}

type memoryKey struct {
	namespace string
	scopeID   string
	cacheType string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[memoryKey]*Entry),
	}
}

// Get returns the stored entry for the key, or nil if none exists.
// Entries whose expiry has long passed are removed on the way out so the map
// does not grow without bound under rotating keys.
func (s *MemoryStore) Get(_ context.Context, namespace, scopeID, cacheType string) (*Entry, error) {
	key := memoryKey{namespace: namespace, scopeID: scopeID, cacheType: cacheType}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if entry.Expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have replaced it.
		if current, still := s.entries[key]; still && current == entry {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return entry, nil
	}

	return entry, nil
}

// Put stores or replaces the entry for its key. Last writer wins.
func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	key := memoryKey{namespace: entry.Namespace, scopeID: entry.ScopeID, cacheType: entry.CacheType}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired ones that have
// not been lazily dropped yet.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
