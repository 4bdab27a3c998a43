package store

import (
	"context"
	"sync"

	"kvcache/internal/models"
)

// MemoryStore is a map-backed Store. Entries do not survive the process; it exists for
// tests and for ephemeral deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]models.CacheEntry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]models.CacheEntry)}
}

func (s *MemoryStore) InitSchema(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Upsert(ctx context.Context, key, value string, expiresAt int64) error {
	if err := ctx.Err(); err != nil {
		return unavailable("upsert cache entry", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = models.CacheEntry{Key: key, Value: value, Expiration: expiresAt}

	return nil
}

func (s *MemoryStore) SelectByKey(ctx context.Context, key string) (models.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.CacheEntry{}, unavailable("query cache entry", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok {
		return models.CacheEntry{}, ErrNotFound
	}

	return e, nil
}

func (s *MemoryStore) DeleteWhereExpired(ctx context.Context, threshold int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("delete expired cache entries", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64

	for k, e := range s.items {
		if e.ExpiredAt(threshold) {
			delete(s.items, k)
			count++
		}
	}

	return count, nil
}

func (s *MemoryStore) DeleteByKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("delete cache entry", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}

// Len returns the number of physically stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
