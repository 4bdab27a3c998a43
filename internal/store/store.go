// Package store persists cache entries. It is the only part of the cache touching
// durable storage and knows nothing about expiration policy.
package store

import (
	"context"
	"errors"
	"fmt"

	"kvcache/internal/models"
)

var (
	// ErrNotFound is returned by SelectByKey when no row exists for the key.
	ErrNotFound = errors.New("cache entry not found")

	// ErrStoreUnavailable wraps every failure of the backing store.
	ErrStoreUnavailable = errors.New("cache store unavailable")
)

// Store is a durable table of cache entries.
type Store interface {
	// InitSchema makes sure the backing table exists. It is safe to call on every start.
	InitSchema(ctx context.Context) error

	// Upsert inserts the entry or replaces the existing one with the same key.
	Upsert(ctx context.Context, key, value string, expiresAt int64) error

	// SelectByKey returns the stored entry or ErrNotFound.
	SelectByKey(ctx context.Context, key string) (models.CacheEntry, error)

	// DeleteWhereExpired removes all entries with an expiration <= threshold in a
	// single operation and returns how many were removed.
	DeleteWhereExpired(ctx context.Context, threshold int64) (int64, error)

	// DeleteByKey removes the entry for key. Deleting an absent key is not an error.
	DeleteByKey(ctx context.Context, key string) error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
