// Package cache implements a persistent key-value cache with time based expiration.
//
// Values are stored as JSON in a store.Store together with an absolute expiration
// timestamp. Expiration is enforced twice: Get hides expired entries immediately, and
// a background sweep physically deletes them to bound storage growth.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"kvcache/internal/config"
	"kvcache/internal/store"
)

// Cache is the public contract of the cache engine.
type Cache interface {
	// Get returns the decoded value for key. Missing, expired and corrupt entries are
	// reported with found == false and no error.
	Get(ctx context.Context, key string) (value any, found bool, err error)

	// GetInto decodes the value for key into dst, which must be a non-nil pointer.
	GetInto(ctx context.Context, key string, dst any) (found bool, err error)

	// Put stores value under key using the configured default TTL.
	Put(ctx context.Context, key string, value any) error

	// PutWithTTL stores value under key for ttl. Precision is one second; a ttl <= 0
	// stores an entry that is already expired.
	PutWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Sweep physically removes all expired entries and returns how many were removed.
	Sweep(ctx context.Context) (int64, error)

	// Close stops the background sweep. It is safe to call multiple times.
	Close() error
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithObserver registers an observer for engine events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// New creates the cache described by conf. A disabled configuration yields a cache that
// never touches st. Otherwise the schema is initialized, which must succeed, and the
// background sweep is started.
func New(conf config.CacheConfig, st store.Store, logger zerolog.Logger, opts ...Option) (Cache, error) {
	logger = logger.With().Str("component", "cache").Logger()

	if conf.Disabled {
		logger.Info().Msg("Cache disabled")

		return noopCache{}, nil
	}

	engine, err := newEngine(conf, st, logger, opts...)
	if err != nil {
		return nil, err
	}

	return engine, nil
}
