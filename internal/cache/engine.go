package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"kvcache/internal/config"
	"kvcache/internal/store"
)

// Engine is the enabled implementation of Cache. It holds no lock on the request path;
// per key atomicity is provided by the store.
type Engine struct {
	store      store.Store
	logger     zerolog.Logger
	now        func() time.Time
	observers  []Observer
	defaultTTL time.Duration
	interval   time.Duration

	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closed    atomic.Bool
}

var _ Cache = (*Engine)(nil)

func newEngine(conf config.CacheConfig, st store.Store, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		store:      st,
		logger:     logger,
		now:        time.Now,
		defaultTTL: conf.DefaultTTLDuration(),
		interval:   conf.SweepPeriod(),
		ctx:        ctx,
		cancel:     cancel,
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := st.InitSchema(ctx); err != nil {
		cancel()

		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	e.logger.Info().Dur("default_ttl", e.defaultTTL).Msg("Cache initialized")
	e.emit(EventInit, "", 0)

	if err := e.startSweeper(); err != nil {
		cancel()

		return nil, err
	}

	return e, nil
}

func (e *Engine) Get(ctx context.Context, key string) (any, bool, error) {
	raw, found, err := e.load(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	var value any
	if err := decode(raw, &value); err != nil {
		e.corrupt(key, err)

		return nil, false, nil
	}

	e.hit(key)

	return value, true, nil
}

// GetInto leaves dst untouched unless the entry is found and decodes successfully.
func (e *Engine) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return false, ErrInvalidTarget
	}

	raw, found, err := e.load(ctx, key)
	if err != nil || !found {
		return false, err
	}

	tmp := reflect.New(target.Elem().Type())
	if err := decode(raw, tmp.Interface()); err != nil {
		e.corrupt(key, err)

		return false, nil
	}

	target.Elem().Set(tmp.Elem())
	e.hit(key)

	return true, nil
}

func (e *Engine) Put(ctx context.Context, key string, value any) error {
	return e.PutWithTTL(ctx, key, value, e.defaultTTL)
}

func (e *Engine) PutWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if e.closed.Load() {
		return ErrClosed
	}

	text, err := encode(value)
	if err != nil {
		return &SerializationError{Key: key, Cause: err}
	}

	now := e.now().Unix()
	expiresAt := now + int64(ttl/time.Second)

	if err := e.store.Upsert(ctx, key, text, expiresAt); err != nil {
		return err
	}

	e.logger.Info().
		Str("key", key).
		Int64("time", now).
		Int64("expires_at", expiresAt).
		Msg("Cache put")
	e.emit(EventPut, key, 0)

	return nil
}

func (e *Engine) Delete(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrClosed
	}

	if err := e.store.DeleteByKey(ctx, key); err != nil {
		return err
	}

	e.logger.Info().Str("key", key).Msg("Cache delete")
	e.emit(EventDelete, key, 0)

	return nil
}

func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	if e.closed.Load() {
		return 0, ErrClosed
	}

	return e.sweep(ctx)
}

func (e *Engine) Close() error {
	var err error

	e.closeOnce.Do(func() {
		e.closed.Store(true)

		// waits for a running sweep; no job fires afterwards
		if e.scheduler != nil {
			err = e.scheduler.Shutdown()
		}

		e.cancel()
		e.logger.Info().Msg("Cache closed")
	})

	return err
}

// load returns the stored text of a live entry.
func (e *Engine) load(ctx context.Context, key string) (string, bool, error) {
	if e.closed.Load() {
		return "", false, ErrClosed
	}

	row, err := e.store.SelectByKey(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		e.miss(key, "absent")

		return "", false, nil
	} else if err != nil {
		return "", false, err
	}

	if row.ExpiredAt(e.now().Unix()) {
		e.miss(key, "expired")

		return "", false, nil
	}

	return row.Value, true, nil
}

func (e *Engine) hit(key string) {
	e.logger.Info().Str("key", key).Msg("Cache hit")
	e.emit(EventHit, key, 0)
}

func (e *Engine) miss(key, reason string) {
	e.logger.Info().Str("key", key).Str("reason", reason).Msg("Cache miss")
	e.emit(EventMiss, key, 0)
}

// corrupt rows are left in place; they disappear with the next sweep after expiry.
func (e *Engine) corrupt(key string, cause error) {
	e.logger.Warn().
		Err(&DeserializationError{Key: key, Cause: cause}).
		Str("key", key).
		Msg("Ignoring corrupt cache entry")
	e.miss(key, "corrupt")
}

func (e *Engine) emit(typ EventType, key string, count int64) {
	if len(e.observers) == 0 {
		return
	}

	evt := Event{Type: typ, Key: key, Count: count, At: e.now()}
	for _, o := range e.observers {
		o.Observe(evt)
	}
}
