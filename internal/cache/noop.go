package cache

import (
	"context"
	"time"
)

type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string) (any, bool, error) { return nil, false, nil }

func (noopCache) GetInto(_ context.Context, _ string, _ any) (bool, error) { return false, nil }

func (noopCache) Put(_ context.Context, _ string, _ any) error { return nil }

func (noopCache) PutWithTTL(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (noopCache) Delete(_ context.Context, _ string) error { return nil }

func (noopCache) Sweep(_ context.Context) (int64, error) { return 0, nil }

func (noopCache) Close() error { return nil }
