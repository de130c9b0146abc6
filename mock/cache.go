package mock

import (
	"context"

	stitch "github.com/rishikaushal2009/Audio-Stich"
)

var _ stitch.Cache = &Cache{}

// Cache is a mock of stitch.Cache.
type Cache struct {
	ExistsFn func(ctx context.Context, key string) (bool, error)
	CopyFn   func(ctx context.Context, key, dest string) error
	StoreFn  func(ctx context.Context, dest, key string) error
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.ExistsFn(ctx, key)
}

func (c *Cache) Copy(ctx context.Context, key, dest string) error {
	return c.CopyFn(ctx, key, dest)
}

func (c *Cache) Store(ctx context.Context, dest, key string) error {
	return c.StoreFn(ctx, dest, key)
}
