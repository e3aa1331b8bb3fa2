// Package cache provides the process-local caches used by the lifecycle
// service. Entries never expire on their own; staleness is bounded only by
// explicit invalidation from the mutation paths.
package cache

import (
	"sync"

	"github.com/Yiling-J/theine-go"
)

const defaultMaxCacheSize = 10000

// Cache defines an interface for a generic bounded cache.
type Cache[T any] interface {
	// Get returns the value for the given key in the cache, if it exists.
	Get(key string) (T, bool)

	// Set sets a value for the key in the cache.
	Set(key string, value T)

	// Delete removes the key from the cache.
	Delete(key string)

	// Close closes the cache, cleaning up any residual resources.
	Close()
}

// InMemoryCache is a theine-backed implementation of [Cache].
type InMemoryCache[T any] struct {
	cache       *theine.Cache[string, T]
	maxElements int64
	closeOnce   *sync.Once
}

type InMemoryCacheOpt[T any] func(i *InMemoryCache[T])

func WithMaxCacheSize[T any](maxElements int64) InMemoryCacheOpt[T] {
	return func(i *InMemoryCache[T]) {
		i.maxElements = maxElements
	}
}

var _ Cache[any] = (*InMemoryCache[any])(nil)

func NewInMemoryCache[T any](opts ...InMemoryCacheOpt[T]) (*InMemoryCache[T], error) {
	c := &InMemoryCache[T]{
		maxElements: defaultMaxCacheSize,
		closeOnce:   &sync.Once{},
	}

	for _, opt := range opts {
		opt(c)
	}

	cache, err := theine.NewBuilder[string, T](c.maxElements).Build()
	if err != nil {
		return nil, err
	}
	c.cache = cache

	return c, nil
}

func (i *InMemoryCache[T]) Get(key string) (T, bool) {
	return i.cache.Get(key)
}

func (i *InMemoryCache[T]) Set(key string, value T) {
	i.cache.Set(key, value, 1)
}

func (i *InMemoryCache[T]) Delete(key string) {
	i.cache.Delete(key)
}

func (i *InMemoryCache[T]) Close() {
	i.closeOnce.Do(func() {
		i.cache.Close()
	})
}
