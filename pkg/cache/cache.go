package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache stores values of type V under string keys.
//
// A positive ttl passed to Set expires the entry after that duration, zero
// uses the cache default and a negative ttl keeps the entry until it is
// deleted or evicted.
type Cache[V any] interface {
	// Get returns ErrNotFound for a missing or expired key.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

// Marshaler converts values for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSON encodes values with encoding/json. It is the Redis default.
type JSON[V any] struct{}

func (JSON[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSON[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// Raw stores byte slices as they are. Rendered documents use it so Redis
// holds plain XML or HTML.
type Raw struct{}

func (Raw) Marshal(v []byte) ([]byte, error)      { return v, nil }
func (Raw) Unmarshal(data []byte) ([]byte, error) { return data, nil }

var group singleflight.Group

type computed[V any] struct {
	val V
	ttl time.Duration
}

// GetOrSet returns the cached value for key or computes it with fn.
// Concurrent misses for the same key share one call to fn. Errors from fn
// are returned and never cached; a failing Set only costs a recomputation.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := group.Do(flightKey(c, key), func() (any, error) {
		v, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v, ttl)
		return computed[V]{val: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(computed[V]).val, nil
}

// flightKey scopes key to the cache instance and its value type so caches
// sharing key names never join each other's calls.
func flightKey[V any](c Cache[V], key string) string {
	return fmt.Sprintf("%s|%p|%s", reflect.TypeFor[V](), c, key)
}
