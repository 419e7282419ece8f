package querycache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache memoizes query results by key for a fixed TTL. Concurrent loads of
// the same key share one call unless an invalidation happened in between.
// Failed loads are not cached.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	epoch   uint64
}

// New creates a cache; a non-positive ttl disables caching but keeps load sharing.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key or runs load to fill it
func (c *Cache) Get(ctx context.Context, key string, load func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		return e.value, nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	// a caller arriving after an Invalidate must not join a load started before it
	flight := strconv.FormatUint(epoch, 10) + "|" + key
	v, err, _ := c.group.Do(flight, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		// an Invalidate during the load makes this result stale
		if c.ttl > 0 && c.epoch == epoch {
			c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return value, nil
	})
	return v, err
}

// Invalidate drops every entry whose key starts with one of the prefixes
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Reset drops everything, e.g. when the session changes hands
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[string]entry)
}

// Len returns the number of live entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

// Fetch is a typed wrapper around Get
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
