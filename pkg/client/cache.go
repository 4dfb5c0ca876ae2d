package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes read responses under semantic keys. Concurrent fetches
// for the same key collapse into one request, and entries past their TTL
// are served stale while a background refresh runs.
type Cache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Key builds a cache key from semantic parts, for example
// Key("tasks", "list", projectID).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Get returns the cached value for key, fetching on a miss. A stale entry
// is returned immediately and refreshed in the background.
func (c *Cache) Get(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok {
		if c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.value, nil
		}
		go func() {
			// Refresh outlives the caller's request context.
			c.refresh(context.WithoutCancel(ctx), key, fetch)
		}()
		return entry.value, nil
	}

	return c.refresh(ctx, key, fetch)
}

func (c *Cache) refresh(ctx context.Context, key string, fetch func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cacheEntry{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})
	return value, err
}

// Invalidate drops every entry whose key starts with prefix. Mutations
// call this so the next read refetches.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll empties the cache, used on logout.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Cached is a typed wrapper over Cache.Get.
func Cached[T any](ctx context.Context, c *Cache, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Get(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
