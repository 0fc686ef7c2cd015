package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes task outputs across runs.
type Cache interface {
	// Do returns the cached value for key, or calls fn and caches its result
	// when it succeeds. hit reports whether the value came from the cache.
	Do(ctx context.Context, key string, fn func() (any, error)) (value any, hit bool, err error)
	// Invalidate drops a single entry.
	Invalidate(key string)
}

type cacheEntry struct {
	value any
	built time.Time
}

// MemoryCache is an in-process Cache with optional expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache. A zero ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Do implements Cache. Concurrent misses on the same key share one call.
// A caller whose ctx ends stops waiting at once. When a call led by another
// caller ends with a context error while ctx is still live, the caller
// retries with its own fn.
func (c *MemoryCache) Do(ctx context.Context, key string, fn func() (any, error)) (any, bool, error) {
	type result struct {
		value any
		hit   bool
	}

	for {
		if v, ok := c.lookup(key); ok {
			return v, true, nil
		}

		led := false
		ch := c.sf.DoChan(key, func() (interface{}, error) {
			led = true
			// Double-check after acquiring singleflight lock
			if v, ok := c.lookup(key); ok {
				return result{value: v, hit: true}, nil
			}
			v, err := fn()
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			c.entries[key] = cacheEntry{value: v, built: c.now()}
			c.mu.Unlock()
			return result{value: v}, nil
		})

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				if !led && isContextErr(res.Err) && ctx.Err() == nil {
					c.sf.Forget(key)
					continue
				}
				return nil, false, res.Err
			}
			r := res.Val.(result)
			return r.value, r.hit, nil
		}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Invalidate implements Cache.
func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheKey derives the cache key of a task invocation from the task name,
// its cache version and its inputs. ok is false when the inputs cannot be
// hashed, in which case the invocation must not be cached.
func CacheKey(t *Task, in Inputs) (key string, ok bool) {
	names := make([]string, 0, len(in.values))
	for name := range in.values {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		encoded, err := json.Marshal(in.values[name])
		if err != nil {
			return "", false
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(encoded)
		h.Write([]byte{0})
	}
	return t.Name() + "|" + t.CacheVersion() + "|" + hex.EncodeToString(h.Sum(nil)), true
}
