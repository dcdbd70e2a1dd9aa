// Package cache provides the memoization boundary for merge results.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes merge results keyed by chunk. Implementations must be safe
// for concurrent use; the merge computation is deterministic, so a race
// duplicates work at worst.
type Cache interface {
	// GetOrCompute returns the cached value for key, computing and storing
	// it on a miss.
	GetOrCompute(key string, compute func() string) string
}

// Unbounded is the default backend: entries are never evicted. Lookup and
// insert happen under one lock so concurrent callers never tear the map.
type Unbounded struct {
	mu sync.Mutex
	m  map[string]string
}

func NewUnbounded() *Unbounded {
	return &Unbounded{m: make(map[string]string)}
}

func (c *Unbounded) GetOrCompute(key string, compute func() string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v
	}
	v := compute()
	c.m[key] = v
	return v
}

// Len returns the number of cached chunks.
func (c *Unbounded) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// LRU bounds the cache to a fixed number of chunks, evicting the least
// recently used. Two concurrent misses on one key may both compute; both
// arrive at the same value.
type LRU struct {
	c *lru.Cache[string, string]
}

func NewLRU(size int) (*LRU, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &LRU{c: c}, nil
}

func (c *LRU) GetOrCompute(key string, compute func() string) string {
	if v, ok := c.c.Get(key); ok {
		return v
	}
	v := compute()
	c.c.Add(key, v)
	return v
}

// Len returns the number of cached chunks.
func (c *LRU) Len() int {
	return c.c.Len()
}
