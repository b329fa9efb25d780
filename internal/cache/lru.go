// Package cache holds derived values that are expensive to rebuild.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a size-bounded cache whose entries are tagged with the version of
// the data they were derived from. A lookup with a newer version misses and
// drops the stale entry.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List

	hits, misses uint64
}

type cacheItem[T any] struct {
	key     string
	version uint64
	data    T
}

// NewLRU creates a cache holding at most maxSize entries.
func NewLRU[T any](maxSize int) *LRU[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRU[T]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the value stored under key if it was derived from version.
func (c *LRU[T]) Get(key string, version uint64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		c.misses++
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if item.version != version {
		c.removeElement(elem)
		c.misses++
		return zero, false
	}

	c.lru.MoveToFront(elem)
	c.hits++
	return item.data, true
}

// Set stores data under key, derived from version.
func (c *LRU[T]) Set(key string, version uint64, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{key: key, version: version, data: data}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(item)

	// Evict if over capacity
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// GetOrBuild returns the cached value or builds, stores and returns it.
// Build errors are not cached.
func (c *LRU[T]) GetOrBuild(key string, version uint64, build func() (T, error)) (T, error) {
	if v, ok := c.Get(key, version); ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return v, err
	}
	c.Set(key, version, v)
	return v, nil
}

func (c *LRU[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// Size returns the current number of items in the cache
func (c *LRU[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *LRU[T]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
