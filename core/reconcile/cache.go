package reconcile

import (
	"context"
	"sync"
)

// KeyCache persists the dedup key set between passes.
// Entries are tagged with a watermark, the store's record count when they were
// written; a cache entry is only valid while the store still holds that many records.
type KeyCache interface {
	// Get returns the cached keys if the cache was written at watermark.
	Get(ctx context.Context, watermark int) (KeySet, bool, error)

	// Put replaces the cache content.
	Put(ctx context.Context, keys KeySet, watermark int) error

	// Add records keys appended to a store that now holds watermark records.
	// It must only be called when the cache is current for the previous count.
	Add(ctx context.Context, keys []Key, watermark int) error
}

// MemoryKeyCache is an in-process KeyCache.
type MemoryKeyCache struct {
	mu        sync.RWMutex
	keys      KeySet
	watermark int
	valid     bool
}

// NewMemoryKeyCache creates an empty in-process cache.
func NewMemoryKeyCache() *MemoryKeyCache {
	return &MemoryKeyCache{}
}

// Get implements KeyCache.
func (c *MemoryKeyCache) Get(_ context.Context, watermark int) (KeySet, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.watermark != watermark {
		return nil, false, nil
	}
	return c.keys.Clone(), true, nil
}

// Put implements KeyCache.
func (c *MemoryKeyCache) Put(_ context.Context, keys KeySet, watermark int) error {
	c.mu.Lock()
	c.keys = keys.Clone()
	c.watermark = watermark
	c.valid = true
	c.mu.Unlock()
	return nil
}

// Add implements KeyCache.
func (c *MemoryKeyCache) Add(_ context.Context, keys []Key, watermark int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		return nil
	}
	for _, k := range keys {
		c.keys.Add(k)
	}
	c.watermark = watermark
	return nil
}

// Invalidate drops the cached keys.
func (c *MemoryKeyCache) Invalidate() {
	c.mu.Lock()
	c.keys = nil
	c.valid = false
	c.mu.Unlock()
}
