package cache

import (
	"context"
	"sync"
	"time"

	"FlowState/internal/telemetry"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when Redis is not configured
// or unreachable at startup. Entries vanish on restart, which only costs
// one extra round of upstream fetches.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		telemetry.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	telemetry.CacheRequests.WithLabelValues("hit").Inc()
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *MemoryCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}
