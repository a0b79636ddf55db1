package cache

import (
	"context"
	"sync"

	"catering_ops/internal/core/domain"
)

// MemoryCache holds orders by surrogate key for the read path.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]domain.Order
	stats *Stats
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: make(map[string]domain.Order),
		stats: NewStats(),
	}
}

func (c *MemoryCache) Get(_ context.Context, orderID string) (domain.Order, bool) {
	c.mu.RLock()
	o, ok := c.store[orderID]
	c.mu.RUnlock()

	if ok {
		c.stats.IncHit()
		return o, true
	}

	c.stats.IncMiss()
	return domain.Order{}, false
}

func (c *MemoryCache) Set(_ context.Context, order domain.Order) {
	if order.ID == "" {
		return
	}
	c.mu.Lock()
	c.store[order.ID] = order
	c.mu.Unlock()
}

func (c *MemoryCache) BulkSet(_ context.Context, orders []domain.Order) {
	c.mu.Lock()
	for _, o := range orders {
		if o.ID == "" {
			continue
		}
		c.store[o.ID] = o
	}
	c.mu.Unlock()
}

func (c *MemoryCache) Delete(_ context.Context, orderID string) {
	c.mu.Lock()
	delete(c.store, orderID)
	c.mu.Unlock()
}

func (c *MemoryCache) Len(_ context.Context) int {
	c.mu.RLock()
	n := len(c.store)
	c.mu.RUnlock()
	return n
}

func (c *MemoryCache) Stats() *Stats { return c.stats }
