package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ResolutionLRU is the in-process number -> key cache. Entries expire
// after ttl and the least recently used ones go first once size is hit.
type ResolutionLRU struct {
	lru   *expirable.LRU[string, string]
	stats *Stats
}

func NewResolutionLRU(size int, ttl time.Duration) *ResolutionLRU {
	if size <= 0 {
		size = 1000
	}
	return &ResolutionLRU{
		lru:   expirable.NewLRU[string, string](size, nil, ttl),
		stats: NewStats(),
	}
}

func (c *ResolutionLRU) Get(_ context.Context, number string) (string, bool) {
	id, ok := c.lru.Get(number)
	if ok {
		c.stats.IncHit()
		return id, true
	}
	c.stats.IncMiss()
	return "", false
}

func (c *ResolutionLRU) Set(_ context.Context, number, id string) {
	c.lru.Add(number, id)
}

func (c *ResolutionLRU) Delete(_ context.Context, number string) {
	c.lru.Remove(number)
}

func (c *ResolutionLRU) Len() int { return c.lru.Len() }

func (c *ResolutionLRU) Stats() *Stats { return c.stats }
