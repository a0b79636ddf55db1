package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"catering_ops/internal/core/identity"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

// CachedResolver remembers successful number -> key mappings and collapses
// concurrent lookups of the same number into one store read. Unresolved
// numbers and failures are never cached: a new order may receive its
// number at any time.
type CachedResolver struct {
	next     inbound.IdentifierResolver
	cache    outbound.ResolutionCache
	observer outbound.ResolutionObserver
	group    singleflight.Group
}

const sharedLookupTimeout = 5 * time.Second

func NewCachedResolver(next inbound.IdentifierResolver, cache outbound.ResolutionCache, observer outbound.ResolutionObserver) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, observer: observer}
}

func (c *CachedResolver) Resolve(ctx context.Context, identifier string) (string, error) {
	if identifier == "" || identity.IsSurrogateShape(identifier) {
		return c.next.Resolve(ctx, identifier)
	}

	if id, ok := c.cache.Get(ctx, identifier); ok {
		if c.observer != nil {
			c.observer.ObserveResolution(identity.OutcomeCached)
		}
		return id, nil
	}

	// The shared lookup outlives any single caller so that one caller
	// giving up does not fail the others waiting on it.
	ch := c.group.DoChan(identifier, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()
		id, err := c.next.Resolve(lookupCtx, identifier)
		if err != nil {
			return "", err
		}
		if id != identifier {
			c.cache.Set(lookupCtx, identifier, id)
		}
		return id, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

var _ inbound.IdentifierResolver = (*CachedResolver)(nil)
