package service

import (
	"context"
	"errors"
	"fmt"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

// Resolver maps a human order number to its surrogate key with one store
// read. Surrogate-shaped input is returned as is without touching the
// store, and an unknown number comes back unchanged rather than as an
// error. Only store failures are errors.
type Resolver struct {
	orders   outbound.OrderLookup
	observer outbound.ResolutionObserver
}

type ResolverOption func(*Resolver)

func WithResolutionObserver(o outbound.ResolutionObserver) ResolverOption {
	return func(r *Resolver) { r.observer = o }
}

func NewResolver(orders outbound.OrderLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{orders: orders}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expects a non-empty identifier; callers reject empty ones first.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (string, error) {
	if identifier == "" || identity.IsSurrogateShape(identifier) {
		r.observe(identity.OutcomeCanonical)
		return identifier, nil
	}

	id, err := r.orders.FindActiveIDByNumber(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.observe(identity.OutcomeUnresolved)
			return identifier, nil
		}
		r.observe(identity.OutcomeFailed)
		return "", fmt.Errorf("resolve %q: %w", identifier, err)
	}

	r.observe(identity.OutcomeResolved)
	return id, nil
}

func (r *Resolver) observe(o identity.Outcome) {
	if r.observer != nil {
		r.observer.ObserveResolution(o)
	}
}

var _ inbound.IdentifierResolver = (*Resolver)(nil)
