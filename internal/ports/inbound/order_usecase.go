package inbound

import (
	"context"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
)

// IdentifierResolver turns either identifier form into the surrogate key,
// or returns the input unchanged when no mapping exists.
type IdentifierResolver interface {
	Resolve(ctx context.Context, identifier string) (string, error)
}

// OrderMatcher builds the either-form predicate for os_id columns. The
// predicate pairs the order's current number with its key whichever form
// the caller passed, so rows stored under the number are still reached
// after a request has been canonicalised.
type OrderMatcher interface {
	Match(ctx context.Context, identifier string) (canonical string, match identity.Predicate, err error)
}

type OrderUseCase interface {
	OrderMatcher
	GetByIdentifier(ctx context.Context, identifier string) (domain.Order, error)
	Ingest(ctx context.Context, order domain.Order) error
	Archive(ctx context.Context, identifier string) (domain.Order, error)
	WarmCache(ctx context.Context, limit int) (int, error)
	ListPage(ctx context.Context, page, pageSize int) (orders []domain.Order, total int, err error)
}
