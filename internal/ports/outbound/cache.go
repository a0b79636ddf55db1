package outbound

import (
	"context"

	"catering_ops/internal/core/domain"
)

type OrderCache interface {
	Get(ctx context.Context, orderID string) (domain.Order, bool)
	Set(ctx context.Context, order domain.Order)
	BulkSet(ctx context.Context, orders []domain.Order)
	Delete(ctx context.Context, orderID string)
	Len(ctx context.Context) int
}

// ResolutionCache maps human numbers to surrogate keys. Implementations
// treat their own failures as misses.
type ResolutionCache interface {
	Get(ctx context.Context, number string) (string, bool)
	Set(ctx context.Context, number, id string)
	Delete(ctx context.Context, number string)
}
