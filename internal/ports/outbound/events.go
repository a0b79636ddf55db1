package outbound

import (
	"context"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
)

type ChangePublisher interface {
	PublishChange(ctx context.Context, log domain.ChangeLog) error
}

type ResolutionObserver interface {
	ObserveResolution(outcome identity.Outcome)
}
