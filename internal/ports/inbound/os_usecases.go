package inbound

import (
	"context"

	"catering_ops/internal/core/domain"
)

type PanelView struct {
	OrderID     string               `json:"os_id"`
	OrderNumber string               `json:"os_number,omitempty"`
	Panel       domain.Panel         `json:"panel"`
	Warnings    []string             `json:"warnings"`
	Changes     []domain.FieldChange `json:"changes,omitempty"`
}

type PanelUseCase interface {
	Get(ctx context.Context, identifier string) (PanelView, error)
	Save(ctx context.Context, identifier string, panel domain.Panel, actor domain.Actor) (PanelView, error)
}

type ChangeLogUseCase interface {
	List(ctx context.Context, identifier string, limit int) ([]domain.ChangeLog, error)
}

type CommentUseCase interface {
	Add(ctx context.Context, identifier, author, body string) (domain.Comment, error)
	List(ctx context.Context, identifier string) ([]domain.Comment, error)
	Delete(ctx context.Context, identifier, commentID string) error
}

type RealCostSummary struct {
	OrderID    string            `json:"os_id"`
	Costs      []domain.RealCost `json:"costs"`
	TotalCents int64             `json:"total_cents"`
}

type RealCostUseCase interface {
	Set(ctx context.Context, identifier, category string, amountCents int64, note string) (domain.RealCost, error)
	List(ctx context.Context, identifier string) (RealCostSummary, error)
	Remove(ctx context.Context, identifier, category string) error
}

type SharedLinkUseCase interface {
	Create(ctx context.Context, identifier, createdBy string) (domain.SharedLink, error)
	Open(ctx context.Context, token string) (domain.Order, error)
	List(ctx context.Context, identifier string) ([]domain.SharedLink, error)
	Revoke(ctx context.Context, token string) error
}

type TaskUseCase interface {
	List(ctx context.Context, identifier string) ([]domain.Task, error)
}
