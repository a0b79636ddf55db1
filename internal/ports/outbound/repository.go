package outbound

import (
	"context"
	"time"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
)

// OrderLookup is the single read the resolver needs. It returns
// domain.ErrNotFound when no active order carries the number.
type OrderLookup interface {
	FindActiveIDByNumber(ctx context.Context, number string) (string, error)
}

type OrderRepository interface {
	OrderLookup
	Upsert(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (domain.Order, error)
	Archive(ctx context.Context, id string, at time.Time) (domain.Order, error)
	ListLatest(ctx context.Context, limit int) ([]domain.Order, error)
	ListOrderIDs(ctx context.Context, limit, offset int) ([]string, error)
	CountOrders(ctx context.Context) (int, error)
}

// The repositories below own tables whose os_id column may hold either
// identifier form, so reads take an identity.Predicate. Writes always use
// the surrogate key.

type PanelRepository interface {
	// GetPanel prefers the row stored under match.Resolved and returns
	// domain.ErrNotFound when the order has no panel yet.
	GetPanel(ctx context.Context, match identity.Predicate) (domain.Panel, error)
	SavePanel(ctx context.Context, orderID string, panel domain.Panel) error
}

type ChangeLogRepository interface {
	InsertChangeLog(ctx context.Context, log domain.ChangeLog) error
	ListChangeLogs(ctx context.Context, match identity.Predicate, limit int) ([]domain.ChangeLog, error)
}

type CommentRepository interface {
	InsertComment(ctx context.Context, c domain.Comment) error
	ListComments(ctx context.Context, match identity.Predicate) ([]domain.Comment, error)
	// DeleteComment returns domain.ErrNotFound when no row matched.
	DeleteComment(ctx context.Context, match identity.Predicate, commentID string) error
}

type RealCostRepository interface {
	UpsertRealCost(ctx context.Context, c domain.RealCost) (domain.RealCost, error)
	ListRealCosts(ctx context.Context, match identity.Predicate) ([]domain.RealCost, error)
	// DeleteRealCost returns domain.ErrNotFound when no row matched.
	DeleteRealCost(ctx context.Context, match identity.Predicate, category string) error
}

type SharedLinkRepository interface {
	InsertSharedLink(ctx context.Context, l domain.SharedLink) error
	// GetSharedLink returns domain.ErrNotFound for unknown tokens.
	GetSharedLink(ctx context.Context, token string) (domain.SharedLink, error)
	ListSharedLinks(ctx context.Context, match identity.Predicate) ([]domain.SharedLink, error)
	// DeleteSharedLink returns domain.ErrNotFound when no row matched.
	DeleteSharedLink(ctx context.Context, token string) error
}

type TaskRepository interface {
	ListTaskRules(ctx context.Context) ([]domain.TaskRule, error)
	HasPendingTask(ctx context.Context, match identity.Predicate, title string) (bool, error)
	InsertTask(ctx context.Context, t domain.Task) error
	ListTasks(ctx context.Context, match identity.Predicate) ([]domain.Task, error)
}
