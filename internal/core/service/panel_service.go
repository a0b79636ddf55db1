package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

// PanelService saves the per-order control panel. The panel write is the
// only step that can fail a save; the audit entry, its event and the
// automatic tasks are best effort and only logged when they fail.
type PanelService struct {
	orders    inbound.OrderUseCase
	panels    outbound.PanelRepository
	changes   outbound.ChangeLogRepository
	tasks     outbound.TaskRepository
	publisher outbound.ChangePublisher
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewPanelService(
	orders inbound.OrderUseCase,
	panels outbound.PanelRepository,
	changes outbound.ChangeLogRepository,
	tasks outbound.TaskRepository,
	publisher outbound.ChangePublisher,
	log *slog.Logger,
) *PanelService {
	return &PanelService{
		orders:    orders,
		panels:    panels,
		changes:   changes,
		tasks:     tasks,
		publisher: publisher,
		log:       log.With(slog.String("component", "panel")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *PanelService) Get(ctx context.Context, identifier string) (inbound.PanelView, error) {
	order, err := s.orders.GetByIdentifier(ctx, identifier)
	if err != nil {
		return inbound.PanelView{}, err
	}

	panel, err := s.current(ctx, orderMatch(order))
	if err != nil {
		return inbound.PanelView{}, err
	}

	return inbound.PanelView{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Panel:       panel,
		Warnings:    nonNil(panel.Warnings()),
	}, nil
}

func (s *PanelService) Save(ctx context.Context, identifier string, panel domain.Panel, actor domain.Actor) (inbound.PanelView, error) {
	order, err := s.orders.GetByIdentifier(ctx, identifier)
	if err != nil {
		return inbound.PanelView{}, err
	}

	panel.Normalize()
	if err := panel.Validate(); err != nil {
		return inbound.PanelView{}, err
	}

	match := orderMatch(order)
	before, err := s.current(ctx, match)
	if err != nil {
		return inbound.PanelView{}, err
	}

	changes, err := domain.DiffPanels(before, panel)
	if err != nil {
		return inbound.PanelView{}, fmt.Errorf("diff panel: %w", err)
	}

	if err := s.panels.SavePanel(ctx, order.ID, panel); err != nil {
		return inbound.PanelView{}, fmt.Errorf("db save panel: %w", err)
	}

	if len(changes) > 0 {
		s.record(ctx, order, changes, actor.OrSystem())
		s.createTasks(ctx, match, order.ID, changes)
	}

	return inbound.PanelView{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Panel:       panel,
		Warnings:    nonNil(panel.Warnings()),
		Changes:     changes,
	}, nil
}

func (s *PanelService) current(ctx context.Context, match identity.Predicate) (domain.Panel, error) {
	p, err := s.panels.GetPanel(ctx, match)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultPanel(), nil
		}
		return domain.Panel{}, fmt.Errorf("db get panel: %w", err)
	}
	p.Normalize()
	return p, nil
}

func (s *PanelService) record(ctx context.Context, order domain.Order, changes []domain.FieldChange, actor domain.Actor) {
	entry := domain.ChangeLog{
		ID:          s.newID(),
		OrderRef:    order.ID,
		OrderNumber: order.Number,
		Actor:       actor,
		Tab:         domain.TabGeneral,
		Changes:     changes,
		AutoSaved:   true,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.changes.InsertChangeLog(ctx, entry); err != nil {
		s.log.ErrorContext(ctx, "change log insert failed",
			slog.String("os_id", order.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, entry); err != nil {
		s.log.WarnContext(ctx, "change publish failed",
			slog.String("os_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *PanelService) createTasks(ctx context.Context, match identity.Predicate, orderID string, changes []domain.FieldChange) {
	rules, err := s.tasks.ListTaskRules(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "task rules load failed", slog.String("error", err.Error()))
		return
	}

	created := make(map[string]bool)
	for _, c := range changes {
		for _, rule := range rules {
			if !rule.Fires(c) || created[rule.TaskTitle] {
				continue
			}

			exists, err := s.tasks.HasPendingTask(ctx, match, rule.TaskTitle)
			if err != nil {
				s.log.ErrorContext(ctx, "pending task lookup failed",
					slog.String("os_id", orderID),
					slog.String("error", err.Error()),
				)
				continue
			}
			if exists {
				continue
			}

			task := domain.Task{
				ID:        s.newID(),
				OrderRef:  orderID,
				Title:     rule.TaskTitle,
				Role:      rule.TaskRole,
				Status:    domain.TaskPending,
				Automatic: true,
				CreatedAt: s.now().UTC(),
			}
			if err := s.tasks.InsertTask(ctx, task); err != nil {
				s.log.ErrorContext(ctx, "task insert failed",
					slog.String("os_id", orderID),
					slog.String("title", rule.TaskTitle),
					slog.String("error", err.Error()),
				)
				continue
			}
			created[rule.TaskTitle] = true
			s.log.InfoContext(ctx, "automatic task created",
				slog.String("os_id", orderID),
				slog.String("title", task.Title),
				slog.String("role", task.Role),
			)
		}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var _ inbound.PanelUseCase = (*PanelService)(nil)
