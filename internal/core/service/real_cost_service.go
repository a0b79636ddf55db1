package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

type RealCostService struct {
	orders inbound.OrderUseCase
	repo   outbound.RealCostRepository
	now    func() time.Time
	newID  func() string
}

func NewRealCostService(orders inbound.OrderUseCase, repo outbound.RealCostRepository) *RealCostService {
	return &RealCostService{
		orders: orders,
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Set replaces the override for one category of an existing order.
func (s *RealCostService) Set(ctx context.Context, identifier, category string, amountCents int64, note string) (domain.RealCost, error) {
	order, err := s.orders.GetByIdentifier(ctx, identifier)
	if err != nil {
		return domain.RealCost{}, err
	}

	c := domain.RealCost{
		ID:          s.newID(),
		OrderRef:    order.ID,
		Category:    category,
		AmountCents: amountCents,
		Note:        note,
		UpdatedAt:   s.now().UTC(),
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return domain.RealCost{}, err
	}

	saved, err := s.repo.UpsertRealCost(ctx, c)
	if err != nil {
		return domain.RealCost{}, fmt.Errorf("db upsert real cost: %w", err)
	}
	return saved, nil
}

func (s *RealCostService) List(ctx context.Context, identifier string) (inbound.RealCostSummary, error) {
	if identifier == "" {
		return inbound.RealCostSummary{}, domain.ErrNotFound
	}
	canonical, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return inbound.RealCostSummary{}, err
	}

	costs, err := s.repo.ListRealCosts(ctx, match)
	if err != nil {
		return inbound.RealCostSummary{}, fmt.Errorf("db list real costs: %w", err)
	}
	costs = latestPerCategory(costs, canonical)

	return inbound.RealCostSummary{
		OrderID:    canonical,
		Costs:      costs,
		TotalCents: domain.TotalCents(costs),
	}, nil
}

func (s *RealCostService) Remove(ctx context.Context, identifier, category string) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if identifier == "" || category == "" {
		return domain.ErrNotFound
	}
	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRealCost(ctx, match, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("db delete real cost: %w", err)
	}
	return nil
}

// latestPerCategory keeps one row per category, sorted by category. A row
// stored under the surrogate key shadows a legacy row stored under the
// number, as Set only ever writes the former.
func latestPerCategory(costs []domain.RealCost, canonical string) []domain.RealCost {
	byCategory := make(map[string]domain.RealCost, len(costs))
	for _, c := range costs {
		if prev, ok := byCategory[c.Category]; ok && prev.OrderRef == canonical {
			continue
		}
		byCategory[c.Category] = c
	}

	out := make([]domain.RealCost, 0, len(byCategory))
	for _, c := range byCategory {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b domain.RealCost) int {
		return strings.Compare(a.Category, b.Category)
	})
	return out
}

var _ inbound.RealCostUseCase = (*RealCostService)(nil)
