package service

import (
	"context"
	"fmt"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

const (
	DefaultChangeLogLimit = 50
	MaxChangeLogLimit     = 500
)

type ChangeLogService struct {
	orders inbound.OrderMatcher
	repo   outbound.ChangeLogRepository
}

func NewChangeLogService(orders inbound.OrderMatcher, repo outbound.ChangeLogRepository) *ChangeLogService {
	return &ChangeLogService{orders: orders, repo: repo}
}

// List returns the newest entries first. Rows written under either the
// surrogate key or the human number are included.
func (s *ChangeLogService) List(ctx context.Context, identifier string, limit int) ([]domain.ChangeLog, error) {
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 {
		limit = DefaultChangeLogLimit
	}
	if limit > MaxChangeLogLimit {
		limit = MaxChangeLogLimit
	}

	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.ListChangeLogs(ctx, match, limit)
	if err != nil {
		return nil, fmt.Errorf("db list change logs: %w", err)
	}
	if logs == nil {
		logs = []domain.ChangeLog{}
	}
	return logs, nil
}

var _ inbound.ChangeLogUseCase = (*ChangeLogService)(nil)
