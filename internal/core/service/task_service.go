package service

import (
	"context"
	"fmt"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

// TaskService lists the tasks of an order, automatic ones included.
type TaskService struct {
	orders inbound.OrderMatcher
	repo   outbound.TaskRepository
}

func NewTaskService(orders inbound.OrderMatcher, repo outbound.TaskRepository) *TaskService {
	return &TaskService{orders: orders, repo: repo}
}

func (s *TaskService) List(ctx context.Context, identifier string) ([]domain.Task, error) {
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("db list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

var _ inbound.TaskUseCase = (*TaskService)(nil)
