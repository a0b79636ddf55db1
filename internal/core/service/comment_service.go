package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

type CommentService struct {
	orders inbound.OrderUseCase
	repo   outbound.CommentRepository
	now    func() time.Time
	newID  func() string
}

func NewCommentService(orders inbound.OrderUseCase, repo outbound.CommentRepository) *CommentService {
	return &CommentService{
		orders: orders,
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Add requires the order to exist and stores the comment under its
// surrogate key.
func (s *CommentService) Add(ctx context.Context, identifier, author, body string) (domain.Comment, error) {
	order, err := s.orders.GetByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Comment{}, err
	}

	c := domain.Comment{
		ID:        s.newID(),
		OrderRef:  order.ID,
		Author:    author,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return domain.Comment{}, err
	}

	if err := s.repo.InsertComment(ctx, c); err != nil {
		return domain.Comment{}, fmt.Errorf("db insert comment: %w", err)
	}
	return c, nil
}

// List and Delete also reach legacy rows keyed by a number that no longer
// resolves, so they do not require the order to exist.
func (s *CommentService) List(ctx context.Context, identifier string) ([]domain.Comment, error) {
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("db list comments: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

func (s *CommentService) Delete(ctx context.Context, identifier, commentID string) error {
	if identifier == "" || commentID == "" {
		return domain.ErrNotFound
	}
	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteComment(ctx, match, commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("db delete comment: %w", err)
	}
	return nil
}

var _ inbound.CommentUseCase = (*CommentService)(nil)
