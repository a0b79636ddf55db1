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

type SharedLinkService struct {
	orders   inbound.OrderUseCase
	repo     outbound.SharedLinkRepository
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

// NewSharedLinkService issues links valid for ttl; zero means they never
// expire.
func NewSharedLinkService(orders inbound.OrderUseCase, repo outbound.SharedLinkRepository, ttl time.Duration) *SharedLinkService {
	return &SharedLinkService{
		orders:   orders,
		repo:     repo,
		ttl:      ttl,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

func (s *SharedLinkService) Create(ctx context.Context, identifier, createdBy string) (domain.SharedLink, error) {
	order, err := s.orders.GetByIdentifier(ctx, identifier)
	if err != nil {
		return domain.SharedLink{}, err
	}

	now := s.now().UTC()
	link := domain.SharedLink{
		Token:     s.newToken(),
		OrderRef:  order.ID,
		CreatedBy: domain.Actor{ID: createdBy}.OrSystem().ID,
		CreatedAt: now,
	}
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		link.ExpiresAt = &exp
	}

	if err := s.repo.InsertSharedLink(ctx, link); err != nil {
		return domain.SharedLink{}, fmt.Errorf("db insert shared link: %w", err)
	}
	return link, nil
}

// Open returns the order behind a token. Links stored before the surrogate
// key was written hold the human number, so the stored reference is
// resolved like any other identifier.
func (s *SharedLinkService) Open(ctx context.Context, token string) (domain.Order, error) {
	link, err := s.get(ctx, token)
	if err != nil {
		return domain.Order{}, err
	}
	if link.Expired(s.now()) {
		return domain.Order{}, domain.ErrExpired
	}
	return s.orders.GetByIdentifier(ctx, link.OrderRef)
}

func (s *SharedLinkService) List(ctx context.Context, identifier string) ([]domain.SharedLink, error) {
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	_, match, err := s.orders.Match(ctx, identifier)
	if err != nil {
		return nil, err
	}

	links, err := s.repo.ListSharedLinks(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("db list shared links: %w", err)
	}
	if links == nil {
		links = []domain.SharedLink{}
	}
	return links, nil
}

func (s *SharedLinkService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrNotFound
	}
	if err := s.repo.DeleteSharedLink(ctx, token); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("db delete shared link: %w", err)
	}
	return nil
}

func (s *SharedLinkService) get(ctx context.Context, token string) (domain.SharedLink, error) {
	if token == "" {
		return domain.SharedLink{}, domain.ErrNotFound
	}
	link, err := s.repo.GetSharedLink(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.SharedLink{}, domain.ErrNotFound
		}
		return domain.SharedLink{}, fmt.Errorf("db get shared link: %w", err)
	}
	return link, nil
}

var _ inbound.SharedLinkUseCase = (*SharedLinkService)(nil)
