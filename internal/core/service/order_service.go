package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
	"catering_ops/internal/ports/inbound"
	"catering_ops/internal/ports/outbound"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

type OrderService struct {
	repo        outbound.OrderRepository
	cache       outbound.OrderCache
	resolver    inbound.IdentifierResolver
	resolutions outbound.ResolutionCache
	now         func() time.Time
}

// NewOrderService wires the order use case. resolutions is the cache behind
// the resolver, if any; it is invalidated when a number stops pointing at
// an order.
func NewOrderService(repo outbound.OrderRepository, cache outbound.OrderCache, resolver inbound.IdentifierResolver, resolutions outbound.ResolutionCache) *OrderService {
	return &OrderService{
		repo:        repo,
		cache:       cache,
		resolver:    resolver,
		resolutions: resolutions,
		now:         time.Now,
	}
}

func (s *OrderService) Ingest(ctx context.Context, order domain.Order) error {
	order.Normalize()
	if err := order.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	prev, err := s.repo.GetByID(ctx, order.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("db get: %w", err)
	}

	if err := s.repo.Upsert(ctx, order); err != nil {
		return fmt.Errorf("db upsert: %w", err)
	}

	if prev.Number != "" && (prev.Number != order.Number || order.Archived()) {
		s.forgetNumber(ctx, prev.Number)
	}
	if order.Archived() {
		s.forgetNumber(ctx, order.Number)
	}

	s.cache.Set(ctx, order)
	return nil
}

// GetByIdentifier accepts either the surrogate key or the human number.
func (s *OrderService) GetByIdentifier(ctx context.Context, identifier string) (domain.Order, error) {
	if identifier == "" {
		return domain.Order{}, domain.ErrNotFound
	}

	id, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return domain.Order{}, err
	}
	return s.getByID(ctx, foldKey(id))
}

// Match resolves identifier and returns the canonical key with the
// either-form predicate. A known order contributes its own number, so a
// caller holding only the key still reaches rows stored under the number.
// An unknown identifier yields a predicate over what the caller passed.
func (s *OrderService) Match(ctx context.Context, identifier string) (string, identity.Predicate, error) {
	if identifier == "" {
		return "", identity.Predicate{}, domain.ErrNotFound
	}

	canonical, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return "", identity.Predicate{}, err
	}
	canonical = foldKey(canonical)

	order, err := s.getByID(ctx, canonical)
	switch {
	case err == nil:
		return order.ID, orderMatch(order), nil
	case errors.Is(err, domain.ErrNotFound):
		return canonical, identity.BuildOrPredicate(foldKey(identifier), canonical), nil
	default:
		return "", identity.Predicate{}, err
	}
}

// orderMatch covers rows written under either the key or the current number.
func orderMatch(o domain.Order) identity.Predicate {
	if o.Number == "" {
		return identity.BuildOrPredicate(o.ID, o.ID)
	}
	return identity.BuildOrPredicate(o.Number, o.ID)
}

// foldKey lowercases surrogate-shaped input; os_id columns are TEXT and
// keys are stored in lowercase.
func foldKey(id string) string {
	if identity.IsSurrogateShape(id) {
		return strings.ToLower(id)
	}
	return id
}

func (s *OrderService) getByID(ctx context.Context, id string) (domain.Order, error) {
	// an unresolved human number cannot match the uuid primary key
	if !identity.IsSurrogateShape(id) {
		return domain.Order{}, domain.ErrNotFound
	}

	if o, ok := s.cache.Get(ctx, id); ok {
		return o, nil
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("db get: %w", err)
	}

	s.cache.Set(ctx, o)
	return o, nil
}

func (s *OrderService) Archive(ctx context.Context, identifier string) (domain.Order, error) {
	o, err := s.GetByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Archived() {
		return o, nil
	}

	archived, err := s.repo.Archive(ctx, o.ID, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("db archive: %w", err)
	}

	s.forgetNumber(ctx, o.Number)
	s.cache.Set(ctx, archived)
	return archived, nil
}

func (s *OrderService) forgetNumber(ctx context.Context, number string) {
	if s.resolutions != nil && number != "" {
		s.resolutions.Delete(ctx, number)
	}
}

func (s *OrderService) WarmCache(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	orders, err := s.repo.ListLatest(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("db list latest: %w", err)
	}

	s.cache.BulkSet(ctx, orders)
	return len(orders), nil
}

func (s *OrderService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	offset := (page - 1) * pageSize

	total, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("db count: %w", err)
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	ids, err := s.repo.ListOrderIDs(ctx, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db list ids: %w", err)
	}

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.getByID(ctx, id)
		if err != nil {
			continue
		}
		orders = append(orders, o)
	}
	return orders, total, nil
}

var _ inbound.OrderUseCase = (*OrderService)(nil)
