package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
)

var errBackend = errors.New("connection refused")

const anyCtx = mock.Anything

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) FindActiveIDByNumber(ctx context.Context, number string) (string, error) {
	args := m.Called(ctx, number)
	return args.String(0), args.Error(1)
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []identity.Outcome
}

func (r *outcomeRecorder) ObserveResolution(o identity.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *outcomeRecorder) all() []identity.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.outcomes)
}

type memOrders struct {
	mu      sync.Mutex
	orders  map[string]domain.Order
	lookups int
	getErr  error
	findErr error

	lastLimit int
}

func newMemOrders(orders ...domain.Order) *memOrders {
	m := &memOrders{orders: make(map[string]domain.Order)}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *memOrders) FindActiveIDByNumber(_ context.Context, number string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.findErr != nil {
		return "", m.findErr
	}
	for _, o := range m.orders {
		if o.Number == number && !o.Archived() {
			return o.ID, nil
		}
	}
	return "", domain.ErrNotFound
}

func (m *memOrders) Upsert(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.Order{}, m.getErr
	}
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) Archive(_ context.Context, id string, at time.Time) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	o.ArchivedAt = &at
	m.orders[id] = o
	return o, nil
}

func (m *memOrders) ListLatest(_ context.Context, limit int) ([]domain.Order, error) {
	ids, _ := m.ListOrderIDs(context.Background(), limit, 0)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.orders[id])
	}
	return out, nil
}

func (m *memOrders) ListOrderIDs(_ context.Context, limit, offset int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	ids := make([]string, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	if offset >= len(ids) {
		return []string{}, nil
	}
	ids = ids[offset:]
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *memOrders) CountOrders(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

type memOrderCache struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemOrderCache() *memOrderCache {
	return &memOrderCache{orders: make(map[string]domain.Order)}
}

func (c *memOrderCache) Get(_ context.Context, id string) (domain.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.orders[id]
	return o, ok
}

func (c *memOrderCache) Set(_ context.Context, o domain.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders[o.ID] = o
}

func (c *memOrderCache) BulkSet(ctx context.Context, orders []domain.Order) {
	for _, o := range orders {
		c.Set(ctx, o)
	}
}

func (c *memOrderCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.orders, id)
}

func (c *memOrderCache) Len(context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.orders)
}

type memResolutions struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemResolutions() *memResolutions {
	return &memResolutions{entries: make(map[string]string)}
}

func (c *memResolutions) Get(_ context.Context, number string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.entries[number]
	return id, ok
}

func (c *memResolutions) Set(_ context.Context, number, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[number] = id
}

func (c *memResolutions) Delete(_ context.Context, number string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, number)
}

type memPanels struct {
	panels  map[string]domain.Panel
	saveErr error
}

func newMemPanels() *memPanels { return &memPanels{panels: make(map[string]domain.Panel)} }

func (m *memPanels) GetPanel(_ context.Context, match identity.Predicate) (domain.Panel, error) {
	if p, ok := m.panels[match.Resolved]; ok {
		return p, nil
	}
	if p, ok := m.panels[match.Original]; ok {
		return p, nil
	}
	return domain.Panel{}, domain.ErrNotFound
}

func (m *memPanels) SavePanel(_ context.Context, orderID string, p domain.Panel) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.panels[orderID] = p
	return nil
}

type memChangeLogs struct {
	logs      []domain.ChangeLog
	insertErr error
	lastLimit int
}

func (m *memChangeLogs) InsertChangeLog(_ context.Context, l domain.ChangeLog) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.logs = append(m.logs, l)
	return nil
}

func (m *memChangeLogs) ListChangeLogs(_ context.Context, match identity.Predicate, limit int) ([]domain.ChangeLog, error) {
	m.lastLimit = limit
	var out []domain.ChangeLog
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if match.Matches(m.logs[i].OrderRef) {
			out = append(out, m.logs[i])
		}
	}
	return out, nil
}

type memComments struct {
	comments []domain.Comment
}

func (m *memComments) InsertComment(_ context.Context, c domain.Comment) error {
	m.comments = append(m.comments, c)
	return nil
}

func (m *memComments) ListComments(_ context.Context, match identity.Predicate) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range m.comments {
		if match.Matches(c.OrderRef) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memComments) DeleteComment(_ context.Context, match identity.Predicate, id string) error {
	for i, c := range m.comments {
		if c.ID == id && match.Matches(c.OrderRef) {
			m.comments = slices.Delete(m.comments, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memRealCosts struct {
	costs []domain.RealCost
}

func (m *memRealCosts) UpsertRealCost(_ context.Context, c domain.RealCost) (domain.RealCost, error) {
	for i, existing := range m.costs {
		if existing.OrderRef == c.OrderRef && existing.Category == c.Category {
			c.ID = existing.ID
			m.costs[i] = c
			return c, nil
		}
	}
	m.costs = append(m.costs, c)
	return c, nil
}

func (m *memRealCosts) ListRealCosts(_ context.Context, match identity.Predicate) ([]domain.RealCost, error) {
	var out []domain.RealCost
	for _, c := range m.costs {
		if match.Matches(c.OrderRef) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memRealCosts) DeleteRealCost(_ context.Context, match identity.Predicate, category string) error {
	n := len(m.costs)
	m.costs = slices.DeleteFunc(m.costs, func(c domain.RealCost) bool {
		return c.Category == category && match.Matches(c.OrderRef)
	})
	if len(m.costs) == n {
		return domain.ErrNotFound
	}
	return nil
}

type memLinks struct {
	links map[string]domain.SharedLink
}

func newMemLinks() *memLinks { return &memLinks{links: make(map[string]domain.SharedLink)} }

func (m *memLinks) InsertSharedLink(_ context.Context, l domain.SharedLink) error {
	m.links[l.Token] = l
	return nil
}

func (m *memLinks) GetSharedLink(_ context.Context, token string) (domain.SharedLink, error) {
	l, ok := m.links[token]
	if !ok {
		return domain.SharedLink{}, domain.ErrNotFound
	}
	return l, nil
}

func (m *memLinks) ListSharedLinks(_ context.Context, match identity.Predicate) ([]domain.SharedLink, error) {
	var out []domain.SharedLink
	for _, l := range m.links {
		if match.Matches(l.OrderRef) {
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b domain.SharedLink) int { return strings.Compare(a.Token, b.Token) })
	return out, nil
}

func (m *memLinks) DeleteSharedLink(_ context.Context, token string) error {
	if _, ok := m.links[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.links, token)
	return nil
}

type memTasks struct {
	rules    []domain.TaskRule
	tasks    []domain.Task
	rulesErr error
}

func (m *memTasks) ListTaskRules(context.Context) ([]domain.TaskRule, error) {
	return m.rules, m.rulesErr
}

func (m *memTasks) HasPendingTask(_ context.Context, match identity.Predicate, title string) (bool, error) {
	for _, t := range m.tasks {
		if t.Title == title && t.Status == domain.TaskPending && match.Matches(t.OrderRef) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTasks) InsertTask(_ context.Context, t domain.Task) error {
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *memTasks) ListTasks(_ context.Context, match identity.Predicate) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range m.tasks {
		if match.Matches(t.OrderRef) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memPublisher struct {
	published []domain.ChangeLog
	err       error
}

func (p *memPublisher) PublishChange(_ context.Context, l domain.ChangeLog) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, l)
	return nil
}

const (
	orderID     = "3f2b8c1e-9a4d-4e7b-8c21-5d6f7a8b9c0d"
	orderNumber = "OS-2024-0001"
)

func sampleOrder() domain.Order {
	return domain.Order{
		ID:     orderID,
		Number: orderNumber,
		Name:   "Boda Martínez",
		Status: domain.StatusConfirmed,
		Guests: 120,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
