package kafkain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catering_ops/internal/core/domain"
	"catering_ops/internal/core/identity"
)

const validOrder = `{"id":"3f2b8c1e-9a4d-4e7b-8c21-5d6f7a8b9c0d","number":"OS-2024-0001","name":"Gala"}`

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) offsets() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type mockOrders struct {
	mock.Mock
}

func (m *mockOrders) GetByIdentifier(ctx context.Context, identifier string) (domain.Order, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrders) Match(ctx context.Context, identifier string) (string, identity.Predicate, error) {
	args := m.Called(ctx, identifier)
	return args.String(0), args.Get(1).(identity.Predicate), args.Error(2)
}

func (m *mockOrders) Ingest(ctx context.Context, order domain.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrders) Archive(ctx context.Context, identifier string) (domain.Order, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *mockOrders) WarmCache(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

func (m *mockOrders) ListPage(ctx context.Context, page, pageSize int) ([]domain.Order, int, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

type resultRecorder struct {
	mu      sync.Mutex
	results []string
}

func (r *resultRecorder) ObserveMessage(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *resultRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func newTestConsumer(r messageReader, svc *mockOrders, rec *resultRecorder) *Consumer {
	c := newConsumer(r, svc, slog.New(slog.NewTextHandler(io.Discard, nil)), rec)
	c.backoff = time.Millisecond
	return c
}

func TestConsumer_Handle(t *testing.T) {
	testCases := map[string]struct {
		payload    string
		ingestErr  error
		wantCommit bool
		wantResult string
	}{
		"ingested":      {payload: validOrder, wantCommit: true, wantResult: ResultIngested},
		"poison":        {payload: `{"oops":1}`, wantCommit: true, wantResult: ResultPoison},
		"rejected":      {payload: validOrder, ingestErr: fmt.Errorf("%w: taken", domain.ErrInvalid), wantCommit: true, wantResult: ResultPoison},
		"backend error": {payload: validOrder, ingestErr: errors.New("db down"), wantCommit: false, wantResult: ResultRetry},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			reader := &fakeReader{}
			svc := new(mockOrders)
			svc.On("Ingest", mock.Anything, mock.AnythingOfType("domain.Order")).Return(tc.ingestErr).Maybe()
			rec := &resultRecorder{}
			c := newTestConsumer(reader, svc, rec)

			moved := c.handle(context.Background(), kafka.Message{Offset: 7, Value: []byte(tc.payload)})

			assert.Equal(t, tc.wantCommit, moved)
			if tc.wantCommit {
				assert.Equal(t, []int64{7}, reader.offsets())
			} else {
				assert.Empty(t, reader.offsets())
			}
			assert.Equal(t, []string{tc.wantResult}, rec.all())
		})
	}
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte(validOrder)},
		{Offset: 2, Value: []byte(`garbage`)},
	}}
	svc := new(mockOrders)
	svc.On("Ingest", mock.Anything, mock.AnythingOfType("domain.Order")).Return(nil).Once()
	rec := &resultRecorder{}
	c := newTestConsumer(reader, svc, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(reader.offsets()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, []string{ResultIngested, ResultPoison}, rec.all())
	svc.AssertExpectations(t)
}

func TestConsumer_RetriesFailedMessageBeforeMovingOn(t *testing.T) {
	const secondOrder = `{"id":"4f2b8c1e-9a4d-4e7b-8c21-5d6f7a8b9c0d","number":"OS-2024-0002","name":"Cena"}`
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte(validOrder)},
		{Offset: 2, Value: []byte(secondOrder)},
	}}
	first := mock.MatchedBy(func(o domain.Order) bool { return o.Number == "OS-2024-0001" })
	second := mock.MatchedBy(func(o domain.Order) bool { return o.Number == "OS-2024-0002" })
	svc := new(mockOrders)
	svc.On("Ingest", mock.Anything, first).Return(errors.New("db down")).Once()
	svc.On("Ingest", mock.Anything, first).Return(nil).Once()
	svc.On("Ingest", mock.Anything, second).Return(nil).Once()
	rec := &resultRecorder{}
	c := newTestConsumer(reader, svc, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(reader.offsets()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []int64{1, 2}, reader.offsets())
	assert.Equal(t, []string{ResultRetry, ResultIngested, ResultIngested}, rec.all())
	svc.AssertExpectations(t)
}

func TestConsumer_RetryStopsOnCancel(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Offset: 1, Value: []byte(validOrder)}}}
	svc := new(mockOrders)
	svc.On("Ingest", mock.Anything, mock.AnythingOfType("domain.Order")).Return(errors.New("db down"))
	rec := &resultRecorder{}
	c := newTestConsumer(reader, svc, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(rec.all()) >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop while retrying")
	}
	assert.Empty(t, reader.offsets())
}
