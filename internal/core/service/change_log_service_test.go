package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering_ops/internal/core/domain"
)

func TestChangeLogService_ListIncludesLegacyRows(t *testing.T) {
	repo := &memChangeLogs{logs: []domain.ChangeLog{
		{ID: "legacy", OrderRef: orderNumber},
		{ID: "other", OrderRef: "OS-2024-0002"},
		{ID: "current", OrderRef: orderID},
	}}
	svc := NewChangeLogService(newOrderFixture(sampleOrder()).svc, repo)

	for _, identifier := range []string{orderNumber, orderID, strings.ToUpper(orderID)} {
		t.Run(identifier, func(t *testing.T) {
			logs, err := svc.List(context.Background(), identifier, 0)

			require.NoError(t, err)
			ids := make([]string, 0, len(logs))
			for _, l := range logs {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, []string{"current", "legacy"}, ids)
		})
	}
}

func TestChangeLogService_Limit(t *testing.T) {
	testCases := map[string]struct {
		limit int
		want  int
	}{
		"default":   {limit: 0, want: DefaultChangeLogLimit},
		"negative":  {limit: -3, want: DefaultChangeLogLimit},
		"explicit":  {limit: 10, want: 10},
		"capped":    {limit: 10_000, want: MaxChangeLogLimit},
		"max bound": {limit: MaxChangeLogLimit, want: MaxChangeLogLimit},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			repo := &memChangeLogs{}
			svc := NewChangeLogService(newOrderFixture().svc, repo)

			logs, err := svc.List(context.Background(), orderID, tc.limit)

			require.NoError(t, err)
			assert.NotNil(t, logs)
			assert.Equal(t, tc.want, repo.lastLimit)
		})
	}
}

func TestChangeLogService_ResolveFailure(t *testing.T) {
	orders := newOrderFixture(sampleOrder())
	orders.repo.findErr = errBackend
	svc := NewChangeLogService(orders.svc, &memChangeLogs{})

	_, err := svc.List(context.Background(), orderNumber, 0)

	assert.ErrorIs(t, err, errBackend)
}

func TestChangeLogService_EmptyIdentifier(t *testing.T) {
	svc := NewChangeLogService(newOrderFixture().svc, &memChangeLogs{})

	_, err := svc.List(context.Background(), "", 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
