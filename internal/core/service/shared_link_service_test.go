package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering_ops/internal/core/domain"
)

var linkClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newLinkFixture(ttl time.Duration) (*SharedLinkService, *memLinks) {
	orders := newOrderFixture(sampleOrder())
	repo := newMemLinks()
	svc := NewSharedLinkService(orders.svc, repo, ttl)
	svc.now = fixedClock(linkClock)
	return svc, repo
}

func TestSharedLinkService_CreateAndOpen(t *testing.T) {
	svc, _ := newLinkFixture(24 * time.Hour)

	link, err := svc.Create(context.Background(), orderNumber, "ana")
	require.NoError(t, err)
	assert.Equal(t, orderID, link.OrderRef)
	assert.Equal(t, "ana", link.CreatedBy)
	require.NotNil(t, link.ExpiresAt)
	assert.Equal(t, linkClock.Add(24*time.Hour), *link.ExpiresAt)

	order, err := svc.Open(context.Background(), link.Token)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
}

func TestSharedLinkService_ZeroTTLNeverExpires(t *testing.T) {
	svc, _ := newLinkFixture(0)

	link, err := svc.Create(context.Background(), orderID, "")

	require.NoError(t, err)
	assert.Nil(t, link.ExpiresAt)
	assert.Equal(t, domain.SystemActor.ID, link.CreatedBy)
}

func TestSharedLinkService_Open(t *testing.T) {
	past := linkClock.Add(-time.Minute)
	future := linkClock.Add(time.Minute)

	testCases := map[string]struct {
		link    *domain.SharedLink
		token   string
		wantErr error
	}{
		"unknown token": {token: "nope", wantErr: domain.ErrNotFound},
		"empty token":   {token: "", wantErr: domain.ErrNotFound},
		"expired": {
			link:    &domain.SharedLink{Token: "t1", OrderRef: orderID, ExpiresAt: &past},
			token:   "t1",
			wantErr: domain.ErrExpired,
		},
		"legacy number reference": {
			link:  &domain.SharedLink{Token: "t2", OrderRef: orderNumber, ExpiresAt: &future},
			token: "t2",
		},
		"dangling reference": {
			link:    &domain.SharedLink{Token: "t3", OrderRef: "OS-1999-001"},
			token:   "t3",
			wantErr: domain.ErrNotFound,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			svc, repo := newLinkFixture(time.Hour)
			if tc.link != nil {
				repo.links[tc.link.Token] = *tc.link
			}

			order, err := svc.Open(context.Background(), tc.token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, order.ID)
		})
	}
}

func TestSharedLinkService_ListAndRevoke(t *testing.T) {
	svc, repo := newLinkFixture(time.Hour)
	repo.links["a"] = domain.SharedLink{Token: "a", OrderRef: orderNumber}
	repo.links["b"] = domain.SharedLink{Token: "b", OrderRef: orderID}
	repo.links["c"] = domain.SharedLink{Token: "c", OrderRef: "other"}

	links, err := svc.List(context.Background(), orderNumber)
	require.NoError(t, err)
	assert.Len(t, links, 2)

	require.NoError(t, svc.Revoke(context.Background(), "a"))
	assert.ErrorIs(t, svc.Revoke(context.Background(), "a"), domain.ErrNotFound)
	assert.NotContains(t, repo.links, "a")
}
