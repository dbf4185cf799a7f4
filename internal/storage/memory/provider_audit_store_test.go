package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func TestProviderAuditStore_RecentOrdersMostRecentFirst(t *testing.T) {
	store := NewProviderAuditStore()
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		err := store.Insert(ctx, domain.ProviderAuditEntry{
			Provider:   "helius",
			Operation:  "getTokenMetadata",
			Outcome:    domain.ProviderOutcomeOK,
			OccurredAt: i,
		})
		require.NoError(t, err)
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(2), got[0].OccurredAt)
	require.Equal(t, int64(1), got[1].OccurredAt)
	require.Equal(t, int64(0), got[2].OccurredAt)
}

func TestProviderAuditStore_RecentRespectsLimit(t *testing.T) {
	store := NewProviderAuditStore()
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		require.NoError(t, store.Insert(ctx, domain.ProviderAuditEntry{
			Provider:   "birdeye",
			Outcome:    domain.ProviderOutcomeTimeout,
			OccurredAt: i,
		}))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(4), got[0].OccurredAt)
	require.Equal(t, int64(3), got[1].OccurredAt)
}

func TestProviderAuditStore_RecentZeroLimitReturnsAll(t *testing.T) {
	store := NewProviderAuditStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, domain.ProviderAuditEntry{Provider: "helius"}))
	require.NoError(t, store.Insert(ctx, domain.ProviderAuditEntry{Provider: "birdeye"}))

	got, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
