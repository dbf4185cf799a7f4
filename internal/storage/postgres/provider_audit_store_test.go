package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func TestProviderAuditStore_InsertAndRecent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProviderAuditStore(pool)
	ctx := context.Background()

	entries := []domain.ProviderAuditEntry{
		{Provider: "helius", Operation: "getTokenMetadata", Outcome: domain.ProviderOutcomeOK, KeyIndexUsed: 0, OccurredAt: 1},
		{Provider: "helius", Operation: "getHolders", Outcome: domain.ProviderOutcomeTimeout, KeyIndexUsed: 1, OccurredAt: 2},
		{Provider: "birdeye", Operation: "getPrice", Outcome: domain.ProviderOutcomeUnauthorized, KeyIndexUsed: 0, OccurredAt: 3},
	}
	for _, e := range entries {
		require.NoError(t, store.Insert(ctx, e))
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(3), got[0].OccurredAt)
	require.Equal(t, domain.ProviderOutcomeUnauthorized, got[0].Outcome)
	require.Equal(t, "birdeye", got[0].Provider)
}

func TestProviderAuditStore_RecentDefaultsLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProviderAuditStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, domain.ProviderAuditEntry{
		Provider: "helius", Operation: "getTokenMetadata", Outcome: domain.ProviderOutcomeOK, OccurredAt: 1,
	}))

	got, err := store.Recent(ctx, -5)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
