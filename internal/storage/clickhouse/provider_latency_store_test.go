package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func TestProviderLatencyStore_InsertAndSince(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewProviderLatencyStore(conn)
	ctx := context.Background()

	samples := []domain.ProviderLatencySample{
		{Provider: "helius", Operation: "getTokenMetadata", LatencyMs: 120, OccurredAt: 100},
		{Provider: "birdeye", Operation: "getPrice", LatencyMs: 80, OccurredAt: 150},
		{Provider: "helius", Operation: "getHolders", LatencyMs: 300, OccurredAt: 200, TimedOut: true},
	}
	for _, s := range samples {
		require.NoError(t, store.Insert(ctx, s))
	}

	got, err := store.Since(ctx, "helius", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = store.Since(ctx, "", 160)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "helius", got[0].Provider)
	require.True(t, got[0].TimedOut)
}
