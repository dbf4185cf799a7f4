package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
)

func TestProviderLatencyStore_SinceFiltersByProviderAndTimestamp(t *testing.T) {
	store := NewProviderLatencyStore()
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

func TestProviderLatencyStore_SinceEmptyProviderMatchesAll(t *testing.T) {
	store := NewProviderLatencyStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, domain.ProviderLatencySample{Provider: "helius", OccurredAt: 10}))
	require.NoError(t, store.Insert(ctx, domain.ProviderLatencySample{Provider: "birdeye", OccurredAt: 20}))

	got, err := store.Since(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
