package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/storage/memory"
)

func TestRecorder_RecordAuditWritesToStore(t *testing.T) {
	audit := memory.NewProviderAuditStore()
	rec := New(audit, nil, nil)

	rec.RecordAudit(context.Background(), "helius", "getTokenMetadata", "ok", 0)

	require.Eventually(t, func() bool {
		got, err := audit.Recent(context.Background(), 10)
		return err == nil && len(got) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRecorder_RecordLatencyWritesToStore(t *testing.T) {
	latency := memory.NewProviderLatencyStore()
	rec := New(nil, latency, nil)

	rec.RecordLatency(context.Background(), "birdeye", "getPrice", 42, false)

	require.Eventually(t, func() bool {
		got, err := latency.Since(context.Background(), "birdeye", 0)
		return err == nil && len(got) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRecorder_NilStoresAreNoop(t *testing.T) {
	rec := New(nil, nil, nil)
	rec.RecordAudit(context.Background(), "helius", "op", "ok", 0)
	rec.RecordLatency(context.Background(), "helius", "op", 10, false)
}
