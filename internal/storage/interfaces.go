package storage

import (
	"context"

	"pumpwatch/internal/domain"
)

// ProviderAuditStore is an append-only log of provider-call outcomes,
// written once per provider HTTP call whatever its outcome.
type ProviderAuditStore interface {
	Insert(ctx context.Context, e domain.ProviderAuditEntry) error

	// Recent returns up to limit most-recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ProviderAuditEntry, error)
}

// ProviderLatencyStore is an append-only time series of provider-call
// latency samples.
type ProviderLatencyStore interface {
	Insert(ctx context.Context, s domain.ProviderLatencySample) error

	// Since returns samples for provider (all providers if empty) recorded
	// at or after since (unix ms).
	Since(ctx context.Context, provider string, since int64) ([]domain.ProviderLatencySample, error)
}
