package clickhouse

import (
	"context"
	"fmt"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// ProviderLatencyStore implements storage.ProviderLatencyStore using
// ClickHouse.
type ProviderLatencyStore struct {
	conn *Conn
}

// NewProviderLatencyStore creates a new ProviderLatencyStore.
func NewProviderLatencyStore(conn *Conn) *ProviderLatencyStore {
	return &ProviderLatencyStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProviderLatencyStore = (*ProviderLatencyStore)(nil)

func (s *ProviderLatencyStore) Insert(ctx context.Context, sample domain.ProviderLatencySample) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO provider_latency (
			provider, operation, latency_ms, occurred_at, timed_out
		) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(
		sample.Provider, sample.Operation, uint64(sample.LatencyMs),
		uint64(sample.OccurredAt), sample.TimedOut,
	); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (s *ProviderLatencyStore) Since(ctx context.Context, provider string, since int64) ([]domain.ProviderLatencySample, error) {
	query := `
		SELECT provider, operation, latency_ms, occurred_at, timed_out
		FROM provider_latency
		WHERE occurred_at >= ? AND (? = '' OR provider = ?)
		ORDER BY occurred_at ASC
	`
	rows, err := s.conn.Query(ctx, query, uint64(since), provider, provider)
	if err != nil {
		return nil, fmt.Errorf("query provider latency: %w", err)
	}
	defer rows.Close()

	var out []domain.ProviderLatencySample
	for rows.Next() {
		var s domain.ProviderLatencySample
		var occurredAt, latencyMs uint64
		if err := rows.Scan(&s.Provider, &s.Operation, &latencyMs, &occurredAt, &s.TimedOut); err != nil {
			return nil, fmt.Errorf("scan provider latency row: %w", err)
		}
		s.LatencyMs = int64(latencyMs)
		s.OccurredAt = int64(occurredAt)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider latency rows: %w", err)
	}
	return out, nil
}
