package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// ProviderAuditStore implements storage.ProviderAuditStore using PostgreSQL.
type ProviderAuditStore struct {
	pool *Pool
}

// NewProviderAuditStore creates a new ProviderAuditStore.
func NewProviderAuditStore(pool *Pool) *ProviderAuditStore {
	return &ProviderAuditStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProviderAuditStore = (*ProviderAuditStore)(nil)

func (s *ProviderAuditStore) Insert(ctx context.Context, e domain.ProviderAuditEntry) error {
	query := `
		INSERT INTO provider_audit_log (
			provider, operation, outcome, key_index_used, occurred_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, e.Provider, e.Operation, string(e.Outcome), e.KeyIndexUsed, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert provider audit entry: %w", err)
	}
	return nil
}

func (s *ProviderAuditStore) Recent(ctx context.Context, limit int) ([]domain.ProviderAuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT provider, operation, outcome, key_index_used, occurred_at
		FROM provider_audit_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query provider audit log: %w", err)
	}
	defer rows.Close()

	return scanProviderAuditEntries(rows)
}

func scanProviderAuditEntries(rows pgx.Rows) ([]domain.ProviderAuditEntry, error) {
	var out []domain.ProviderAuditEntry
	for rows.Next() {
		var e domain.ProviderAuditEntry
		var outcome string
		if err := rows.Scan(&e.Provider, &e.Operation, &outcome, &e.KeyIndexUsed, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan provider audit row: %w", err)
		}
		e.Outcome = domain.ProviderAuditOutcome(outcome)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provider audit rows: %w", err)
	}
	return out, nil
}
