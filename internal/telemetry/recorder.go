// Package telemetry adapts the provider audit and latency stores to the
// providers.Recorder interface, and fans each call out to both stores
// without blocking the caller.
package telemetry

import (
	"context"
	"log"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
	"pumpwatch/internal/storage"
)

// Compile-time interface check.
var _ providers.Recorder = (*Recorder)(nil)

// Recorder implements providers.Recorder over a ProviderAuditStore and a
// ProviderLatencyStore. Either store may be nil, in which case writes to it
// are skipped.
type Recorder struct {
	audit   storage.ProviderAuditStore
	latency storage.ProviderLatencyStore
	log     *log.Logger
}

// New builds a Recorder. audit and latency may be nil independently.
func New(audit storage.ProviderAuditStore, latency storage.ProviderLatencyStore, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{audit: audit, latency: latency, log: logger}
}

// RecordAudit writes one provider_audit_log row. Insert runs in its own
// goroutine so a slow or unavailable audit store never adds latency to the
// provider call it is recording.
func (r *Recorder) RecordAudit(_ context.Context, provider, operation, outcome string, keyIndex int) {
	if r.audit == nil {
		return
	}
	entry := domain.ProviderAuditEntry{
		Provider:     provider,
		Operation:    operation,
		Outcome:      domain.ProviderAuditOutcome(outcome),
		KeyIndexUsed: keyIndex,
		OccurredAt:   time.Now().UnixMilli(),
	}
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.audit.Insert(writeCtx, entry); err != nil {
			r.log.Printf("telemetry: provider audit insert failed: %v", err)
		}
	}()
}

// RecordLatency writes one provider_latency row, also fired off-path.
func (r *Recorder) RecordLatency(_ context.Context, provider, operation string, latencyMs int64, timedOut bool) {
	if r.latency == nil {
		return
	}
	sample := domain.ProviderLatencySample{
		Provider:   provider,
		Operation:  operation,
		LatencyMs:  latencyMs,
		OccurredAt: time.Now().UnixMilli(),
		TimedOut:   timedOut,
	}
	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.latency.Insert(writeCtx, sample); err != nil {
			r.log.Printf("telemetry: provider latency insert failed: %v", err)
		}
	}()
}
