// Package monitor implements the Token Monitor: it owns the bounded token
// history, runs the one-shot backfill then the live migration subscription,
// scores every enriched record, and publishes lifecycle events to its bus.
package monitor

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrich"
	"pumpwatch/internal/migrationsource"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/providers"
	"pumpwatch/internal/scoring"
)

const (
	backfillLimit       = 40
	backfillBatchSize   = 5
	backfillBatchDelay  = 500 * time.Millisecond
	backfillPerTokenCap = 8 * time.Second
)

// Options wires the Monitor to its dependencies.
type Options struct {
	Graduated    *providers.GraduatedTokenIndex
	Price        *providers.PriceOracle
	Source       *migrationsource.Source
	Orchestrator *enrich.Orchestrator
	ScoringCfg   scoring.Config
	Log          *log.Logger
}

// Monitor is the Token Monitor.
type Monitor struct {
	graduated *providers.GraduatedTokenIndex
	price     *providers.PriceOracle
	source    *migrationsource.Source
	orch      *enrich.Orchestrator
	cfg       scoring.Config
	log       *log.Logger

	bus     *Bus
	history *history

	running    atomic.Bool
	loaded     atomic.Bool
	statsMu    sync.Mutex
	stats      domain.MonitorStats

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Monitor. It does not start it.
func New(opts Options) *Monitor {
	logger := opts.Log
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{
		graduated: opts.Graduated,
		price:     opts.Price,
		source:    opts.Source,
		orch:      opts.Orchestrator,
		cfg:       opts.ScoringCfg,
		log:       logger,
		bus:       NewBus(logger),
		history:   newHistory(),
	}
}

// Bus exposes the Monitor's event bus.
func (m *Monitor) Bus() *Bus { return m.bus }

// Running reports whether Start has run and Stop has not yet been called.
func (m *Monitor) Running() bool { return m.running.Load() }

// InitialLoadComplete reports whether the one-shot backfill has finished.
func (m *Monitor) InitialLoadComplete() bool { return m.loaded.Load() }

// ScoringConfig returns the Scoring Engine configuration the Monitor scores with.
func (m *Monitor) ScoringConfig() scoring.Config { return m.cfg }

// Stats returns a snapshot of the running counters.
func (m *Monitor) Stats() domain.MonitorStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Recent returns up to n most-recent records, newest last.
func (m *Monitor) Recent(n int) []domain.TokenRecord { return m.history.recent(n) }

// List returns records matching passed (nil = all), newest first, bounded
// to limit (0 = unbounded).
func (m *Monitor) List(passed *bool, limit int) []domain.TokenRecord {
	return m.history.list(passed, limit)
}

// Get returns the record for address, if present.
func (m *Monitor) Get(address string) (domain.TokenRecord, bool) {
	return m.history.get(address)
}

// Start primes the SOL price cache, runs the one-shot backfill, then
// subscribes to the live migration source. Idempotent: a second call while
// already running is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	if m.running.Swap(true) {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if m.price != nil {
			m.price.GetSolPriceUSD(runCtx)
		}
		backfillStart := time.Now()
		m.backfill(runCtx)
		observability.RecordBackfillDuration(time.Since(backfillStart).Seconds())
		m.loaded.Store(true)
		m.live(runCtx)
	}()
}

// Stop disconnects the migration source and idles the Monitor. Idempotent.
func (m *Monitor) Stop() {
	if !m.running.Swap(false) {
		return
	}
	if m.source != nil {
		m.source.Stop()
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.bus.Publish(Event{Kind: EventStopped})
}

// backfill seeds history from the graduated-token index, enriching each in
// fast mode under a hard per-token cap, throttled in small batches so it
// never hammers providers on process start.
func (m *Monitor) backfill(ctx context.Context) {
	if m.graduated == nil {
		m.bus.Publish(Event{Kind: EventHistoryLoaded, Count: 0})
		return
	}

	tokens := m.graduated.List(ctx, backfillLimit)
	m.bus.Publish(Event{Kind: EventLoadingHistory, Count: len(tokens)})

	count := 0
	for start := 0; start < len(tokens); start += backfillBatchSize {
		if ctx.Err() != nil {
			break
		}
		end := start + backfillBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		var wg sync.WaitGroup
		for _, tok := range batch {
			wg.Add(1)
			go func(tok providers.GraduatedToken) {
				defer wg.Done()
				m.processBackfillToken(ctx, tok)
			}(tok)
		}
		wg.Wait()
		count += len(batch)

		if end < len(tokens) {
			select {
			case <-time.After(backfillBatchDelay):
			case <-ctx.Done():
				break
			}
		}
	}

	m.bus.Publish(Event{Kind: EventHistoryLoaded, Count: count})
}

func (m *Monitor) processBackfillToken(ctx context.Context, tok providers.GraduatedToken) {
	event := m.synthesizeEvent(ctx, tok)

	tctx, cancel := context.WithTimeout(ctx, backfillPerTokenCap)
	defer cancel()

	done := make(chan domain.TokenRecord, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.log.Printf("backfill enrichment panicked for %s: %v", tok.Mint, r)
			}
		}()
		if m.orch != nil {
			done <- m.orch.Enrich(tctx, event, enrich.ModeFast)
		}
	}()

	select {
	case record := <-done:
		m.scoreAndPublish(record)
	case <-tctx.Done():
		m.log.Printf("backfill: skipping %s, enrichment exceeded %s", tok.Mint, backfillPerTokenCap)
	}
}

// synthesizeEvent builds a MigrationEvent from a graduated-token listing
// row, per the marketCap fallback rule: fullyDilutedValuation when present,
// else marketCapSol converted via the price oracle.
func (m *Monitor) synthesizeEvent(ctx context.Context, tok providers.GraduatedToken) domain.MigrationEvent {
	event := domain.MigrationEvent{
		Mint:      tok.Mint,
		Name:      tok.Name,
		Symbol:    tok.Symbol,
		Pool:      tok.PairAddress,
		Timestamp: tok.GraduatedAt,
	}

	switch {
	case tok.FullyDilutedValuation > 0:
		mc := tok.FullyDilutedValuation
		event.MarketCap = &mc
	case tok.MarketCapSol != nil && m.price != nil:
		if usd, ok := m.price.SolToUSD(ctx, *tok.MarketCapSol); ok {
			event.MarketCap = &usd
		}
	}

	if tok.Liquidity > 0 {
		liq := tok.Liquidity
		event.Liquidity = &liq
	}

	return event
}

// live subscribes to the migration source and enriches every event in full
// mode, forwarding connection lifecycle signals onto the Monitor's own bus.
func (m *Monitor) live(ctx context.Context) {
	if m.source == nil {
		return
	}

	unsubscribe := m.source.Bus().Subscribe(func(ev migrationsource.Event) {
		switch ev.Kind {
		case migrationsource.EventConnected:
			m.bus.Publish(Event{Kind: EventConnected})
		case migrationsource.EventDisconnected:
			m.bus.Publish(Event{Kind: EventDisconnected})
		case migrationsource.EventError:
			m.bus.Publish(Event{Kind: EventError, Err: ev.Err})
		case migrationsource.EventMigration:
			m.handleLiveMigration(ctx, ev.Migration)
		}
	})
	defer unsubscribe()

	m.source.Start(ctx)
	<-ctx.Done()
}

func (m *Monitor) handleLiveMigration(ctx context.Context, frame migrationsource.MigrationFrame) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Printf("live enrichment panicked for %s: %v", frame.Mint, r)
		}
	}()

	event := domain.MigrationEvent{
		Mint:      frame.Mint,
		Signature: frame.Signature,
		Name:      frame.Name,
		Symbol:    frame.Symbol,
		URI:       frame.URI,
		Pool:      frame.Pool,
		Timestamp: time.Now().UnixMilli(),
		Creator:   frame.Creator,
	}
	if frame.MarketCapSol != nil {
		if usd, ok := m.source.ResolveMarketCapUSD(ctx, frame); ok {
			event.MarketCap = &usd
		}
	}

	if m.orch == nil {
		return
	}
	record := m.orch.Enrich(ctx, event, enrich.ModeFull)
	m.scoreAndPublish(record)
}

// scoreAndPublish runs the Scoring Engine, inserts the record into history
// (removing any stale prior version for the same mint), updates the running
// counters, and publishes the resulting events.
func (m *Monitor) scoreAndPublish(record domain.TokenRecord) {
	if record.Address == "" {
		return
	}
	record.Analysis = scoring.Score(record, m.cfg)

	m.history.insert(record)
	observability.UpdateHistorySize(m.history.len())
	observability.RecordTokenScored(record.Analysis.Passed)

	m.statsMu.Lock()
	m.stats.Monitored++
	if record.Analysis.Passed {
		m.stats.Passed++
	} else {
		m.stats.Filtered++
	}
	stats := m.stats
	m.statsMu.Unlock()

	if record.Analysis.Passed {
		m.bus.Publish(Event{Kind: EventTokenPassed, Record: record, Stats: stats})
	} else {
		m.bus.Publish(Event{Kind: EventTokenFiltered, Record: record, Stats: stats})
	}
	m.bus.Publish(Event{Kind: EventTokenAnalyzed, Record: record, Stats: stats})
}
