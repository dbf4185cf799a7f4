// Command server runs the pump.fun graduation ingestion, scoring, and
// streaming pipeline: it wires the provider clients, the Enrichment
// Orchestrator, the Migration Source, the Token Monitor, the SSE Gateway,
// and the JSON HTTP API into one process, then serves them over HTTP until
// a termination signal arrives.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pumpwatch/internal/config"
	"pumpwatch/internal/enrich"
	"pumpwatch/internal/gateway"
	"pumpwatch/internal/httpapi"
	"pumpwatch/internal/migrationsource"
	"pumpwatch/internal/monitor"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/providers"
	"pumpwatch/internal/solana"
	"pumpwatch/internal/storage"
	"pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/memory"
	"pumpwatch/internal/storage/postgres"
	"pumpwatch/internal/telemetry"
)

// shutdownDrain bounds how long in-flight enrichments get to finish once a
// termination signal arrives.
const shutdownDrain = 5 * time.Second

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditStore, latencyStore, closeStores := openTelemetryStores(ctx, cfg, logger)
	defer closeStores()

	rec := telemetry.New(auditStore, latencyStore, logger)

	rpc := solana.NewHTTPClient(cfg.SolanaRPCEndpoint)
	chainRPC := providers.NewChainRPC(rpc, logger)

	keys := providers.NewKeyring("graduatedIndex", logger,
		cfg.GraduatedIndexCreds.Primary, cfg.GraduatedIndexCreds.Fallback1, cfg.GraduatedIndexCreds.Fallback2)

	graduatedIndex := providers.NewGraduatedTokenIndex(cfg.GraduatedIndexBaseURL, keys, logger)
	graduatedIndex.SetRecorder(rec)
	holderRegistry := providers.NewHolderRegistry(cfg.HolderRegistryBaseURL, logger)
	holderRegistry.SetRecorder(rec)
	pairIndex := providers.NewPairIndex(cfg.PairIndexBaseURL, logger)
	pairIndex.SetRecorder(rec)
	swaps := providers.NewSwaps(cfg.SwapsBaseURL, logger)
	swaps.SetRecorder(rec)
	priceOracle := providers.NewPriceOracle(logger)

	orch := enrich.New(enrich.Options{
		GraduatedIndex: graduatedIndex,
		PairIndex:      pairIndex,
		Holders:        holderRegistry,
		Swaps:          swaps,
		ChainRPC:       chainRPC,
		Price:          priceOracle,
		Log:            logger,
	})

	source := migrationsource.New(cfg.MigrationWSEndpoint, priceOracle, logger)

	mon := monitor.New(monitor.Options{
		Graduated:    graduatedIndex,
		Price:        priceOracle,
		Source:       source,
		Orchestrator: orch,
		ScoringCfg:   cfg.Scoring,
		Log:          logger,
	})

	gw := gateway.New(mon, logger)
	api := httpapi.New(mon, orch, gw, auditStore, latencyStore, logger)

	mux := http.NewServeMux()
	api.Routes(mux)
	mux.HandleFunc("GET /health", handleHealth(mon))
	mux.Handle("GET /metrics", observability.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	mon.Start(ctx)

	go func() {
		logger.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutdown signal received, draining up to %s", shutdownDrain)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownDrain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("http shutdown: %v", err)
	}
	mon.Stop()

	logger.Println("shutdown complete")
}

// handleHealth reports process liveness plus a coarse readiness signal
// derived from the Monitor's running state.
func handleHealth(mon *monitor.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "starting"
		if mon.Running() {
			status = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
	}
}

// openTelemetryStores builds the Provider Audit Store and Provider Latency
// Warehouse, preferring Postgres/ClickHouse when a DSN is configured and
// falling back to the in-memory implementation otherwise. The returned
// close func releases any backing connection pools.
func openTelemetryStores(ctx context.Context, cfg config.Config, logger *log.Logger) (storage.ProviderAuditStore, storage.ProviderLatencyStore, func()) {
	var audit storage.ProviderAuditStore = memory.NewProviderAuditStore()
	var latency storage.ProviderLatencyStore = memory.NewProviderLatencyStore()
	closers := make([]func(), 0, 2)

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Printf("postgres unavailable, falling back to in-memory audit store: %v", err)
		} else {
			audit = postgres.NewProviderAuditStore(pool)
			closers = append(closers, pool.Close)
		}
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := clickhouse.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			logger.Printf("clickhouse unavailable, falling back to in-memory latency store: %v", err)
		} else {
			latency = clickhouse.NewProviderLatencyStore(conn)
			closers = append(closers, func() {
				if err := conn.Close(); err != nil {
					logger.Printf("clickhouse close: %v", err)
				}
			})
		}
	}

	return audit, latency, func() {
		for _, c := range closers {
			c()
		}
	}
}
