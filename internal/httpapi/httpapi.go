// Package httpapi implements the JSON HTTP API over the Token Monitor:
// list/get/stats/analyze endpoints plus two additive provider-telemetry
// diagnostics endpoints. Every body follows {success, data?, error?}.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrich"
	"pumpwatch/internal/gateway"
	"pumpwatch/internal/monitor"
	"pumpwatch/internal/scoring"
	"pumpwatch/internal/storage"
)

// API wires the JSON HTTP surface to the Monitor and its supporting stores.
type API struct {
	monitor *monitor.Monitor
	orch    *enrich.Orchestrator
	gateway *gateway.Gateway
	audit   storage.ProviderAuditStore
	latency storage.ProviderLatencyStore
	log     *log.Logger
}

// New builds an API. audit and latency may be nil, in which case their
// diagnostics endpoints report an empty result rather than failing.
func New(mon *monitor.Monitor, orch *enrich.Orchestrator, gw *gateway.Gateway, audit storage.ProviderAuditStore, latency storage.ProviderLatencyStore, logger *log.Logger) *API {
	if logger == nil {
		logger = log.Default()
	}
	return &API{monitor: mon, orch: orch, gateway: gw, audit: audit, latency: latency, log: logger}
}

// Routes registers every endpoint on mux.
func (a *API) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /tokens", a.handleListTokens)
	mux.HandleFunc("GET /tokens/{address}", a.handleGetToken)
	mux.HandleFunc("GET /stats", a.handleStats)
	mux.HandleFunc("POST /analyze", a.handleAnalyze)
	mux.HandleFunc("GET /stream", a.gateway.ServeHTTP)
	mux.HandleFunc("GET /diagnostics/provider-audit", a.handleProviderAudit)
	mux.HandleFunc("GET /diagnostics/provider-latency", a.handleProviderLatency)
}

// envelope is the uniform {success, data?, error?} response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpapi: encode response failed: %v", err)
	}
}

func writeOK(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// tokensResponse is the body of GET /tokens.
type tokensResponse struct {
	Tokens      []domain.TokenRecord `json:"tokens"`
	Stats       domain.MonitorStats  `json:"stats"`
	Count       int                  `json:"count"`
	IsConnected bool                 `json:"isConnected"`
}

// handleListTokens starts the Monitor on first call if it isn't already
// running, then returns the filtered/bounded record list alongside the
// running counters and a connectivity flag.
func (a *API) handleListTokens(w http.ResponseWriter, r *http.Request) {
	if !a.monitor.Running() {
		a.monitor.Start(r.Context())
	}

	var passed *bool
	if raw := r.URL.Query().Get("passed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "passed must be a boolean")
			return
		}
		passed = &v
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = v
	}

	tokens := a.monitor.List(passed, limit)
	writeOK(w, tokensResponse{
		Tokens:      tokens,
		Stats:       a.monitor.Stats(),
		Count:       len(tokens),
		IsConnected: a.monitor.Running(),
	})
}

// handleGetToken returns the single record for {address}, or 404.
func (a *API) handleGetToken(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	record, ok := a.monitor.Get(address)
	if !ok {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	writeOK(w, record)
}

// handleStats returns the running monitored/passed/filtered counters.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	writeOK(w, a.monitor.Stats())
}

// analyzeRequest is the body of POST /analyze.
type analyzeRequest struct {
	TokenAddress string `json:"tokenAddress"`
	Creator      string `json:"creator,omitempty"`
}

// handleAnalyze synthesizes a MigrationEvent with signature "manual",
// enriches and scores it once in full mode, and returns the record. It
// never touches the Monitor's history — this is a point-in-time probe, not
// a monitored token.
func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TokenAddress == "" {
		writeError(w, http.StatusBadRequest, "tokenAddress is required")
		return
	}
	if a.orch == nil {
		writeError(w, http.StatusInternalServerError, "enrichment is not available")
		return
	}

	event := domain.MigrationEvent{
		Mint:      req.TokenAddress,
		Signature: "manual",
		Creator:   req.Creator,
		Timestamp: time.Now().UnixMilli(),
	}

	record := a.orch.Enrich(r.Context(), event, enrich.ModeFull)
	if record.Address == "" {
		writeError(w, http.StatusInternalServerError, "analysis failed to produce a record")
		return
	}
	record.Analysis = scoring.Score(record, a.monitor.ScoringConfig())

	writeOK(w, record)
}

// handleProviderAudit returns the most recent provider audit log entries.
func (a *API) handleProviderAudit(w http.ResponseWriter, r *http.Request) {
	if a.audit == nil {
		writeOK(w, []domain.ProviderAuditEntry{})
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := a.audit.Recent(r.Context(), limit)
	if err != nil {
		a.log.Printf("httpapi: provider audit query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read provider audit log")
		return
	}
	writeOK(w, entries)
}

// handleProviderLatency returns provider latency samples since the given ms
// timestamp, optionally filtered to a single provider.
func (a *API) handleProviderLatency(w http.ResponseWriter, r *http.Request) {
	if a.latency == nil {
		writeOK(w, []domain.ProviderLatencySample{})
		return
	}

	provider := r.URL.Query().Get("provider")
	var since int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be a unix millisecond timestamp")
			return
		}
		since = v
	}

	samples, err := a.latency.Since(r.Context(), provider, since)
	if err != nil {
		a.log.Printf("httpapi: provider latency query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read provider latency warehouse")
		return
	}
	writeOK(w, samples)
}
