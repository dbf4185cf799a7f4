package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// HolderRegistry reports holder concentration for a mint. A 404 is treated
// as a normal "unknown" response, not a failure worth logging loudly.
type HolderRegistry struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
	cache   *ttlCache[HolderStats]
	rec     Recorder
}

// SetRecorder attaches rec so every subsequent call is audited and timed.
func (h *HolderRegistry) SetRecorder(rec Recorder) { h.rec = rec }

// NewHolderRegistry builds a client with a 60s holder-stats cache.
func NewHolderRegistry(baseURL string, logger *log.Logger) *HolderRegistry {
	if logger == nil {
		logger = log.Default()
	}
	return &HolderRegistry{
		baseURL: baseURL,
		client:  defaultHTTPClient(8 * time.Second),
		log:     logger,
		cache:   newTTLCache[HolderStats](60 * time.Second),
	}
}

// GetHolderStats returns {totalHolders, devHoldingsPercent, top10Percent}.
// Returns the zero value (TotalHolders 0) when the upstream has no record —
// callers must distinguish via the orchestrator's on-chain fallback, not by
// inspecting this struct alone.
func (h *HolderRegistry) GetHolderStats(ctx context.Context, mint string) HolderStats {
	if cached, ok := h.cache.get(mint); ok {
		return cached
	}

	url := fmt.Sprintf("%s/holders/%s/stats", h.baseURL, mint)
	var raw struct {
		TotalHolders       int     `json:"totalHolders"`
		DevHoldingsPercent float64 `json:"devHoldingsPercent"`
		Top10Percent       float64 `json:"top10Percent"`
	}

	found, err := doJSON(ctx, h.client, h.log, http.MethodGet, url, nil, &raw, h.rec, "holderRegistry", "stats", 0)
	if err != nil {
		h.log.Printf("holder stats lookup failed for %s: %v", mint, err)
		return HolderStats{}
	}
	if !found {
		return HolderStats{}
	}

	stats := HolderStats{
		TotalHolders:       raw.TotalHolders,
		DevHoldingsPercent: raw.DevHoldingsPercent,
		Top10Percent:       raw.Top10Percent,
	}
	h.cache.set(mint, stats)
	return stats
}

// GetTopHolders returns up to limit top holders for mint, largest first.
// Returns nil when the upstream has no record for mint.
func (h *HolderRegistry) GetTopHolders(ctx context.Context, mint string, limit int) []Holder {
	url := fmt.Sprintf("%s/holders/%s/top?limit=%d", h.baseURL, mint, limit)

	var raw []struct {
		Owner              string  `json:"owner"`
		PercentageOfSupply float64 `json:"percentageOfSupply"`
		Label              string  `json:"label"`
	}

	found, err := doJSON(ctx, h.client, h.log, http.MethodGet, url, nil, &raw, h.rec, "holderRegistry", "topHolders", 0)
	if err != nil {
		h.log.Printf("top holders lookup failed for %s: %v", mint, err)
		return nil
	}
	if !found {
		return nil
	}

	out := make([]Holder, len(raw))
	for i, r := range raw {
		out[i] = Holder{Owner: r.Owner, PercentageOfSupply: r.PercentageOfSupply, Label: r.Label}
	}
	return out
}
