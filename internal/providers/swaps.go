package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Swaps retrieves recent buy/sell activity for a mint, paginated.
type Swaps struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
	rec     Recorder
}

// NewSwaps builds a client. Each page fetch carries its own timeout derived
// from the caller's context, so maxPages bounds total latency together with
// the orchestrator's outer deadline.
func NewSwaps(baseURL string, logger *log.Logger) *Swaps {
	if logger == nil {
		logger = log.Default()
	}
	return &Swaps{baseURL: baseURL, client: defaultHTTPClient(8 * time.Second), log: logger}
}

// SetRecorder attaches rec so every subsequent call is audited and timed.
func (s *Swaps) SetRecorder(rec Recorder) { s.rec = rec }

// GetRecentSwaps returns swaps for mint since the given ms timestamp,
// fetching up to maxPages pages of pageLimit each. Stops early once a page
// returns fewer than pageLimit rows (end of data) or the context expires.
func (s *Swaps) GetRecentSwaps(ctx context.Context, mint string, since int64, pageLimit, maxPages int) []Swap {
	var all []Swap
	cursor := ""

	for page := 0; page < maxPages; page++ {
		if ctx.Err() != nil {
			break
		}

		url := fmt.Sprintf("%s/swaps/%s?since=%d&limit=%d", s.baseURL, mint, since, pageLimit)
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var raw struct {
			Swaps []struct {
				Type      string  `json:"type"`
				ValueUSD  float64 `json:"valueUsd"`
				Wallet    string  `json:"wallet"`
				Timestamp int64   `json:"timestamp"`
			} `json:"swaps"`
			NextCursor string `json:"nextCursor"`
		}

		found, err := doJSON(ctx, s.client, s.log, http.MethodGet, url, nil, &raw, s.rec, "swaps", "recent", 0)
		if err != nil {
			s.log.Printf("swaps lookup failed for %s: %v", mint, err)
			break
		}
		if !found {
			break
		}

		for _, r := range raw.Swaps {
			all = append(all, Swap{Type: r.Type, ValueUSD: r.ValueUSD, Wallet: r.Wallet, Timestamp: r.Timestamp})
		}

		if len(raw.Swaps) < pageLimit || raw.NextCursor == "" {
			break
		}
		cursor = raw.NextCursor
	}

	return all
}
