package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// PairIndex resolves trading pairs (and their live market data) for a mint.
type PairIndex struct {
	baseURL string
	client  *http.Client
	log     *log.Logger
	cache   *ttlCache[[]Pair]
	rec     Recorder
}

// SetRecorder attaches rec so every subsequent call is audited and timed.
func (p *PairIndex) SetRecorder(rec Recorder) { p.rec = rec }

// NewPairIndex builds a client with a 30s pair-list cache keyed by mint.
func NewPairIndex(baseURL string, logger *log.Logger) *PairIndex {
	if logger == nil {
		logger = log.Default()
	}
	return &PairIndex{
		baseURL: baseURL,
		client:  defaultHTTPClient(6 * time.Second),
		log:     logger,
		cache:   newTTLCache[[]Pair](30 * time.Second),
	}
}

// GetPairs returns the trading pairs for mint, newest/most-liquid first as
// reported by the upstream. Returns nil on any failure.
func (p *PairIndex) GetPairs(ctx context.Context, mint string) []Pair {
	if cached, ok := p.cache.get(mint); ok {
		return cached
	}

	url := fmt.Sprintf("%s/pairs/%s", p.baseURL, mint)

	var raw struct {
		Pairs []struct {
			PairAddress               string  `json:"pairAddress"`
			Exchange                  string  `json:"exchange"`
			LiquidityUSD              float64 `json:"liquidityUsd"`
			USDPrice                  float64 `json:"usdPrice"`
			Volume24hrUSD             float64 `json:"volume24hrUsd"`
			USDPrice24hrPercentChange float64 `json:"usdPrice24hrPercentChange"`
		} `json:"pairs"`
	}

	found, err := doJSON(ctx, p.client, p.log, http.MethodGet, url, nil, &raw, p.rec, "pairIndex", "pairs", 0)
	if err != nil {
		p.log.Printf("pair index lookup failed for %s: %v", mint, err)
		return nil
	}
	if !found {
		return nil
	}

	out := make([]Pair, len(raw.Pairs))
	for i, r := range raw.Pairs {
		out[i] = Pair{
			PairAddress:               r.PairAddress,
			Exchange:                  r.Exchange,
			LiquidityUSD:              r.LiquidityUSD,
			USDPrice:                  r.USDPrice,
			Volume24hrUSD:             r.Volume24hrUSD,
			USDPrice24hrPercentChange: r.USDPrice24hrPercentChange,
		}
	}
	p.cache.set(mint, out)
	return out
}
