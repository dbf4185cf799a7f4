package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

// GraduatedTokenIndex lists recently graduated pump.fun tokens. It is the
// seed list for the Monitor's one-shot backfill.
type GraduatedTokenIndex struct {
	baseURL string
	client  *http.Client
	keys    *Keyring
	log     *log.Logger
	rec     Recorder
}

// NewGraduatedTokenIndex builds a client. keys may be nil if the provider
// requires no authentication.
func NewGraduatedTokenIndex(baseURL string, keys *Keyring, logger *log.Logger) *GraduatedTokenIndex {
	if logger == nil {
		logger = log.Default()
	}
	return &GraduatedTokenIndex{
		baseURL: baseURL,
		client:  defaultHTTPClient(8 * time.Second),
		keys:    keys,
		log:     logger,
	}
}

// SetRecorder attaches rec so every subsequent call is audited and timed.
func (g *GraduatedTokenIndex) SetRecorder(rec Recorder) { g.rec = rec }

// List returns up to limit recently graduated tokens, newest first. Returns
// an empty slice (never nil-panics, never an error) on any failure.
func (g *GraduatedTokenIndex) List(ctx context.Context, limit int) []GraduatedToken {
	url := fmt.Sprintf("%s/graduated?limit=%d", g.baseURL, limit)

	var raw []struct {
		Mint                  string   `json:"mint"`
		Name                  string   `json:"name"`
		Symbol                string   `json:"symbol"`
		Logo                  string   `json:"logo"`
		PriceUSD              float64  `json:"priceUsd"`
		Liquidity             float64  `json:"liquidity"`
		FullyDilutedValuation float64  `json:"fullyDilutedValuation"`
		MarketCapSol          *float64 `json:"marketCapSol"`
		GraduatedAt           int64    `json:"graduatedAt"`
		PairAddress           string   `json:"pairAddress"`
	}

	for attempt := 0; ; attempt++ {
		headers := map[string]string{}
		if g.keys != nil {
			if key := g.keys.Current(); key != "" {
				headers["Authorization"] = "Bearer " + key
			}
		}

		keyIndex := 0
		if g.keys != nil {
			keyIndex = g.keys.Index()
		}
		found, err := doJSON(ctx, g.client, g.log, http.MethodGet, url, headers, &raw, g.rec, "graduatedIndex", "list", keyIndex)
		if err != nil {
			if g.keys != nil && g.keys.Rotate() && attempt < 2 {
				continue
			}
			g.log.Printf("graduated index list failed: %v", err)
			return nil
		}
		if !found {
			return nil
		}
		break
	}

	out := make([]GraduatedToken, len(raw))
	for i, r := range raw {
		out[i] = GraduatedToken{
			Mint:                  r.Mint,
			Name:                  r.Name,
			Symbol:                r.Symbol,
			Logo:                  r.Logo,
			PriceUSD:              r.PriceUSD,
			Liquidity:             r.Liquidity,
			FullyDilutedValuation: r.FullyDilutedValuation,
			MarketCapSol:          r.MarketCapSol,
			GraduatedAt:           r.GraduatedAt,
			PairAddress:           r.PairAddress,
		}
	}
	return out
}
