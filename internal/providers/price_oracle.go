package providers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// PriceOracle is a process-wide singleton caching the SOL/USD price for 30s
// and falling through an ordered list of independent public sources. It
// never fabricates a value: if every source fails, GetSolPriceUSD returns
// (0, false).
type PriceOracle struct {
	client *http.Client
	log    *log.Logger

	mu        sync.Mutex
	cached    float64
	cachedAt  time.Time

	sources []priceSource
}

type priceSource struct {
	name string
	url  string
	// extract parses the raw JSON body returning the USD price.
	extract func([]byte) (float64, bool)
}

// NewPriceOracle builds the oracle with its default source list.
func NewPriceOracle(logger *log.Logger) *PriceOracle {
	if logger == nil {
		logger = log.Default()
	}
	return &PriceOracle{
		client: defaultHTTPClient(5 * time.Second),
		log:    logger,
		sources: []priceSource{
			{name: "coingecko", url: "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd", extract: extractCoingecko},
			{name: "binance", url: "https://api.binance.com/api/v3/ticker/price?symbol=SOLUSDT", extract: extractBinance},
			{name: "coinbase", url: "https://api.coinbase.com/v2/prices/SOL-USD/spot", extract: extractCoinbase},
		},
	}
}

// GetSolPriceUSD returns the cached price if fresh (< 30s old), else probes
// sources in order and caches the first positive finite result. Returns
// ok=false — never a stale or default value — if every source fails.
func (o *PriceOracle) GetSolPriceUSD(ctx context.Context) (float64, bool) {
	o.mu.Lock()
	if !o.cachedAt.IsZero() && time.Since(o.cachedAt) < 30*time.Second {
		price := o.cached
		o.mu.Unlock()
		return price, true
	}
	o.mu.Unlock()

	for _, src := range o.sources {
		price, ok := o.fetchAndExtract(ctx, src)
		if !ok || price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			if !ok {
				o.log.Printf("price source %s failed", src.name)
			}
			continue
		}
		o.mu.Lock()
		o.cached = price
		o.cachedAt = time.Now()
		o.mu.Unlock()
		return price, true
	}

	o.log.Printf("all SOL price sources failed")
	return 0, false
}

func (o *PriceOracle) fetchAndExtract(ctx context.Context, src priceSource) (float64, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return 0, false
	}
	return src.extract(body)
}

func extractCoingecko(body []byte) (float64, bool) {
	var v struct {
		Solana struct {
			USD float64 `json:"usd"`
		} `json:"solana"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return 0, false
	}
	return v.Solana.USD, v.Solana.USD > 0
}

func extractBinance(body []byte) (float64, bool) {
	var v struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return 0, false
	}
	p, err := strconv.ParseFloat(v.Price, 64)
	if err != nil {
		return 0, false
	}
	return p, p > 0
}

func extractCoinbase(body []byte) (float64, bool) {
	var v struct {
		Data struct {
			Amount string `json:"amount"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return 0, false
	}
	p, err := strconv.ParseFloat(v.Data.Amount, 64)
	if err != nil {
		return 0, false
	}
	return p, p > 0
}

// SolToUSD converts an amount of SOL to USD at the current cached price.
// Returns ok=false if the price is unavailable — callers must not assume 0.
func (o *PriceOracle) SolToUSD(ctx context.Context, sol float64) (float64, bool) {
	price, ok := o.GetSolPriceUSD(ctx)
	if !ok {
		return 0, false
	}
	return sol * price, true
}

// USDToSol converts USD to SOL at the current cached price.
func (o *PriceOracle) USDToSol(ctx context.Context, usd float64) (float64, bool) {
	price, ok := o.GetSolPriceUSD(ctx)
	if !ok || price == 0 {
		return 0, false
	}
	return usd / price, true
}
