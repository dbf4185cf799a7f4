// Package domain holds the plain value types shared across the ingestion,
// enrichment, and scoring layers.
package domain

// MigrationEvent is the input to the pipeline: a token graduating from the
// bonding-curve phase to an AMM pool. Immutable once received.
type MigrationEvent struct {
	Mint      string // base-58 mint address, required, unique per token
	Signature string // graduation transaction signature; may be empty for backfill
	Name      string
	Symbol    string
	URI       string // optional image or metadata URL
	Pool      string // AMM pool address
	Timestamp int64  // ms since epoch

	MarketCap *float64 // USD, optional
	Liquidity *float64 // USD, optional
	Creator   string   // wallet address, optional
}
