package domain

// Confidence expresses how much a derived field should be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// TokenRecord is the fused view of a migrated token. Owned by the Monitor,
// created by the Orchestrator, never mutated once inserted into history.
type TokenRecord struct {
	Address  string   `json:"address"`
	Metadata Metadata `json:"metadata"`

	PriceData  PriceData  `json:"priceData"`
	Statistics Statistics `json:"statistics"`
	Security   Security   `json:"security"`

	LaunchAnalysis LaunchAnalysis `json:"launchAnalysis"`
	WalletFunding  WalletFunding  `json:"walletFunding"`
	CreatorHistory CreatorHistory `json:"creatorHistory"`

	Analysis AnalysisResult `json:"analysis"`

	MigrationTimestamp int64 `json:"migrationTimestamp"` // ms
	AnalyzedAt         int64 `json:"analyzedAt"`         // ms
}

// Metadata describes the token's static identity.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Image    string `json:"image,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Decimals int    `json:"decimals"`
	Supply   string `json:"supply,omitempty"` // decimal string

	Description string `json:"description,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Telegram    string `json:"telegram,omitempty"`
	Website     string `json:"website,omitempty"`
}

// PriceData holds market/trading data merged from providers.
type PriceData struct {
	Price               float64    `json:"price"`
	MarketCap           float64    `json:"marketCap"`
	MarketCapConfidence Confidence `json:"marketCapConfidence"`
	Liquidity           float64    `json:"liquidity"`
	Volume24h           float64    `json:"volume24h"`

	Trades24h int `json:"trades24h"`
	Buys24h   int `json:"buys24h"`
	Sells24h  int `json:"sells24h"`
	Buys1h    int `json:"buys1h"`
	Sells1h   int `json:"sells1h"`
	Buys5m    int `json:"buys5m"`
	Sells5m   int `json:"sells5m"`

	Volume1h float64 `json:"volume1h"`
	Volume5m float64 `json:"volume5m"`

	PriceChange24h float64 `json:"priceChange24h"`
	PriceChange1h  float64 `json:"priceChange1h"`
	PriceChange5m  float64 `json:"priceChange5m"`

	PairCreatedAt int64 `json:"pairCreatedAt"` // ms, 0 if unknown
}

// Statistics holds holder/concentration derived metrics.
type Statistics struct {
	HolderCount            int     `json:"holderCount"` // -1 = unknown
	UniqueTraders          int     `json:"uniqueTraders"`
	Top10Concentration     float64 `json:"top10Concentration"` // 0..1
	DevHoldings            float64 `json:"devHoldings"`        // 0..1
	LiquidityRatio         float64 `json:"liquidityRatio"`
	VolumeToLiquidityRatio float64 `json:"volumeToLiquidityRatio"`

	LargestHolderPercent float64 `json:"largestHolderPercent"` // 0..1, single largest non-LP holder's share

	MicroBuyShare         float64        `json:"microBuyShare"` // 0..1, share of buys below 0.01 units
	WalletActivity        []WalletTrades `json:"walletActivity,omitempty"`
	AirdroppedSellerCount int            `json:"airdroppedSellerCount"`
}

// WalletTrades aggregates one wallet's trading activity on this mint, used
// by the wash-trading and velocity checks.
type WalletTrades struct {
	Wallet     string  `json:"wallet"`
	Buys       int     `json:"buys"`
	Sells      int     `json:"sells"`
	Timestamps []int64 `json:"timestamps,omitempty"` // ms, all of this wallet's trades, ascending
}

// Security holds mint/freeze/LP-lock facts.
type Security struct {
	MintAuthorityRevoked   bool    `json:"mintAuthorityRevoked"`
	FreezeAuthorityRevoked bool    `json:"freezeAuthorityRevoked"`
	LPLocked               bool    `json:"lpLocked"`
	LPLockPercentage       float64 `json:"lpLockPercentage"`
	LPLockDuration         float64 `json:"lpLockDuration"` // seconds; math.Inf(1) means "burned forever"
	TopHoldersAreContracts bool    `json:"topHoldersAreContracts"`
	IsRugpullRisk          bool    `json:"isRugpullRisk"`

	// Probed reports whether the security probe ran at all. When false,
	// the Scoring Engine's Security check applies the "absent" penalty
	// instead of evaluating the fields above.
	Probed bool `json:"probed"`
}

// LaunchAnalysis holds launch-window signals (full mode only).
type LaunchAnalysis struct {
	BundledBuys        int     `json:"bundledBuys"`
	SniperCount        int     `json:"sniperCount"`
	FirstBuyerHoldings float64 `json:"firstBuyerHoldings"`
	AvgFirstBuySize    float64 `json:"avgFirstBuySize"` // SOL
	CreatorBoughtBack  bool    `json:"creatorBoughtBack"`
}

// WalletFunding holds top-holder funding-source clustering signals.
type WalletFunding struct {
	ClusteredWallets         int    `json:"clusteredWallets"`
	CommonFundingSource      string `json:"commonFundingSource,omitempty"` // empty if none
	FreshWalletBuyers        int    `json:"freshWalletBuyers"`
	SuspiciousFundingPattern bool   `json:"suspiciousFundingPattern"`
}

// CreatorHistory holds the creator wallet's prior-launch track record.
type CreatorHistory struct {
	TokenCount       int      `json:"tokenCount"`
	RecentTokens     []string `json:"recentTokens,omitempty"` // asset ids created in the last 30 days
	IsSerialCreator  bool     `json:"isSerialCreator"`
	RuggedTokens     int      `json:"ruggedTokens"`
	SuccessfulTokens int      `json:"successfulTokens"`
}
