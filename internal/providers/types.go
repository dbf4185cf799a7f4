package providers

// GraduatedToken is one row of GraduatedTokenIndex.List.
type GraduatedToken struct {
	Mint                  string
	Name                  string
	Symbol                string
	Logo                  string
	PriceUSD              float64
	Liquidity             float64
	FullyDilutedValuation float64
	MarketCapSol          *float64 // set instead of FullyDilutedValuation by some upstream feeds
	GraduatedAt           int64
	PairAddress           string
}

// Pair is one row of PairIndex.GetPairs.
type Pair struct {
	PairAddress               string
	Exchange                  string
	LiquidityUSD              float64
	USDPrice                  float64
	Volume24hrUSD             float64
	USDPrice24hrPercentChange float64
}

// HolderStats is the response of HolderRegistry.GetHolderStats.
type HolderStats struct {
	TotalHolders       int
	DevHoldingsPercent float64
	Top10Percent       float64
}

// Holder is one row of HolderRegistry.GetTopHolders.
type Holder struct {
	Owner             string
	PercentageOfSupply float64
	Label             string // empty if none
}

// Swap is one row of Swaps.GetRecentSwaps.
type Swap struct {
	Type      string // "buy" | "sell"
	ValueUSD  float64
	Wallet    string
	Timestamp int64 // ms
}

const (
	SwapTypeBuy  = "buy"
	SwapTypeSell = "sell"
)

// NativeTransfer is an incoming/outgoing SOL transfer inside a transaction.
type NativeTransfer struct {
	Source      string
	Destination string
	AmountSOL   float64
}

// TokenTransfer is an incoming/outgoing SPL transfer inside a transaction.
type TokenTransfer struct {
	Source      string
	Destination string
	Mint        string
	Amount      float64
}

// TxRecord is one row of ChainRPC.GetTransactionHistory.
type TxRecord struct {
	Slot            int64
	Timestamp       int64 // ms
	FeePayer        string
	NativeTransfers []NativeTransfer
	TokenTransfers  []TokenTransfer
	Type            string
}

// CreatedAsset is one row of ChainRPC.GetAssetsByCreator.
type CreatedAsset struct {
	ID        string
	CreatedAt int64 // ms
	Interface string
	IsFungible bool
	Supply     float64
}
