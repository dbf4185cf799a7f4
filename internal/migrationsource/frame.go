package migrationsource

import "encoding/json"

// MigrationFrame is the raw wire schema of one upstream WebSocket message.
// Only txType "migration" produces a domain MigrationEvent; "buy"/"sell"
// frames are observed but not currently turned into pipeline input.
type MigrationFrame struct {
	TxType          string   `json:"txType"`
	Signature       string   `json:"signature"`
	Mint            string   `json:"mint"`
	Name            string   `json:"name,omitempty"`
	Symbol          string   `json:"symbol,omitempty"`
	URI             string   `json:"uri,omitempty"`
	Pool            string   `json:"pool,omitempty"`
	MarketCapSol    *float64 `json:"marketCapSol,omitempty"`
	Creator         string   `json:"creator,omitempty"`
	TraderPublicKey string   `json:"traderPublicKey,omitempty"`
	TokenAmount     *float64 `json:"tokenAmount,omitempty"`
	SolAmount       *float64 `json:"solAmount,omitempty"`
}

const (
	TxTypeMigration = "migration"
	TxTypeBuy       = "buy"
	TxTypeSell      = "sell"
)

func parseFrame(raw []byte) (MigrationFrame, error) {
	var f MigrationFrame
	err := json.Unmarshal(raw, &f)
	return f, err
}
