package scoring

import (
	"time"

	"pumpwatch/internal/domain"
)

// checkContext precomputes the derived quantities several checks share, so
// each check stays a small pure function over the record and this context.
type checkContext struct {
	record domain.TokenRecord
	cfg    Config

	ageHours  float64
	buyRatio  float64 // 24h
	sellRatio float64 // 24h

	totalTrades24h int
}

func newCheckContext(record domain.TokenRecord, cfg Config) checkContext {
	ref := record.PriceData.PairCreatedAt
	if ref == 0 {
		ref = record.MigrationTimestamp
	}
	var ageHours float64
	if ref > 0 {
		ageHours = time.Since(time.UnixMilli(ref)).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
	}

	total := record.PriceData.Buys24h + record.PriceData.Sells24h
	var buyRatio, sellRatio float64
	if total > 0 {
		buyRatio = float64(record.PriceData.Buys24h) / float64(total)
		sellRatio = float64(record.PriceData.Sells24h) / float64(total)
	}

	return checkContext{
		record:         record,
		cfg:            cfg,
		ageHours:       ageHours,
		buyRatio:       buyRatio,
		sellRatio:      sellRatio,
		totalTrades24h: record.PriceData.Trades24h,
	}
}
