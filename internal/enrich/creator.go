package enrich

import (
	"context"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
)

const (
	creatorHistoryLimit   = 100
	creatorHistoryTimeout = 4 * time.Second
	recentCreatorWindow   = 30 * 24 * time.Hour
	fungibleSupplyFloor   = 1_000_000
)

// creatorHistory pulls a creator wallet's prior launches to flag serial
// creators and repeat offenders. RuggedTokens/SuccessfulTokens require
// re-scoring each historical mint, which this single-pass probe doesn't do —
// they stay at their zero sentinel until a creator-tracking store exists.
func (o *Orchestrator) creatorHistory(ctx context.Context, creator string) domain.CreatorHistory {
	if o.chain == nil || creator == "" {
		return domain.CreatorHistory{}
	}

	assets := o.chain.GetAssetsByCreator(ctx, creator, creatorHistoryLimit, creatorHistoryTimeout)
	fungible := make([]providers.CreatedAsset, 0, len(assets))
	for _, a := range assets {
		if isFungibleAsset(a) {
			fungible = append(fungible, a)
		}
	}

	cutoff := time.Now().Add(-recentCreatorWindow).UnixMilli()
	var recent []string
	for _, a := range fungible {
		if a.CreatedAt >= cutoff {
			recent = append(recent, a.ID)
		}
	}

	return domain.CreatorHistory{
		TokenCount:      len(fungible),
		RecentTokens:    recent,
		IsSerialCreator: len(recent) >= 3,
	}
}

func isFungibleAsset(a providers.CreatedAsset) bool {
	return a.IsFungible || a.Supply > fungibleSupplyFloor
}
