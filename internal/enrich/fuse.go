package enrich

import (
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
)

// fusePriceData applies the field-precedence rules over every price/market
// source the parallel fetch gathered.
func fusePriceData(event domain.MigrationEvent, pairs []providers.Pair, swaps []providers.Swap) domain.PriceData {
	pd := domain.PriceData{}

	if len(pairs) > 0 {
		pd.Price = pairs[0].USDPrice
		pd.PriceChange24h = pairs[0].USDPrice24hrPercentChange
	}

	switch {
	case event.MarketCap != nil:
		pd.MarketCap = *event.MarketCap
		pd.MarketCapConfidence = domain.ConfidenceHigh
	case pd.Price > 0:
		pd.MarketCap = pd.Price * 1e9
		pd.MarketCapConfidence = domain.ConfidenceLow
	default:
		pd.MarketCapConfidence = domain.ConfidenceLow
	}

	switch {
	case event.Liquidity != nil:
		pd.Liquidity = *event.Liquidity
	default:
		for _, p := range pairs {
			pd.Liquidity += p.LiquidityUSD
		}
	}

	var pairVolume float64
	for _, p := range pairs {
		pairVolume += p.Volume24hrUSD
	}
	if pairVolume > 0 {
		pd.Volume24h = pairVolume
	} else {
		pd.Volume24h = sumSwapVolume(swaps, 0)
	}

	buys, sells, trades := tallySwapsSince(swaps, 0)
	pd.Trades24h = trades
	pd.Buys24h = buys
	pd.Sells24h = sells

	oneHourAgo := time.Now().Add(-time.Hour).UnixMilli()
	fiveMinAgo := time.Now().Add(-5 * time.Minute).UnixMilli()

	buys1h, sells1h, _ := tallySwapsSince(swaps, oneHourAgo)
	pd.Buys1h, pd.Sells1h = buys1h, sells1h
	pd.Volume1h = sumSwapVolume(swaps, oneHourAgo)

	buys5m, sells5m, _ := tallySwapsSince(swaps, fiveMinAgo)
	pd.Buys5m, pd.Sells5m = buys5m, sells5m
	pd.Volume5m = sumSwapVolume(swaps, fiveMinAgo)

	return pd
}

func sumSwapVolume(swaps []providers.Swap, sinceMs int64) float64 {
	var total float64
	for _, s := range swaps {
		if s.Timestamp < sinceMs {
			continue
		}
		total += s.ValueUSD
	}
	return total
}

func tallySwapsSince(swaps []providers.Swap, sinceMs int64) (buys, sells, total int) {
	for _, s := range swaps {
		if s.Timestamp < sinceMs {
			continue
		}
		total++
		switch s.Type {
		case providers.SwapTypeBuy:
			buys++
		case providers.SwapTypeSell:
			sells++
		}
	}
	return buys, sells, total
}

// fuseStatistics applies the holder/concentration precedence rules.
func fuseStatistics(stats providers.HolderStats, onChain onChainProbeResult, swaps []providers.Swap) domain.Statistics {
	s := domain.Statistics{HolderCount: -1}

	if stats.TotalHolders > 0 {
		s.HolderCount = stats.TotalHolders
	} else if onChain.supply > 0 && len(onChain.largest) > 0 {
		s.HolderCount = len(onChain.largest)
	}

	if stats.DevHoldingsPercent > 0 {
		s.DevHoldings = stats.DevHoldingsPercent
	} else {
		s.DevHoldings = onChain.devHoldingsPct
	}

	if stats.Top10Percent > 0 {
		s.Top10Concentration = stats.Top10Percent
	} else if onChain.supply > 0 {
		s.Top10Concentration = onChainTop10Concentration(onChain)
	}

	if len(onChain.largest) > 0 && onChain.supply > 0 {
		s.LargestHolderPercent = onChain.largest[0].UIAmount / onChain.supply
	}

	wallets := make(map[string]*domain.WalletTrades)
	var order []string
	for _, sw := range swaps {
		w, ok := wallets[sw.Wallet]
		if !ok {
			w = &domain.WalletTrades{Wallet: sw.Wallet}
			wallets[sw.Wallet] = w
			order = append(order, sw.Wallet)
		}
		w.Timestamps = append(w.Timestamps, sw.Timestamp)
		switch sw.Type {
		case providers.SwapTypeBuy:
			w.Buys++
		case providers.SwapTypeSell:
			w.Sells++
		}
	}
	s.UniqueTraders = len(order)
	for _, wallet := range order {
		s.WalletActivity = append(s.WalletActivity, *wallets[wallet])
	}

	return s
}

func onChainTop10Concentration(onChain onChainProbeResult) float64 {
	n := len(onChain.largest)
	if n > 10 {
		n = 10
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += onChain.largest[i].UIAmount
	}
	if onChain.supply == 0 {
		return 0
	}
	return sum / onChain.supply
}
