package scoring

import "pumpwatch/internal/domain"

func hasFlag(breakdown map[string]domain.CheckBreakdown, check, flag string) bool {
	b, ok := breakdown[check]
	if !ok {
		return false
	}
	for _, f := range b.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func computeCompositeRisks(c checkContext, breakdown map[string]domain.CheckBreakdown) domain.CompositeRisks {
	highConcentration := hasFlag(breakdown, "HolderDistribution", "very-high-concentration") ||
		hasFlag(breakdown, "HolderDistribution", "mega-whale")

	holders := c.record.Statistics.HolderCount
	holdersUnknownOrLow := holders == -1 || holders < 100

	velocityPenalty := breakdown["TradeVelocity"].Penalty
	tradesPerHolder := 0.0
	if holders > 0 {
		tradesPerHolder = float64(c.totalTrades24h) / float64(holders)
	}

	return domain.CompositeRisks{
		RugInProgress: highConcentration && c.sellRatio > 0.70 && c.ageHours < 12,
		PumpSetup:     c.buyRatio > 0.85 && holdersUnknownOrLow && c.ageHours < 6 && c.totalTrades24h > 100,
		WashTrading:   tradesPerHolder > 10 && velocityPenalty > 5,
		CoordinatedDump: c.sellRatio > 0.80 && c.totalTrades24h > 50 && c.ageHours < 24,
		InsiderAccumulation: c.record.LaunchAnalysis.BundledBuys > 2 &&
			c.record.WalletFunding.ClusteredWallets >= 2 &&
			(hasFlag(breakdown, "HolderDistribution", "mega-whale") ||
				hasFlag(breakdown, "HolderDistribution", "whale-holder")),
	}
}
