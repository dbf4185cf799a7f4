package scoring

// computeBonuses returns the total positive adjustment (capped at +25) and
// the flags that justify it.
func computeBonuses(c checkContext) (int, []string) {
	total := 0
	var flags []string

	add := func(amount int, flag string) {
		total += amount
		flags = append(flags, flag)
	}

	if c.ageHours >= 24 {
		add(5, "established-age")
	}
	if c.ageHours >= 72 {
		add(5, "mature-age")
	}

	holders := c.record.Statistics.HolderCount
	switch {
	case holders >= 500:
		add(5, "strong-holder-base")
	case holders >= 200:
		add(3, "solid-holder-base")
	}

	if c.totalTrades24h > 10 && c.buyRatio >= 0.40 && c.buyRatio <= 0.60 {
		add(5, "balanced-trading")
	}

	if c.record.PriceData.MarketCap > 0 && c.record.PriceData.Liquidity/c.record.PriceData.MarketCap >= 0.10 {
		add(5, "healthy-liquidity-ratio")
	}

	if c.record.Metadata.Twitter != "" && c.record.Metadata.Website != "" {
		add(3, "strong-social-presence")
	}

	sec := c.record.Security
	if sec.Probed && sec.MintAuthorityRevoked && sec.FreezeAuthorityRevoked && sec.LPLocked {
		add(5, "fully-secured")
	}

	if total > 25 {
		total = 25
	}
	return total, flags
}
