package scoring

import "math"

// checkResult is the raw output of one check before clamping to its cap.
type checkResult struct {
	penalty int
	cap     int
	flags   []string
}

type check struct {
	name string
	cap  int
	run  func(checkContext) checkResult
}

var allChecks = []check{
	{"WashTrading", 20, checkWashTrading},
	{"HolderDistribution", 25, checkHolderDistribution},
	{"DeveloperHoldings", 15, checkDeveloperHoldings},
	{"VolumeManipulation", 20, checkVolumeManipulation},
	{"AirdropScheme", 15, checkAirdropScheme},
	{"SocialSignals", 10, checkSocialSignals},
	{"TokenAge", 15, checkTokenAge},
	{"BuyPressure", 15, checkBuyPressure},
	{"LiquidityHealth", 20, checkLiquidityHealth},
	{"Security", 25, checkSecurity},
	{"Snipers", 20, checkSnipers},
	{"WalletFunding", 25, checkWalletFunding},
	{"TradeVelocity", 15, checkTradeVelocity},
	{"CreatorHistory", 35, checkCreatorHistory},
}

func result(cap int) checkResult { return checkResult{cap: cap} }

func (r checkResult) add(penalty int, flag string) checkResult {
	r.penalty += penalty
	r.flags = append(r.flags, flag)
	return r
}

func checkWashTrading(c checkContext) checkResult {
	r := result(20)
	for _, w := range c.record.Statistics.WalletActivity {
		if w.Buys > 5 && w.Sells > 5 {
			r = r.add(12, "wash-trading-pattern")
			break
		}
	}
	for _, w := range c.record.Statistics.WalletActivity {
		if len(w.Timestamps) > 10 && meanInterval(w.Timestamps) < 30_000 {
			r = r.add(10, "rapid-fire-trading")
			break
		}
	}
	return r
}

func meanInterval(timestamps []int64) float64 {
	if len(timestamps) < 2 {
		return math.Inf(1)
	}
	var sum int64
	for i := 1; i < len(timestamps); i++ {
		sum += timestamps[i] - timestamps[i-1]
	}
	return float64(sum) / float64(len(timestamps)-1)
}

func checkHolderDistribution(c checkContext) checkResult {
	r := result(25)
	s := c.record.Statistics

	if s.HolderCount != -1 {
		switch {
		case s.HolderCount < c.cfg.MinHolders:
			r = r.add(15, "low-holders")
		case s.HolderCount < 2*c.cfg.MinHolders:
			r = r.add(8, "below-average-holders")
		}
	}

	switch {
	case s.Top10Concentration > 0.50:
		r = r.add(15, "very-high-concentration")
	case s.Top10Concentration > c.cfg.MaxTop10:
		r = r.add(10, "high-concentration")
	}

	switch largest := s.LargestHolderPercent; {
	case largest > 0.30:
		r = r.add(10, "mega-whale")
	case largest > 0.20:
		r = r.add(6, "whale-holder")
	}

	return r
}

func checkDeveloperHoldings(c checkContext) checkResult {
	r := result(15)
	dev := c.record.Statistics.DevHoldings
	switch {
	case dev > 0.25:
		r = r.add(15, "excessive-dev-holdings")
	case dev > c.cfg.MaxDevHoldings:
		r = r.add(10, "high-dev-holdings")
	case dev > 0.05:
		r = r.add(5, "notable-dev-holdings")
	}
	return r
}

func checkVolumeManipulation(c checkContext) checkResult {
	r := result(20)
	s := c.record.Statistics
	if c.totalTrades24h > 0 {
		ratio := float64(s.UniqueTraders) / float64(c.totalTrades24h)
		switch {
		case ratio < 0.30:
			r = r.add(15, "low-unique-trader-ratio")
		case ratio < c.cfg.MinUniqueRatio:
			r = r.add(8, "below-average-trader-ratio")
		}
	}
	if s.MicroBuyShare > 0.40 {
		r = r.add(10, "micro-buy-flooding")
	}
	return r
}

func checkAirdropScheme(c checkContext) checkResult {
	r := result(15)
	n := c.record.Statistics.AirdroppedSellerCount
	switch {
	case n > 5:
		r = r.add(15, "airdrop-dump-scheme")
	case n > 2:
		r = r.add(8, "possible-airdrop-dump")
	}
	return r
}

func checkSocialSignals(c checkContext) checkResult {
	r := result(10)
	m := c.record.Metadata
	hasTwitter := m.Twitter != ""
	hasTelegram := m.Telegram != ""
	hasWebsite := m.Website != ""

	switch {
	case !hasTwitter && !hasTelegram:
		r = r.add(6, "no-social-links")
	case !hasTwitter:
		r = r.add(3, "no-twitter")
	}
	if !hasWebsite {
		r = r.add(2, "no-website")
	}
	if isGenericDescription(m.Description) {
		r = r.add(3, "generic-description")
	}
	if looksLikeImpersonation(m.Name) && !hasTwitter {
		r = r.add(4, "impersonation-risk")
	}
	return r
}

func isGenericDescription(desc string) bool {
	if desc == "" {
		return false
	}
	generic := []string{"to the moon", "next 100x", "best token", "community driven"}
	lower := toLower(desc)
	if len(lower) > 120 {
		return false
	}
	for _, g := range generic {
		if containsSub(lower, g) {
			return true
		}
	}
	return false
}

func looksLikeImpersonation(name string) bool {
	lower := toLower(name)
	for _, brand := range []string{"elon", "trump", "official", "sec ", "blackrock"} {
		if containsSub(lower, brand) {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func containsSub(s, sub string) bool {
	n, m := len(s), len(sub)
	if m == 0 {
		return true
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return true
		}
	}
	return false
}

func checkTokenAge(c checkContext) checkResult {
	r := result(15)
	switch {
	case c.ageHours < 0.5:
		r = r.add(15, "brand-new-token")
	case c.ageHours < 1:
		r = r.add(10, "very-young-token")
	case c.ageHours < 6:
		r = r.add(5, "young-token")
	}
	return r
}

func checkBuyPressure(c checkContext) checkResult {
	r := result(15)
	switch {
	case c.buyRatio > 0.90:
		r = r.add(10, "excessive-buy-pressure")
	case c.buyRatio > 0.80:
		r = r.add(5, "high-buy-pressure")
	case c.totalTrades24h > 0 && c.buyRatio < 0.20:
		r = r.add(15, "dump-in-progress")
	}

	p := c.record.PriceData
	if p.Volume1h > 0 {
		avg1h := p.Volume1h / 12 // average 5-minute volume over the hour
		if p.Volume5m > 5*avg1h {
			r = r.add(8, "volume-spike")
		}
	}
	switch {
	case math.Abs(p.PriceChange5m) > 30:
		r = r.add(10, "extreme-5m-volatility")
	case math.Abs(p.PriceChange1h) > 50:
		r = r.add(8, "extreme-1h-volatility")
	}
	return r
}

func checkLiquidityHealth(c checkContext) checkResult {
	r := result(20)
	p := c.record.PriceData

	ratio := 0.0
	if p.MarketCap > 0 {
		ratio = p.Liquidity / p.MarketCap
	}
	switch {
	case ratio < 0.02:
		r = r.add(20, "dangerously-low-liquidity")
	case ratio < 0.05:
		r = r.add(12, "low-liquidity")
	case ratio < 0.10:
		r = r.add(5, "moderate-liquidity")
	}

	if p.Liquidity > 0 {
		volRatio := p.Volume24h / p.Liquidity
		switch {
		case volRatio > 20:
			r = r.add(10, "extreme-volume-to-liquidity")
		case volRatio > 10:
			r = r.add(5, "high-volume-to-liquidity")
		}
	}

	switch {
	case p.Liquidity < 5000:
		r = r.add(10, "tiny-liquidity-pool")
	case p.Liquidity < 10000:
		r = r.add(5, "small-liquidity-pool")
	}
	return r
}

func checkSecurity(c checkContext) checkResult {
	r := result(25)
	sec := c.record.Security
	if !sec.Probed {
		return r.add(5, "security-data-unavailable")
	}
	if !sec.MintAuthorityRevoked {
		r = r.add(15, "mint-not-revoked")
	}
	if !sec.FreezeAuthorityRevoked {
		r = r.add(10, "freeze-not-revoked")
	}
	if !sec.LPLocked && sec.LPLockPercentage < 80 {
		r = r.add(15, "lp-not-locked")
		if sec.LPLockPercentage < 50 {
			r = r.add(8, "lp-lock-insufficient")
		}
	}
	if sec.TopHoldersAreContracts {
		r = r.add(10, "honeypot-risk")
	}
	if sec.IsRugpullRisk {
		r = r.add(5, "rugpull-risk-flagged")
	}
	return r
}

func checkSnipers(c checkContext) checkResult {
	r := result(20)
	la := c.record.LaunchAnalysis
	switch {
	case la.BundledBuys > 3:
		r = r.add(15, "bundled-launch")
	case la.BundledBuys > 1:
		r = r.add(8, "partial-bundled-launch")
	}
	switch {
	case la.SniperCount > 20:
		r = r.add(12, "heavy-sniper-activity")
	case la.SniperCount > 10:
		r = r.add(6, "sniper-activity")
	}
	switch {
	case la.AvgFirstBuySize > 5:
		r = r.add(10, "large-first-buys")
	case la.AvgFirstBuySize > 2:
		r = r.add(5, "above-average-first-buys")
	}
	if la.CreatorBoughtBack {
		r = r.add(8, "creator-bought-back")
	}
	return r
}

func checkWalletFunding(c checkContext) checkResult {
	r := result(25)
	wf := c.record.WalletFunding
	switch {
	case wf.ClusteredWallets >= 5:
		r = r.add(20, "clustered-wallet-funding")
	case wf.ClusteredWallets >= 3:
		r = r.add(12, "moderate-wallet-clustering")
	case wf.ClusteredWallets >= 2:
		r = r.add(5, "minor-wallet-clustering")
	}
	switch {
	case wf.FreshWalletBuyers >= 5:
		r = r.add(15, "many-fresh-wallets")
	case wf.FreshWalletBuyers >= 3:
		r = r.add(8, "some-fresh-wallets")
	}
	if wf.SuspiciousFundingPattern {
		r = r.add(5, "suspicious-funding-pattern")
	}
	return r
}

func checkTradeVelocity(c checkContext) checkResult {
	r := result(15)
	holders := c.record.Statistics.HolderCount
	trades := c.record.PriceData.Trades24h
	if holders <= 0 || trades == 0 {
		return r
	}
	ratio := float64(trades) / float64(holders)
	switch {
	case ratio > 20:
		r = r.add(15, "extreme-trade-velocity")
	case ratio > 10:
		r = r.add(10, "high-trade-velocity")
	case ratio > 5:
		r = r.add(5, "elevated-trade-velocity")
	}
	return r
}

func checkCreatorHistory(c checkContext) checkResult {
	r := result(35)
	ch := c.record.CreatorHistory
	recent := len(ch.RecentTokens)

	if ch.IsSerialCreator {
		switch {
		case recent >= 10:
			r = r.add(30, "serial-creator-heavy")
		case recent >= 5:
			r = r.add(20, "serial-creator")
		case recent >= 3:
			r = r.add(12, "repeat-creator")
		}
	}

	switch {
	case ch.TokenCount >= 20:
		r = r.add(15, "prolific-creator")
	case ch.TokenCount >= 10:
		r = r.add(8, "frequent-creator")
	case ch.TokenCount >= 5:
		r = r.add(4, "returning-creator")
	}

	if ch.RuggedTokens >= 3 {
		r = r.add(15, "creator-rug-history")
	}
	return r
}
