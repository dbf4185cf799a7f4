package scoring

import "pumpwatch/internal/domain"

// primaryRiskPriority is the fixed order flags are considered for
// DangerScore.PrimaryRisks, highest-signal first.
var primaryRiskPriority = []string{
	"rug-in-progress",
	"coordinated-dump",
	"insider-activity",
	"pump-setup",
	"dump-in-progress",
	"mega-whale",
	"mint-not-revoked",
	"lp-not-locked",
	"bundled-launch",
	"very-high-concentration",
	"dangerously-low-liquidity",
	"heavy-sniper-activity",
	"low-holders",
	"no-social-links",
}

func computeDangerScore(c checkContext, score int, composites domain.CompositeRisks, flags []string) domain.DangerScore {
	danger := 100 - clamp(score, 0, 100)

	if composites.RugInProgress {
		danger += 20
	}
	if composites.PumpSetup {
		danger += 15
	}
	if composites.WashTrading {
		danger += 10
	}
	if composites.CoordinatedDump {
		danger += 10
	}
	if composites.InsiderAccumulation {
		danger += 5
	}
	danger = clamp(danger, 0, 100)

	confidence := domain.ConfidenceHigh
	if c.record.Statistics.HolderCount <= 0 {
		confidence = domain.ConfidenceMedium
	}
	if !c.record.Security.Probed || c.record.PriceData.Trades24h == 0 {
		confidence = domain.ConfidenceLow
	}

	category := categorize(danger)

	present := make(map[string]bool, len(flags))
	for _, f := range flags {
		present[f] = true
	}
	var primary []string
	for _, f := range primaryRiskPriority {
		if present[f] {
			primary = append(primary, f)
			if len(primary) == 3 {
				break
			}
		}
	}

	var positive []string
	for _, f := range flags {
		if isPositiveSignal(f) {
			positive = append(positive, f)
		}
	}

	return domain.DangerScore{
		Overall:         danger,
		Confidence:      confidence,
		Category:        category,
		PrimaryRisks:    primary,
		PositiveSignals: positive,
	}
}

func categorize(danger int) domain.DangerCategory {
	switch {
	case danger >= 80:
		return domain.CategoryExtreme
	case danger >= 60:
		return domain.CategoryHighRisk
	case danger >= 40:
		return domain.CategoryModerate
	case danger >= 20:
		return domain.CategoryLowRisk
	default:
		return domain.CategorySafe
	}
}

func isPositiveSignal(flag string) bool {
	switch flag {
	case "established-age", "mature-age", "strong-holder-base", "solid-holder-base",
		"balanced-trading", "healthy-liquidity-ratio", "strong-social-presence", "fully-secured":
		return true
	default:
		return false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
