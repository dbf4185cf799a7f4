// Package scoring implements the deterministic, synchronous, I/O-free
// Scoring Engine: TokenRecord in, AnalysisResult out.
package scoring

import (
	"pumpwatch/internal/domain"
)

// Score evaluates record under cfg and returns the full analysis. Pure
// function: no I/O, no suspension points, no randomness.
func Score(record domain.TokenRecord, cfg Config) domain.AnalysisResult {
	ctx := newCheckContext(record, cfg)

	breakdown := make(map[string]domain.CheckBreakdown, len(allChecks))
	score := 100
	var allFlags []string

	for _, c := range allChecks {
		res := c.run(ctx)
		if res.penalty > res.cap {
			res.penalty = res.cap
		}
		if res.penalty < 0 {
			res.penalty = 0
		}
		breakdown[c.name] = domain.CheckBreakdown{
			Penalty:  res.penalty,
			MaxScore: res.cap,
			Flags:    res.flags,
		}
		score -= res.penalty
		allFlags = append(allFlags, res.flags...)
	}

	composites := computeCompositeRisks(ctx, breakdown)
	if composites.RugInProgress {
		score -= 20
		allFlags = append(allFlags, "rug-in-progress")
	}
	if composites.PumpSetup {
		score -= 10
		allFlags = append(allFlags, "pump-setup")
	}
	if composites.WashTrading {
		score -= 10
		allFlags = append(allFlags, "wash-trading")
	}
	if composites.CoordinatedDump {
		score -= 15
		allFlags = append(allFlags, "coordinated-dump")
	}
	if composites.InsiderAccumulation {
		score -= 15
		allFlags = append(allFlags, "insider-activity")
	}

	bonus, bonusFlags := computeBonuses(ctx)
	score += bonus
	allFlags = append(allFlags, bonusFlags...)

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	danger := computeDangerScore(ctx, score, composites, allFlags)

	return domain.AnalysisResult{
		Passed:          score >= cfg.MinScore,
		Score:           score,
		Flags:           dedupe(allFlags),
		Breakdown:       breakdown,
		DangerScore:     danger,
		CompositeRisks:  composites,
		PositiveSignals: bonusFlags,
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
