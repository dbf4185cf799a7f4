package scoring

import (
	"testing"
	"time"

	"pumpwatch/internal/domain"
)

func healthyRecord() domain.TokenRecord {
	return domain.TokenRecord{
		Metadata: domain.Metadata{
			Name: "Solid Token", Twitter: "https://x.com/solid", Website: "https://solid.xyz",
		},
		PriceData: domain.PriceData{
			Price: 0.002, MarketCap: 500_000, Liquidity: 80_000, Volume24h: 120_000,
			Trades24h: 400, Buys24h: 210, Sells24h: 190,
			PairCreatedAt: nowMinusHours(100),
		},
		Statistics: domain.Statistics{
			HolderCount: 800, UniqueTraders: 300, Top10Concentration: 0.18, DevHoldings: 0.04,
			LargestHolderPercent: 0.05,
		},
		Security: domain.Security{
			Probed: true, MintAuthorityRevoked: true, FreezeAuthorityRevoked: true,
			LPLocked: true, LPLockPercentage: 100,
		},
		CreatorHistory: domain.CreatorHistory{},
		MigrationTimestamp: nowMinusHours(100),
	}
}

func riskyRecord() domain.TokenRecord {
	return domain.TokenRecord{
		Metadata: domain.Metadata{Name: "Elon Official Coin"},
		PriceData: domain.PriceData{
			Price: 0.0000001, MarketCap: 20_000, Liquidity: 400, Volume24h: 50_000,
			Trades24h: 300, Buys24h: 270, Sells24h: 30,
			PairCreatedAt: nowMinusHours(0.1),
		},
		Statistics: domain.Statistics{
			HolderCount: 12, UniqueTraders: 5, Top10Concentration: 0.85, DevHoldings: 0.40,
			LargestHolderPercent: 0.35,
		},
		Security: domain.Security{Probed: false},
		LaunchAnalysis: domain.LaunchAnalysis{
			BundledBuys: 5, SniperCount: 25, AvgFirstBuySize: 8,
		},
		WalletFunding: domain.WalletFunding{
			ClusteredWallets: 6, FreshWalletBuyers: 6, SuspiciousFundingPattern: true,
		},
		CreatorHistory: domain.CreatorHistory{
			IsSerialCreator: true, RecentTokens: []string{"a", "b", "c", "d", "e", "f"},
			TokenCount: 22, RuggedTokens: 4,
		},
		MigrationTimestamp: nowMinusHours(0.1),
	}
}

func nowMinusHours(h float64) int64 {
	return time.Now().Add(-time.Duration(h * float64(time.Hour))).UnixMilli()
}

func TestScore_HealthyTokenPasses(t *testing.T) {
	cfg := DefaultConfig()
	result := Score(healthyRecord(), cfg)

	if !result.Passed {
		t.Fatalf("expected healthy token to pass, got score=%d flags=%v", result.Score, result.Flags)
	}
	if result.Score < cfg.MinScore {
		t.Errorf("score %d below threshold %d", result.Score, cfg.MinScore)
	}
	if result.DangerScore.Category != domain.CategorySafe && result.DangerScore.Category != domain.CategoryLowRisk {
		t.Errorf("expected low danger category, got %s", result.DangerScore.Category)
	}
}

func TestScore_RiskyTokenFails(t *testing.T) {
	cfg := DefaultConfig()
	result := Score(riskyRecord(), cfg)

	if result.Passed {
		t.Fatalf("expected risky token to fail, got score=%d", result.Score)
	}
	if result.DangerScore.Category != domain.CategoryExtreme && result.DangerScore.Category != domain.CategoryHighRisk {
		t.Errorf("expected high danger category, got %s", result.DangerScore.Category)
	}
	if len(result.DangerScore.PrimaryRisks) == 0 {
		t.Error("expected at least one primary risk flag")
	}
}

func TestScore_UnknownHolderCountSkipsPenalty(t *testing.T) {
	record := healthyRecord()
	record.Statistics.HolderCount = -1

	result := Score(record, DefaultConfig())
	breakdown := result.Breakdown["HolderDistribution"]
	for _, f := range breakdown.Flags {
		if f == "low-holders" || f == "below-average-holders" {
			t.Errorf("unknown holder count must not trigger holder-count penalties, got flag %s", f)
		}
	}
}

func TestScore_SecurityAbsentAppliesSentinelPenalty(t *testing.T) {
	record := healthyRecord()
	record.Security = domain.Security{}

	result := Score(record, DefaultConfig())
	breakdown := result.Breakdown["Security"]
	if breakdown.Penalty != 5 {
		t.Errorf("expected exactly the 5-point absent penalty, got %d (flags=%v)", breakdown.Penalty, breakdown.Flags)
	}
	if result.DangerScore.Confidence != domain.ConfidenceLow {
		t.Errorf("expected low confidence when security unprobed, got %s", result.DangerScore.Confidence)
	}
}

func TestScore_EachCheckPenaltyRespectsCap(t *testing.T) {
	result := Score(riskyRecord(), DefaultConfig())
	for name, b := range result.Breakdown {
		if b.Penalty > b.MaxScore {
			t.Errorf("check %s penalty %d exceeds cap %d", name, b.Penalty, b.MaxScore)
		}
	}
}

func TestScore_ScoreClampedToRange(t *testing.T) {
	for _, rec := range []domain.TokenRecord{healthyRecord(), riskyRecord()} {
		result := Score(rec, DefaultConfig())
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score %d out of [0,100]", result.Score)
		}
		if result.DangerScore.Overall < 0 || result.DangerScore.Overall > 100 {
			t.Errorf("danger score %d out of [0,100]", result.DangerScore.Overall)
		}
	}
}
