package enrich

import (
	"context"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
)

const (
	earlyBuyerWindowMs = 60_000
	sniperWindowMs      = 300_000
	referenceDriftMs    = 10 * 60_000
	launchHistoryLimit  = 100

	// microBuySOLThreshold is the per-spec micro-buy cutoff: a buy spending
	// less than this much SOL counts toward VolumeManipulation's
	// micro-buy-flooding share.
	microBuySOLThreshold = 0.01
)

// launchMetrics bundles the sniper/bundling analysis with the two
// volume-manipulation/airdrop signals derived from the same full-history
// fetch, so the orchestrator only pays for one GetTransactionHistory call.
type launchMetrics struct {
	Analysis              domain.LaunchAnalysis
	MicroBuyShare         float64
	AirdroppedSellerCount int
}

// launchAnalysis examines the mint's transaction history to surface
// sniper/bundling, micro-buy-flooding, and pre-trade-airdrop-dump signals.
// Full mode only — it costs a 100-tx history fetch the fast path can't
// afford.
func (o *Orchestrator) launchAnalysis(ctx context.Context, event domain.MigrationEvent) launchMetrics {
	if o.chain == nil {
		return launchMetrics{}
	}

	txs := o.chain.GetTransactionHistory(ctx, event.Mint, launchHistoryLimit, "", bundledFetchTimeout)
	if len(txs) == 0 {
		return launchMetrics{}
	}

	var swapTxs, transferTxs []providers.TxRecord
	for _, tx := range txs {
		if tx.Type == "swap" {
			swapTxs = append(swapTxs, tx)
		} else {
			transferTxs = append(transferTxs, tx)
		}
	}

	return launchMetrics{
		Analysis:              sniperBundleAnalysis(event, swapTxs),
		MicroBuyShare:         microBuyShare(swapTxs),
		AirdroppedSellerCount: airdroppedSellerCount(swapTxs, transferTxs),
	}
}

// sniperBundleAnalysis looks at the earliest swap activity against a mint
// to surface sniper/bundled-buy signals.
func sniperBundleAnalysis(event domain.MigrationEvent, swapTxs []providers.TxRecord) domain.LaunchAnalysis {
	if len(swapTxs) == 0 {
		return domain.LaunchAnalysis{}
	}

	reference := event.Timestamp
	var earliestTx int64 = -1
	var earliestSlot int64 = -1
	for _, tx := range swapTxs {
		if earliestTx == -1 || tx.Timestamp < earliestTx {
			earliestTx = tx.Timestamp
		}
		if earliestSlot == -1 || tx.Slot < earliestSlot {
			earliestSlot = tx.Slot
		}
	}
	if abs64(reference-earliestTx) > referenceDriftMs {
		reference = earliestTx
	}

	earlyBuyers := map[string]bool{}
	snipers := map[string]bool{}
	var earlySolSpent float64
	var earlyCount int
	bundledBuys := 0
	creatorBoughtBack := false

	for _, tx := range swapTxs {
		if tx.FeePayer == "" {
			continue
		}
		if event.Creator != "" && tx.FeePayer == event.Creator {
			creatorBoughtBack = true
		}
		if tx.Slot == earliestSlot {
			bundledBuys++
		}

		offset := tx.Timestamp - reference
		if offset < 0 {
			continue
		}
		if offset <= sniperWindowMs {
			snipers[tx.FeePayer] = true
		}
		if offset <= earlyBuyerWindowMs {
			earlyBuyers[tx.FeePayer] = true
			if spent := outgoingSOL(tx, tx.FeePayer); spent > 0 {
				earlySolSpent += spent
				earlyCount++
			}
		}
	}

	var avgFirstBuySize float64
	if earlyCount > 0 {
		avgFirstBuySize = earlySolSpent / float64(earlyCount)
	}

	return domain.LaunchAnalysis{
		BundledBuys:       bundledBuys,
		SniperCount:       len(snipers),
		AvgFirstBuySize:   avgFirstBuySize,
		CreatorBoughtBack: creatorBoughtBack,
	}
}

// microBuyShare is the share of buy swaps spending less than
// microBuySOLThreshold SOL, the VolumeManipulation micro-buy-flooding input.
func microBuyShare(swapTxs []providers.TxRecord) float64 {
	var buys, micro int
	for _, tx := range swapTxs {
		if tx.FeePayer == "" {
			continue
		}
		spent := outgoingSOL(tx, tx.FeePayer)
		if spent <= 0 {
			continue
		}
		buys++
		if spent < microBuySOLThreshold {
			micro++
		}
	}
	if buys == 0 {
		return 0
	}
	return float64(micro) / float64(buys)
}

// airdroppedSellerCount counts wallets that received a native-transfer
// "airdrop" before the mint's first observed trade and later sold — the
// AirdropScheme input. A sell is recognized as a swap in which the trader
// received SOL back (the wallet side of a token-for-SOL exit) rather than
// spent it.
func airdroppedSellerCount(swapTxs, transferTxs []providers.TxRecord) int {
	if len(swapTxs) == 0 || len(transferTxs) == 0 {
		return 0
	}

	var firstTrade int64 = -1
	sellers := map[string]bool{}
	for _, tx := range swapTxs {
		if firstTrade == -1 || tx.Timestamp < firstTrade {
			firstTrade = tx.Timestamp
		}
		if tx.FeePayer != "" && incomingSOL(tx, tx.FeePayer) > 0 {
			sellers[tx.FeePayer] = true
		}
	}
	if firstTrade == -1 {
		return 0
	}

	recipients := map[string]bool{}
	for _, tx := range transferTxs {
		if tx.Timestamp >= firstTrade {
			continue
		}
		for _, nt := range tx.NativeTransfers {
			recipients[nt.Destination] = true
		}
	}

	count := 0
	for r := range recipients {
		if sellers[r] {
			count++
		}
	}
	return count
}

// outgoingSOL sums the native transfers a wallet sent within a
// transaction — the SOL side of a buy swap.
func outgoingSOL(tx providers.TxRecord, wallet string) float64 {
	var total float64
	for _, nt := range tx.NativeTransfers {
		if nt.Source == wallet {
			total += nt.AmountSOL
		}
	}
	return total
}

// incomingSOL sums the native transfers a wallet received within a
// transaction — the SOL side of a sell swap.
func incomingSOL(tx providers.TxRecord, wallet string) float64 {
	var total float64
	for _, nt := range tx.NativeTransfers {
		if nt.Destination == wallet {
			total += nt.AmountSOL
		}
	}
	return total
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
