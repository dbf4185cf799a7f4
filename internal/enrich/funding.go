package enrich

import (
	"context"
	"sync"
	"time"

	"pumpwatch/internal/domain"
)

const (
	fundingHistoryLimit  = 20
	fundingBatchSize     = 5
	fundingPerWalletTime = 3 * time.Second
	freshWalletWindow    = 24 * time.Hour
)

// walletFundingAnalysis looks for a shared funding source across wallets —
// several top holders all receiving their opening SOL from the same
// address is a strong clustering signal. Runs for up to
// maxWalletFundingHolders wallets, fetched in parallel batches of
// fundingBatchSize.
func (o *Orchestrator) walletFundingAnalysis(ctx context.Context, wallets []string) domain.WalletFunding {
	if o.chain == nil || len(wallets) == 0 {
		return domain.WalletFunding{}
	}

	type walletInfo struct {
		wallet      string
		fundedBy    string // empty if no qualifying incoming transfer found
		firstSeenAt int64  // ms, earliest tx timestamp seen for this wallet
	}

	results := make([]walletInfo, len(wallets))
	sem := make(chan struct{}, fundingBatchSize)
	var wg sync.WaitGroup

	for i, w := range wallets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, wallet string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = walletInfo{wallet: wallet}

			txs := o.chain.GetTransactionHistory(ctx, wallet, fundingHistoryLimit, "", fundingPerWalletTime)
			if len(txs) == 0 {
				return
			}

			var first int64 = -1
			var fundedBy string
			var fundedByAmount float64
			for _, tx := range txs {
				if first == -1 || tx.Timestamp < first {
					first = tx.Timestamp
				}
				for _, nt := range tx.NativeTransfers {
					if nt.Destination != wallet || nt.AmountSOL <= minTransferSOL {
						continue
					}
					if nt.AmountSOL > fundedByAmount {
						fundedByAmount = nt.AmountSOL
						fundedBy = nt.Source
					}
				}
			}
			results[i] = walletInfo{wallet: wallet, fundedBy: fundedBy, firstSeenAt: first}
		}(i, w)
	}
	wg.Wait()

	bySource := map[string]int{}
	freshCutoff := time.Now().Add(-freshWalletWindow).UnixMilli()
	freshCount := 0
	probed := 0

	for _, r := range results {
		if r.firstSeenAt > 0 {
			probed++
			if r.firstSeenAt > freshCutoff {
				freshCount++
			}
		}
		if r.fundedBy != "" {
			bySource[r.fundedBy]++
		}
	}

	maxCluster := 0
	var commonSource string
	for src, n := range bySource {
		if n > maxCluster {
			maxCluster = n
			commonSource = src
		}
	}
	if maxCluster < 2 {
		commonSource = ""
	}

	suspicious := maxCluster >= 3
	if !suspicious && freshCount >= 3 && probed > 0 && float64(freshCount) >= 0.5*float64(probed) {
		suspicious = true
	}

	return domain.WalletFunding{
		ClusteredWallets:         maxCluster,
		CommonFundingSource:      commonSource,
		FreshWalletBuyers:        freshCount,
		SuspiciousFundingPattern: suspicious,
	}
}
