package enrich

import (
	"context"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
)

// onChainProbeResult is the raw on-chain holder/supply snapshot gathered by
// probeOnChain. It owns the top-5 owner lookups, so the honeypot signal
// (contractHolders) is computed here rather than by a second, concurrent
// probe touching the same accounts.
type onChainProbeResult struct {
	decimals               int
	supply                 float64
	largest                []providers.LargestAccount // up to 20, largest first
	top5Owners             []string                   // wallet owners of the top 5 token accounts
	devHoldingsPct         float64                     // 0 if creator unknown or not found in top holders
	topHoldersAreContracts bool                        // true if >=2 of top 5 token accounts are program-owned
}

// probeOnChain runs the on-chain holder/supply probe: getTokenSupply +
// getLargestTokenAccounts, then resolves the owners of the top 5 accounts
// (at most 5 owner lookups) to detect dev holdings and the honeypot signal.
func (o *Orchestrator) probeOnChain(ctx context.Context, mint, creator string) onChainProbeResult {
	if o.chain == nil {
		return onChainProbeResult{}
	}

	mintInfo, ok := o.chain.GetMintInfo(ctx, mint, onChainProbeTimeout)
	decimals := 0
	if ok {
		decimals = mintInfo.Decimals
	}

	supply := o.chain.GetTokenSupply(ctx, mint, onChainProbeTimeout)
	largest := o.chain.GetLargestTokenAccounts(ctx, mint, decimals, onChainProbeTimeout)
	if len(largest) > 20 {
		largest = largest[:20]
	}

	top5 := largest
	if len(top5) > 5 {
		top5 = top5[:5]
	}

	var devPct float64
	var owners []string
	contractCount := 0
	for _, acc := range top5 {
		owner := o.chain.GetAccountOwner(ctx, acc.TokenAccount, onChainProbeTimeout)
		if owner == "" {
			continue
		}
		owners = append(owners, owner)
		if creator != "" && owner == creator && supply > 0 {
			devPct += acc.UIAmount / supply
		}
		info, found := o.chain.GetAccountInfo(ctx, owner, onChainProbeTimeout)
		if found && info.Executable {
			contractCount++
		}
	}

	return onChainProbeResult{
		decimals:               decimals,
		supply:                 supply,
		largest:                largest,
		top5Owners:             owners,
		devHoldingsPct:         devPct,
		topHoldersAreContracts: len(top5) > 0 && contractCount >= 2,
	}
}

// probeSecurity runs the mint/freeze-authority probe. Per convention, a
// failed getMintInfo call is treated as "revoked" (the optimistic default
// for a pump.fun-graduated mint), while a successful probe reporting either
// authority still set is the anomalous case. The honeypot flag is merged in
// separately from the on-chain probe's result once both complete.
func (o *Orchestrator) probeSecurity(ctx context.Context, mint string, timeout time.Duration) domain.Security {
	if o.chain == nil {
		return domain.Security{}
	}

	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mintInfo, ok := o.chain.GetMintInfo(sctx, mint, timeout)
	sec := domain.Security{Probed: true}
	if !ok {
		sec.MintAuthorityRevoked = true
		sec.FreezeAuthorityRevoked = true
	} else {
		sec.MintAuthorityRevoked = mintInfo.MintAuthorityRevoked
		sec.FreezeAuthorityRevoked = mintInfo.FreezeAuthorityRevoked
		if !mintInfo.MintAuthorityRevoked || !mintInfo.FreezeAuthorityRevoked {
			sec.IsRugpullRisk = true
		}
	}
	return sec
}
