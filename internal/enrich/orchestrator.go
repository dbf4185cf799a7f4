// Package enrich implements the Enrichment Orchestrator: it fans a
// MigrationEvent out to every provider, under a hard deadline, and fuses
// the results into a TokenRecord. It never blocks past its deadline and
// never panics out to the caller.
package enrich

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/providers"
)

// Mode selects the enrichment depth.
type Mode int

const (
	ModeFast Mode = iota
	ModeFull
)

const (
	fastDeadline = 6 * time.Second
	fullDeadline = 10 * time.Second

	creatorResolveTimeout = 3 * time.Second
	securityTimeoutFast   = 2 * time.Second
	securityTimeoutFull   = 4 * time.Second
	onChainProbeTimeout   = 4 * time.Second
	bundledFetchTimeout   = 4 * time.Second
	imageFetchTimeout     = 3 * time.Second

	maxWalletFundingHolders = 10
	minTransferSOL          = 0.01
)

// Options wires the Orchestrator to its providers.
type Options struct {
	GraduatedIndex *providers.GraduatedTokenIndex
	PairIndex      *providers.PairIndex
	Holders        *providers.HolderRegistry
	Swaps          *providers.Swaps
	ChainRPC       *providers.ChainRPC
	Price          *providers.PriceOracle
	Log            *log.Logger
}

// Orchestrator is the Enrichment Orchestrator.
type Orchestrator struct {
	graduated *providers.GraduatedTokenIndex
	pairs     *providers.PairIndex
	holders   *providers.HolderRegistry
	swaps     *providers.Swaps
	chain     *providers.ChainRPC
	price     *providers.PriceOracle
	log       *log.Logger
}

// New builds an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Log
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		graduated: opts.GraduatedIndex,
		pairs:     opts.PairIndex,
		holders:   opts.Holders,
		swaps:     opts.Swaps,
		chain:     opts.ChainRPC,
		price:     opts.Price,
		log:       logger,
	}
}

// Enrich fuses event into a TokenRecord under mode's deadline. Always
// returns a complete record — fields that could not be resolved in time
// carry their sentinel values.
func (o *Orchestrator) Enrich(ctx context.Context, event domain.MigrationEvent, mode Mode) domain.TokenRecord {
	deadline := fastDeadline
	if mode == ModeFull {
		deadline = fullDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	record := domain.TokenRecord{
		Address:            event.Mint,
		MigrationTimestamp: event.Timestamp,
		Metadata: domain.Metadata{
			Name:    event.Name,
			Symbol:  event.Symbol,
			Creator: event.Creator,
			Image:   resolveImagePreview(event.URI),
		},
	}
	if record.Metadata.Image == "" && mode == ModeFull {
		record.Metadata.Image = fetchMetadataImage(ctx, event.URI, imageFetchTimeout)
	}

	creator := event.Creator
	if creator == "" && o.chain != nil {
		creator = o.chain.GetCreatorFromAsset(ctx, event.Mint, creatorResolveTimeout)
	}
	record.Metadata.Creator = creator

	var pairs []providers.Pair
	var holderStats providers.HolderStats
	var topHolders []providers.Holder
	var swaps []providers.Swap
	var onChain onChainProbeResult
	var security domain.Security
	var launch launchMetrics
	var funding domain.WalletFunding
	var creatorHist domain.CreatorHistory

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if o.pairs != nil {
			pairs = o.pairs.GetPairs(gctx, event.Mint)
		}
		return nil
	})
	g.Go(func() error {
		if o.holders != nil {
			holderStats = o.holders.GetHolderStats(gctx, event.Mint)
			topHolders = o.holders.GetTopHolders(gctx, event.Mint, 10)
		}
		return nil
	})
	g.Go(func() error {
		if o.swaps != nil {
			since := time.Now().Add(-24 * time.Hour).UnixMilli()
			swaps = o.swaps.GetRecentSwaps(gctx, event.Mint, since, 100, 3)
		}
		return nil
	})
	g.Go(func() error {
		onChain = o.probeOnChain(gctx, event.Mint, creator)
		return nil
	})
	g.Go(func() error {
		securityTimeout := securityTimeoutFast
		if mode == ModeFull {
			securityTimeout = securityTimeoutFull
		}
		security = o.probeSecurity(ctx, event.Mint, securityTimeout)
		return nil
	})
	if mode == ModeFull {
		g.Go(func() error {
			launch = o.launchAnalysis(gctx, event)
			return nil
		})
	}
	if creator != "" {
		g.Go(func() error {
			creatorHist = o.creatorHistory(gctx, creator)
			return nil
		})
	}

	_ = g.Wait() // sub-tasks never return error; deadline expiry just leaves zero values

	// Honeypot signal merges in from the on-chain probe, which owns the one
	// set of top-5-account owner lookups (avoids a second concurrent probe
	// of the same accounts).
	security.TopHoldersAreContracts = onChain.topHoldersAreContracts

	// Wallet-funding analysis depends on the just-resolved holder list, so
	// it runs after the parallel fetch rather than racing it.
	funding = o.walletFundingAnalysis(ctx, fundingCandidates(topHolders, onChain))

	record.PriceData = fusePriceData(event, pairs, swaps)
	record.Statistics = fuseStatistics(holderStats, onChain, swaps)
	record.Statistics.MicroBuyShare = launch.MicroBuyShare
	record.Statistics.AirdroppedSellerCount = launch.AirdroppedSellerCount
	record.Security = security
	record.LaunchAnalysis = launch.Analysis
	record.WalletFunding = funding
	record.CreatorHistory = creatorHist
	record.AnalyzedAt = time.Now().UnixMilli()

	return record
}

// fundingCandidates picks up to maxWalletFundingHolders holder wallets to
// analyze for shared funding sources, preferring the off-chain holder
// registry's labeled list (which can exclude known LP/program accounts)
// and falling back to the on-chain largest-accounts probe.
func fundingCandidates(topHolders []providers.Holder, onChain onChainProbeResult) []string {
	var wallets []string
	for _, h := range topHolders {
		if h.Label != "" {
			continue
		}
		wallets = append(wallets, h.Owner)
		if len(wallets) == maxWalletFundingHolders {
			return wallets
		}
	}
	if len(wallets) > 0 {
		return wallets
	}
	for _, owner := range onChain.top5Owners {
		wallets = append(wallets, owner)
		if len(wallets) == maxWalletFundingHolders {
			break
		}
	}
	return wallets
}

// resolveImagePreview applies the cheap half of the image precedence rule:
// a URI that is itself an image URL or known CDN link is used directly.
// Metadata-URI fetching (the expensive half) happens in full mode only, see
// metadata.go.
func resolveImagePreview(uri string) string {
	if uri == "" {
		return ""
	}
	if hasImageExtension(uri) || isKnownCDN(uri) {
		return uri
	}
	return ""
}
