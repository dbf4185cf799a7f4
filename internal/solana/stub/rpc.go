// Package stub provides an in-memory solana.RPCClient for tests that
// exercise ChainRPC without hitting a real cluster.
package stub

import (
	"context"
	"errors"

	"pumpwatch/internal/solana"
)

// ErrNotFound is returned when a transaction, block, or asset is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	Transactions map[string]*solana.Transaction
	Blocks       map[int64]*solana.Block
	Signatures   map[string][]solana.SignatureInfo

	TokenSupplies    map[string]*solana.TokenSupply
	MintInfos        map[string]*solana.MintInfo
	LargestAccounts  map[string][]solana.TokenAccountBalance
	AccountOwners    map[string]string
	AccountInfos     map[string]*solana.AccountInfo
	Assets           map[string]*solana.Asset
	AssetsByCreator  map[string][]solana.Asset
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions:    make(map[string]*solana.Transaction),
		Blocks:          make(map[int64]*solana.Block),
		Signatures:      make(map[string][]solana.SignatureInfo),
		TokenSupplies:   make(map[string]*solana.TokenSupply),
		MintInfos:       make(map[string]*solana.MintInfo),
		LargestAccounts: make(map[string][]solana.TokenAccountBalance),
		AccountOwners:   make(map[string]string),
		AccountInfos:    make(map[string]*solana.AccountInfo),
		Assets:          make(map[string]*solana.Asset),
		AssetsByCreator: make(map[string][]solana.Asset),
	}
}

// GetTransaction retrieves a transaction by signature from the stub store.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	tx, ok := c.Transactions[signature]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

// GetBlock retrieves a block by slot from the stub store.
func (c *RPCClient) GetBlock(_ context.Context, slot int64) (*solana.Block, error) {
	block, ok := c.Blocks[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return block, nil
}

// GetSignaturesForAddress retrieves signatures for an address from the stub store.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	sigs, ok := c.Signatures[address]
	if !ok {
		return nil, nil
	}

	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}

	return sigs, nil
}

// GetTokenSupply retrieves the stubbed supply for mint, or nil if unset.
func (c *RPCClient) GetTokenSupply(_ context.Context, mint string) (*solana.TokenSupply, error) {
	return c.TokenSupplies[mint], nil
}

// GetMintInfo retrieves the stubbed mint authority state for mint, or nil if unset.
func (c *RPCClient) GetMintInfo(_ context.Context, mint string) (*solana.MintInfo, error) {
	return c.MintInfos[mint], nil
}

// GetLargestTokenAccounts retrieves the stubbed top holders for mint.
func (c *RPCClient) GetLargestTokenAccounts(_ context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	return c.LargestAccounts[mint], nil
}

// GetAccountOwner retrieves the stubbed owner for a token account.
func (c *RPCClient) GetAccountOwner(_ context.Context, tokenAccount string) (string, error) {
	return c.AccountOwners[tokenAccount], nil
}

// GetAccountInfo retrieves the stubbed account info for pubkey, or nil if unset.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	return c.AccountInfos[pubkey], nil
}

// GetAsset retrieves the stubbed DAS asset for assetID.
func (c *RPCClient) GetAsset(_ context.Context, assetID string) (*solana.Asset, error) {
	asset, ok := c.Assets[assetID]
	if !ok {
		return nil, ErrNotFound
	}
	return asset, nil
}

// GetAssetsByCreator retrieves the stubbed assets minted by creator, capped
// at limit.
func (c *RPCClient) GetAssetsByCreator(_ context.Context, creator string, limit int) ([]solana.Asset, error) {
	assets := c.AssetsByCreator[creator]
	if limit > 0 && limit < len(assets) {
		return assets[:limit], nil
	}
	return assets, nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.Transactions[tx.Signature] = tx
}

// AddBlock adds a block to the stub store.
func (c *RPCClient) AddBlock(block *solana.Block) {
	c.Blocks[block.Slot] = block
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(address string, sigs []solana.SignatureInfo) {
	c.Signatures[address] = sigs
}
