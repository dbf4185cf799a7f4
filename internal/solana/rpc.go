package solana

import "context"

// RPCClient defines Solana RPC HTTP interface.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetBlock retrieves a block by slot number.
	GetBlock(ctx context.Context, slot int64) (*Block, error)

	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTokenSupply retrieves total supply and decimals for an SPL mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error)

	// GetMintInfo retrieves mint/freeze authority state for an SPL mint.
	GetMintInfo(ctx context.Context, mint string) (*MintInfo, error)

	// GetLargestTokenAccounts retrieves the top holder accounts for a mint.
	GetLargestTokenAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// GetAccountOwner retrieves the wallet that owns a token account.
	GetAccountOwner(ctx context.Context, tokenAccount string) (string, error)

	// GetAccountInfo retrieves account info by public key.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetAsset fetches DAS metadata for a single asset.
	GetAsset(ctx context.Context, assetID string) (*Asset, error)

	// GetAssetsByCreator lists assets minted by a creator wallet.
	GetAssetsByCreator(ctx context.Context, creator string, limit int) ([]Asset, error)
}

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err          interface{}
	LogMessages  []string
	PreBalances  []int64 // lamports, indexed like Message.AccountKeys
	PostBalances []int64
}

// TransactionMessage contains parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}
