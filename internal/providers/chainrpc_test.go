package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pumpwatch/internal/solana"
	"pumpwatch/internal/solana/stub"
)

func TestChainRPC_GetMintInfo(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.MintInfos["mint1"] = &solana.MintInfo{MintAuthorityRevoked: true, FreezeAuthorityRevoked: true, Supply: "1000000", Decimals: 6}

	c := NewChainRPC(rpc, nil)
	info, ok := c.GetMintInfo(context.Background(), "mint1", time.Second)
	require.True(t, ok)
	require.True(t, info.MintAuthorityRevoked)
	require.True(t, info.FreezeAuthorityRevoked)
}

func TestChainRPC_GetMintInfo_MissingReturnsNotOK(t *testing.T) {
	rpc := stub.NewRPCClient()
	c := NewChainRPC(rpc, nil)

	_, ok := c.GetMintInfo(context.Background(), "missing", time.Second)
	require.False(t, ok)
}

func TestChainRPC_GetTokenSupply_DecimalAdjusts(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.TokenSupplies["mint1"] = &solana.TokenSupply{Amount: "1000000000", Decimals: 9}

	c := NewChainRPC(rpc, nil)
	supply := c.GetTokenSupply(context.Background(), "mint1", time.Second)
	require.Equal(t, 1.0, supply)
}

func TestChainRPC_GetTokenSupply_MissingReturnsZero(t *testing.T) {
	rpc := stub.NewRPCClient()
	c := NewChainRPC(rpc, nil)

	require.Equal(t, 0.0, c.GetTokenSupply(context.Background(), "missing", time.Second))
}

func TestChainRPC_GetLargestTokenAccounts_DecimalAdjusts(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.LargestAccounts["mint1"] = []solana.TokenAccountBalance{
		{Address: "acct1", Amount: "5000000"},
		{Address: "acct2", Amount: "2500000"},
	}

	c := NewChainRPC(rpc, nil)
	accounts := c.GetLargestTokenAccounts(context.Background(), "mint1", 6, time.Second)
	require.Len(t, accounts, 2)
	require.Equal(t, "acct1", accounts[0].TokenAccount)
	require.Equal(t, 5.0, accounts[0].UIAmount)
	require.Equal(t, 2.5, accounts[1].UIAmount)
}

func TestChainRPC_GetAccountOwner(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AccountOwners["acct1"] = "owner1"

	c := NewChainRPC(rpc, nil)
	require.Equal(t, "owner1", c.GetAccountOwner(context.Background(), "acct1", time.Second))
}

func TestChainRPC_GetAccountInfo(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AccountInfos["wallet1"] = &solana.AccountInfo{Executable: true, Owner: "BPFLoader"}

	c := NewChainRPC(rpc, nil)
	info, ok := c.GetAccountInfo(context.Background(), "wallet1", time.Second)
	require.True(t, ok)
	require.True(t, info.Executable)
	require.Equal(t, "BPFLoader", info.Owner)
}

func TestChainRPC_GetTransactionHistory_ClassifiesSwapAndTransfer(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddSignatures("wallet1", []solana.SignatureInfo{{Signature: "sig1", Slot: 100}, {Signature: "sig2", Slot: 101}})
	rpc.AddTransaction(&solana.Transaction{
		Slot: 100, Signature: "sig1", BlockTime: 1000,
		Meta:    &solana.TransactionMeta{LogMessages: []string{"Program log: Instruction: Swap"}, PreBalances: []int64{5_000_000_000, 1_000_000_000}, PostBalances: []int64{4_000_000_000, 2_000_000_000}},
		Message: &solana.TransactionMessage{AccountKeys: []string{"walletA", "walletB"}},
	})
	rpc.AddTransaction(&solana.Transaction{
		Slot: 101, Signature: "sig2", BlockTime: 1001,
		Meta:    &solana.TransactionMeta{LogMessages: []string{"Program log: Transfer"}},
		Message: &solana.TransactionMessage{AccountKeys: []string{"walletA"}},
	})

	c := NewChainRPC(rpc, nil)
	history := c.GetTransactionHistory(context.Background(), "wallet1", 10, "", time.Second)
	require.Len(t, history, 2)
	require.Equal(t, "swap", history[0].Type)
	require.Len(t, history[0].NativeTransfers, 1)
	require.Equal(t, "transfer", history[1].Type)
}

func TestChainRPC_GetCreatorFromAsset(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.Assets["mint1"] = &solana.Asset{ID: "mint1", Creator: "creatorWallet"}

	c := NewChainRPC(rpc, nil)
	require.Equal(t, "creatorWallet", c.GetCreatorFromAsset(context.Background(), "mint1", time.Second))
}

func TestChainRPC_GetCreatorFromAsset_MissingReturnsEmpty(t *testing.T) {
	rpc := stub.NewRPCClient()
	c := NewChainRPC(rpc, nil)

	require.Equal(t, "", c.GetCreatorFromAsset(context.Background(), "missing", time.Second))
}

func TestChainRPC_GetAssetsByCreator(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AssetsByCreator["creator1"] = []solana.Asset{
		{ID: "mintA", CreatedAt: "2026-01-01T00:00:00Z", Interface: "FungibleToken", Supply: 1_000_000},
		{ID: "mintB", CreatedAt: "2026-02-01T00:00:00Z", Interface: "V1_NFT"},
	}

	c := NewChainRPC(rpc, nil)
	assets := c.GetAssetsByCreator(context.Background(), "creator1", 10, time.Second)
	require.Len(t, assets, 2)
	require.True(t, assets[0].IsFungible)
	require.False(t, assets[1].IsFungible)
}
