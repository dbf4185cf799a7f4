package enrich

import (
	"testing"

	"pumpwatch/internal/providers"
)

func TestMicroBuyShare_CountsOnlyBuysBelowThreshold(t *testing.T) {
	txs := []providers.TxRecord{
		{FeePayer: "a", NativeTransfers: []providers.NativeTransfer{{Source: "a", Destination: "curve", AmountSOL: 0.005}}},
		{FeePayer: "b", NativeTransfers: []providers.NativeTransfer{{Source: "b", Destination: "curve", AmountSOL: 0.5}}},
		{FeePayer: "c", NativeTransfers: []providers.NativeTransfer{{Source: "c", Destination: "curve", AmountSOL: 0.002}}},
	}

	got := microBuyShare(txs)
	want := 2.0 / 3.0
	if got != want {
		t.Fatalf("microBuyShare = %v, want %v", got, want)
	}
}

func TestMicroBuyShare_IgnoresSells(t *testing.T) {
	txs := []providers.TxRecord{
		{FeePayer: "a", NativeTransfers: []providers.NativeTransfer{{Source: "curve", Destination: "a", AmountSOL: 0.5}}},
	}

	if got := microBuyShare(txs); got != 0 {
		t.Fatalf("microBuyShare = %v, want 0", got)
	}
}

func TestMicroBuyShare_NoBuysReturnsZero(t *testing.T) {
	if got := microBuyShare(nil); got != 0 {
		t.Fatalf("microBuyShare = %v, want 0", got)
	}
}

func TestAirdroppedSellerCount_RecipientWhoLaterSellsCounted(t *testing.T) {
	transferTxs := []providers.TxRecord{
		{Timestamp: 100, NativeTransfers: []providers.NativeTransfer{{Source: "creator", Destination: "wallet1", AmountSOL: 0.2}}},
	}
	swapTxs := []providers.TxRecord{
		{Timestamp: 200, FeePayer: "wallet1", NativeTransfers: []providers.NativeTransfer{{Source: "curve", Destination: "wallet1", AmountSOL: 1.0}}},
	}

	if got := airdroppedSellerCount(swapTxs, transferTxs); got != 1 {
		t.Fatalf("airdroppedSellerCount = %d, want 1", got)
	}
}

func TestAirdroppedSellerCount_TransferAfterFirstTradeIgnored(t *testing.T) {
	swapTxs := []providers.TxRecord{
		{Timestamp: 100, FeePayer: "trader", NativeTransfers: []providers.NativeTransfer{{Source: "trader", Destination: "curve", AmountSOL: 1.0}}},
	}
	transferTxs := []providers.TxRecord{
		{Timestamp: 200, NativeTransfers: []providers.NativeTransfer{{Source: "creator", Destination: "wallet1", AmountSOL: 0.2}}},
	}

	if got := airdroppedSellerCount(swapTxs, transferTxs); got != 0 {
		t.Fatalf("airdroppedSellerCount = %d, want 0 (transfer occurred after first trade)", got)
	}
}

func TestAirdroppedSellerCount_RecipientWhoNeverSellsNotCounted(t *testing.T) {
	transferTxs := []providers.TxRecord{
		{Timestamp: 100, NativeTransfers: []providers.NativeTransfer{{Source: "creator", Destination: "wallet1", AmountSOL: 0.2}}},
	}
	swapTxs := []providers.TxRecord{
		{Timestamp: 200, FeePayer: "wallet2", NativeTransfers: []providers.NativeTransfer{{Source: "curve", Destination: "wallet2", AmountSOL: 1.0}}},
	}

	if got := airdroppedSellerCount(swapTxs, transferTxs); got != 0 {
		t.Fatalf("airdroppedSellerCount = %d, want 0", got)
	}
}

func TestOutgoingIncomingSOL(t *testing.T) {
	tx := providers.TxRecord{NativeTransfers: []providers.NativeTransfer{
		{Source: "a", Destination: "b", AmountSOL: 0.3},
		{Source: "b", Destination: "a", AmountSOL: 0.1},
	}}

	if got := outgoingSOL(tx, "a"); got != 0.3 {
		t.Fatalf("outgoingSOL = %v, want 0.3", got)
	}
	if got := incomingSOL(tx, "a"); got != 0.1 {
		t.Fatalf("incomingSOL = %v, want 0.1", got)
	}
}
