package naming

import (
	"math/rand"
	"testing"

	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
)

func TestBlind_Deterministic(t *testing.T) {
	var nonce [covenant.NonceSize]byte
	nonce[0] = 0xaa

	if Blind(1000, nonce) != Blind(1000, nonce) {
		t.Error("same amount and nonce should blind identically")
	}
	if Blind(1000, nonce) == Blind(1001, nonce) {
		t.Error("different amounts should blind differently")
	}
	var other [covenant.NonceSize]byte
	other[0] = 0xbb
	if Blind(1000, nonce) == Blind(1000, other) {
		t.Error("different nonces should blind differently")
	}
}

func TestRenewalProof_SeededByCount(t *testing.T) {
	nameHash := HashName("example")
	if RenewalProof(nameHash, 0) == RenewalProof(nameHash, 1) {
		t.Error("consecutive renewals should need distinct proofs")
	}
	if RenewalProof(nameHash, 3) != RenewalProof(nameHash, 3) {
		t.Error("proof should be deterministic")
	}
}

func TestComputeWinner_Empty(t *testing.T) {
	if got := ComputeWinner(nil); got != nil {
		t.Errorf("ComputeWinner(nil) = %+v, want nil", got)
	}
}

func TestComputeWinner_SoleReveal(t *testing.T) {
	reveals := []RevealState{
		{Outpoint: testOutpoint(1), Bid: 1500, Lockup: 2000, Height: 110},
	}
	result := ComputeWinner(reveals)
	if result == nil {
		t.Fatal("sole reveal should win")
	}
	if result.Winner.Outpoint != testOutpoint(1) {
		t.Errorf("winner = %s", result.Winner.Outpoint)
	}
	// With a single reveal the winner pays their own bid.
	if result.Settlement != 1500 {
		t.Errorf("settlement = %d, want 1500", result.Settlement)
	}
	if len(result.Losers) != 0 {
		t.Errorf("losers = %d, want 0", len(result.Losers))
	}
}

func TestComputeWinner_SecondPrice(t *testing.T) {
	reveals := []RevealState{
		{Outpoint: testOutpoint(1), Bid: 1000, Lockup: 2000, Height: 110, TxIndex: 0},
		{Outpoint: testOutpoint(2), Bid: 2000, Lockup: 3000, Height: 110, TxIndex: 1},
		{Outpoint: testOutpoint(3), Bid: 500, Lockup: 500, Height: 111, TxIndex: 0},
	}
	result := ComputeWinner(reveals)
	if result == nil {
		t.Fatal("expected a winner")
	}
	if result.Winner.Outpoint != testOutpoint(2) {
		t.Errorf("winner = %s, want highest bid", result.Winner.Outpoint)
	}
	if result.Settlement != 1000 {
		t.Errorf("settlement = %d, want second-highest 1000", result.Settlement)
	}
	if len(result.Losers) != 2 {
		t.Errorf("losers = %d, want 2", len(result.Losers))
	}
}

func TestComputeWinner_TieBreak(t *testing.T) {
	// Equal bids: earlier (height, txIndex, outIndex) wins.
	early := RevealState{Outpoint: testOutpoint(1), Bid: 1000, Height: 110, TxIndex: 2, OutIndex: 0}
	late := RevealState{Outpoint: testOutpoint(2), Bid: 1000, Height: 110, TxIndex: 2, OutIndex: 1}
	sameTx := RevealState{Outpoint: testOutpoint(3), Bid: 1000, Height: 111, TxIndex: 0, OutIndex: 0}

	result := ComputeWinner([]RevealState{sameTx, late, early})
	if result.Winner.Outpoint != early.Outpoint {
		t.Errorf("winner = %s, want earliest reveal", result.Winner.Outpoint)
	}
	if result.Settlement != 1000 {
		t.Errorf("settlement = %d, want 1000", result.Settlement)
	}
}

func TestComputeWinner_OrderIndependent(t *testing.T) {
	reveals := []RevealState{
		{Outpoint: testOutpoint(1), Bid: 700, Height: 110, TxIndex: 0},
		{Outpoint: testOutpoint(2), Bid: 900, Height: 110, TxIndex: 1},
		{Outpoint: testOutpoint(3), Bid: 900, Height: 110, TxIndex: 2},
		{Outpoint: testOutpoint(4), Bid: 100, Height: 112, TxIndex: 0},
	}
	want := ComputeWinner(reveals)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]RevealState, len(reveals))
		copy(shuffled, reveals)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ComputeWinner(shuffled)
		if got.Winner.Outpoint != want.Winner.Outpoint || got.Settlement != want.Settlement {
			t.Fatalf("shuffle %d: winner %s settlement %d, want %s %d",
				i, got.Winner.Outpoint, got.Settlement, want.Winner.Outpoint, want.Settlement)
		}
	}
}

func TestRevealState_Before(t *testing.T) {
	a := RevealState{Height: 110, TxIndex: 1, OutIndex: 2}
	tests := []struct {
		b    RevealState
		want bool
	}{
		{RevealState{Height: 111, TxIndex: 0, OutIndex: 0}, true},
		{RevealState{Height: 110, TxIndex: 2, OutIndex: 0}, true},
		{RevealState{Height: 110, TxIndex: 1, OutIndex: 3}, true},
		{RevealState{Height: 110, TxIndex: 1, OutIndex: 2}, false},
		{RevealState{Height: 109, TxIndex: 9, OutIndex: 9}, false},
	}
	for i, tt := range tests {
		if got := a.Before(tt.b); got != tt.want {
			t.Errorf("case %d: Before = %v, want %v", i, got, tt.want)
		}
	}
}
