package naming

import (
	"encoding/binary"

	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Blind computes the one-way commitment a BID posts for a concealed
// amount: BLAKE3(amount_le64 || nonce). The lockup published alongside it
// bounds the amount from above without revealing it.
func Blind(amount uint64, nonce [covenant.NonceSize]byte) types.Hash {
	var buf [8 + covenant.NonceSize]byte
	binary.LittleEndian.PutUint64(buf[:8], amount)
	copy(buf[8:], nonce[:])
	return crypto.Hash(buf[:])
}

// RenewalProof derives the deterministic proof a RENEW must present,
// seeded by the renewals counter so each renewal is distinct and
// replay-proof: BLAKE3(nameHash || renewals_le32).
func RenewalProof(nameHash types.NameHash, renewals uint32) types.Hash {
	var buf [types.HashSize + 4]byte
	copy(buf[:types.HashSize], nameHash[:])
	binary.LittleEndian.PutUint32(buf[types.HashSize:], renewals)
	return crypto.Hash(buf[:])
}

// claimContext domain-separates claim-proof digests from all other hashing.
const claimContext = "klingnet-names/claim"

// ClaimDigest is the message a reserved-name claim proof signs:
// BLAKE3(context || nameHash || claimant address).
func ClaimDigest(nameHash types.NameHash, addr types.Address) types.Hash {
	return crypto.HashAll([]byte(claimContext), nameHash[:], addr[:])
}

// BidState records a posted blind bid, keyed by (name hash, outpoint).
// Created by BID, consumed by REVEAL; forfeited if never revealed.
type BidState struct {
	NameHash types.NameHash `json:"name_hash"`
	Outpoint types.Outpoint `json:"outpoint"`
	Blind    types.Hash     `json:"blind"`
	Lockup   uint64         `json:"lockup"`
	Height   uint64         `json:"height"`
}

// RevealState records a disclosed bid. The position fields pin the
// canonical total order used for tie-breaking.
type RevealState struct {
	NameHash types.NameHash `json:"name_hash"`
	Outpoint types.Outpoint `json:"outpoint"`
	Bid      uint64         `json:"bid"`
	Lockup   uint64         `json:"lockup"`
	Height   uint64         `json:"height"`
	TxIndex  uint32         `json:"tx_index"`
	OutIndex uint32         `json:"out_index"`
}

// Before orders reveals canonically: by height, then transaction index
// within the block, then output index within the transaction. This order
// is consensus-critical; it is the only tie-break for equal bids.
func (r RevealState) Before(other RevealState) bool {
	if r.Height != other.Height {
		return r.Height < other.Height
	}
	if r.TxIndex != other.TxIndex {
		return r.TxIndex < other.TxIndex
	}
	return r.OutIndex < other.OutIndex
}

// AuctionResult is the outcome of winner selection for one auction cycle.
type AuctionResult struct {
	// Winner is the highest revealed bid (earliest reveal on ties).
	Winner RevealState
	// Settlement is the price the winner actually pays: the second-highest
	// revealed bid, or the winner's own bid if it was the only reveal.
	Settlement uint64
	// Losers are all non-winning reveals, each fully redeemable.
	Losers []RevealState
}

// ComputeWinner picks the auction winner and settlement price from the
// set of valid reveals. Returns nil for an empty set: an auction with no
// reveals is void and the name has no CLOSED transition.
//
// The result is independent of the order of the input slice; only the
// canonical (height, txIndex, outIndex) order of the reveals themselves
// participates in tie-breaking.
func ComputeWinner(reveals []RevealState) *AuctionResult {
	if len(reveals) == 0 {
		return nil
	}

	winner := 0
	for i := 1; i < len(reveals); i++ {
		r := reveals[i]
		w := reveals[winner]
		if r.Bid > w.Bid || (r.Bid == w.Bid && r.Before(w)) {
			winner = i
		}
	}

	result := &AuctionResult{Winner: reveals[winner]}

	var second uint64
	for i, r := range reveals {
		if i == winner {
			continue
		}
		result.Losers = append(result.Losers, r)
		if r.Bid > second {
			second = r.Bid
		}
	}

	if len(reveals) == 1 {
		result.Settlement = reveals[winner].Bid
	} else {
		result.Settlement = second
	}

	return result
}
