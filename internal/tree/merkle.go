// Package tree maintains the periodic merkle commitment over all name
// states and serves inclusion proofs against committed roots.
package tree

import (
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Proof is a merkle inclusion path for one leaf.
type Proof struct {
	Leaf     types.Hash   `json:"leaf"`
	Index    uint32       `json:"index"`
	Siblings []types.Hash `json:"siblings"`
}

// merkleRoot folds sorted leaf hashes into a root.
//
//   - 0 hashes: zero hash
//   - 1 hash: that hash
//   - otherwise: pairwise hash, duplicating the last element if odd count,
//     then recurse on the resulting layer until one hash remains.
func merkleRoot(leaves []types.Hash) types.Hash {
	if len(leaves) == 0 {
		return types.Hash{}
	}
	levels := buildLevels(leaves)
	return levels[len(levels)-1][0]
}

// buildLevels materializes every tree layer, leaves first. Odd layers are
// padded by duplicating their last hash so proofs can name the duplicate
// as a sibling.
func buildLevels(leaves []types.Hash) [][]types.Hash {
	level := make([]types.Hash, len(leaves))
	copy(level, leaves)
	levels := [][]types.Hash{level}

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
			levels[len(levels)-1] = level
		}
		next := make([]types.Hash, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = crypto.HashConcat(level[i], level[i+1])
		}
		levels = append(levels, next)
		level = next
	}
	return levels
}

// proveIndex extracts the sibling path for one leaf position.
func proveIndex(leaves []types.Hash, index int) *Proof {
	proof := &Proof{Leaf: leaves[index], Index: uint32(index)}
	if len(leaves) < 2 {
		return proof
	}

	levels := buildLevels(leaves)
	pos := index
	for _, level := range levels[:len(levels)-1] {
		sibling := pos ^ 1
		proof.Siblings = append(proof.Siblings, level[sibling])
		pos >>= 1
	}
	return proof
}

// VerifyProof folds a proof back up and compares against the root.
func VerifyProof(root types.Hash, proof *Proof) bool {
	if proof == nil {
		return false
	}
	acc := proof.Leaf
	pos := proof.Index
	for _, sibling := range proof.Siblings {
		if pos&1 == 0 {
			acc = crypto.HashConcat(acc, sibling)
		} else {
			acc = crypto.HashConcat(sibling, acc)
		}
		pos >>= 1
	}
	return acc == root
}
