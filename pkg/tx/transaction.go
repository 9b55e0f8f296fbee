// Package tx defines the transaction types the naming layer validates.
//
// Script evaluation and signature checking for ordinary spends are handled
// by the host chain; this package carries only what covenant validation
// needs: outpoints, values, destination addresses and covenants.
package tx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Transaction represents a blockchain transaction.
type Transaction struct {
	Version  uint32   `json:"version"`
	Inputs   []Input  `json:"inputs"`
	Outputs  []Output `json:"outputs"`
	LockTime uint64   `json:"locktime"`
}

// Input references a UTXO being spent.
type Input struct {
	PrevOut types.Outpoint `json:"prevout"`
}

// Output defines a new UTXO, optionally carrying a covenant.
type Output struct {
	Value    uint64             `json:"value"`
	Address  types.Address      `json:"address"`
	Covenant *covenant.Covenant `json:"covenant,omitempty"`
}

// Hash computes the transaction ID (BLAKE3 of the canonical serialization).
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.CanonicalBytes())
}

// CanonicalBytes returns the canonical byte representation used for hashing.
// Format: version(4) | input_count(4) | [prevout(36)]... |
// output_count(4) | [value(8) + address(20) + cov_type(1) + item_count(4) + [len(4)+data]...]... |
// locktime(8)
func (tx *Transaction) CanonicalBytes() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, out.Value)
		buf = append(buf, out.Address[:]...)
		if out.Covenant != nil {
			buf = append(buf, byte(out.Covenant.Type))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.Covenant.Items)))
			for _, item := range out.Covenant.Items {
				buf = binary.LittleEndian.AppendUint32(buf, uint32(len(item)))
				buf = append(buf, item...)
			}
		} else {
			buf = append(buf, 0)
		}
	}

	buf = binary.LittleEndian.AppendUint64(buf, tx.LockTime)

	return buf
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if the sum overflows uint64.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total > math.MaxUint64-out.Value {
			return 0, fmt.Errorf("output value overflow")
		}
		total += out.Value
	}
	return total, nil
}

// HasCovenant returns true if any output carries a covenant.
func (tx *Transaction) HasCovenant() bool {
	for _, out := range tx.Outputs {
		if out.Covenant != nil {
			return true
		}
	}
	return false
}
