package types

import (
	"encoding/binary"
	"fmt"
)

// Outpoint references a specific output in a transaction.
type Outpoint struct {
	TxID  Hash   `json:"txid"`
	Index uint32 `json:"index"`
}

// IsZero returns true if the outpoint has a zero TxID and zero index.
func (o Outpoint) IsZero() bool {
	return o.TxID.IsZero() && o.Index == 0
}

// String returns "txid:index" in hex.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Index)
}

// Bytes returns the canonical byte encoding: txid(32) | index_be(4).
// Big-endian index so lexicographic key order matches numeric order.
func (o Outpoint) Bytes() []byte {
	b := make([]byte, HashSize+4)
	copy(b, o.TxID[:])
	binary.BigEndian.PutUint32(b[HashSize:], o.Index)
	return b
}

// OutpointFromBytes decodes the canonical 36-byte encoding.
func OutpointFromBytes(b []byte) (Outpoint, error) {
	if len(b) != HashSize+4 {
		return Outpoint{}, fmt.Errorf("outpoint must be %d bytes, got %d", HashSize+4, len(b))
	}
	var o Outpoint
	copy(o.TxID[:], b[:HashSize])
	o.Index = binary.BigEndian.Uint32(b[HashSize:])
	return o, nil
}
