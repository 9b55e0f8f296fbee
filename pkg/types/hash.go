// Package types defines core primitive types for the Klingnet naming layer.
package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// NameHash identifies a name on chain, derived by hashing its canonical label.
type NameHash Hash

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// Compare orders hashes lexicographically by byte, returning -1, 0 or 1.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(decoded) != HashSize {
		return fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(decoded))
	}
	copy(h[:], decoded)
	return nil
}

// HexToHash converts a hex string to a Hash.
// Returns an error if the string is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// IsZero returns true if the name hash is all zeros.
func (n NameHash) IsZero() bool {
	return Hash(n).IsZero()
}

// String returns the hex-encoded name hash.
func (n NameHash) String() string {
	return Hash(n).String()
}

// Bytes returns a copy of the name hash as a byte slice.
func (n NameHash) Bytes() []byte {
	return Hash(n).Bytes()
}

// MarshalJSON encodes the name hash as a hex string.
func (n NameHash) MarshalJSON() ([]byte, error) {
	return Hash(n).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into a name hash.
func (n *NameHash) UnmarshalJSON(data []byte) error {
	return (*Hash)(n).UnmarshalJSON(data)
}

// HexToNameHash converts a hex string to a NameHash.
func HexToNameHash(s string) (NameHash, error) {
	h, err := HexToHash(s)
	if err != nil {
		return NameHash{}, err
	}
	return NameHash(h), nil
}
