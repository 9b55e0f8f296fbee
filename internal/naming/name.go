// Package naming implements the name lifecycle state machine: blind-bid
// auctions, covenant validation and the height-gated schedule that drives
// both.
package naming

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// ErrInvalidName is returned for labels that fail canonicalization.
var ErrInvalidName = errors.New("invalid name")

// Canonicalize validates and normalizes a raw name label.
// Legal names are 1..63 bytes of lowercase ASCII letters, digits and
// hyphens, with no leading or trailing hyphen. Uppercase input is rejected
// rather than folded: the chain only ever sees canonical labels.
func Canonicalize(name string) (string, error) {
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > covenant.MaxNameLen {
		return "", fmt.Errorf("%w: %d bytes exceeds %d", ErrInvalidName, len(name), covenant.MaxNameLen)
	}
	if name[0] == '-' || name[len(name)-1] == '-' {
		return "", fmt.Errorf("%w: leading or trailing hyphen", ErrInvalidName)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return "", fmt.Errorf("%w: byte 0x%02x at position %d", ErrInvalidName, c, i)
		}
	}
	return name, nil
}

// HashName computes the fixed-width identifier for a canonical name.
func HashName(name string) types.NameHash {
	return types.NameHash(crypto.Hash([]byte(name)))
}

// ReservedSet answers membership queries for names excluded from normal
// auctions. Lookup is by name hash so covenants never need the raw label.
type ReservedSet struct {
	hashes map[types.NameHash]struct{}
}

// NewReservedSet builds a ReservedSet from raw labels. Labels that fail
// canonicalization are rejected.
func NewReservedSet(names []string) (*ReservedSet, error) {
	set := &ReservedSet{hashes: make(map[types.NameHash]struct{}, len(names))}
	for _, name := range names {
		canonical, err := Canonicalize(name)
		if err != nil {
			return nil, fmt.Errorf("reserved name %q: %w", name, err)
		}
		set.hashes[HashName(canonical)] = struct{}{}
	}
	return set, nil
}

// Has returns true if the name hash belongs to a reserved name.
func (r *ReservedSet) Has(nameHash types.NameHash) bool {
	_, ok := r.hashes[nameHash]
	return ok
}

// Len returns the number of reserved names.
func (r *ReservedSet) Len() int {
	return len(r.hashes)
}
