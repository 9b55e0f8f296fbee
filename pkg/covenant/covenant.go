// Package covenant defines the typed output payloads that encode name
// lifecycle transitions.
//
// A covenant is an ordered list of byte items attached to a transaction
// output. The item count and widths are fixed per covenant type and are
// validated up front by Decode; business logic only ever sees well-formed,
// strongly-typed variants.
package covenant

import (
	"encoding/hex"
	"encoding/json"

	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// Type identifies a covenant transition type.
type Type uint8

const (
	TypeOpen     Type = 0x01 // Start an auction for an unowned name
	TypeBid      Type = 0x02 // Post a blind bid with a public lockup
	TypeReveal   Type = 0x03 // Disclose a bid amount and nonce
	TypeRedeem   Type = 0x04 // Refund a revealed, losing bid
	TypeRegister Type = 0x05 // Claim the auction win, bind resource data
	TypeUpdate   Type = 0x06 // Replace resource data
	TypeRenew    Type = 0x07 // Extend the renewal deadline
	TypeTransfer Type = 0x08 // Begin transferring ownership
	TypeFinalize Type = 0x09 // Complete a matured transfer
	TypeRevoke   Type = 0x0a // Permanently give up the name
	TypeClaim    Type = 0x0b // Claim a reserved name with a proof
)

// String returns a human-readable name for the covenant type.
func (t Type) String() string {
	switch t {
	case TypeOpen:
		return "OPEN"
	case TypeBid:
		return "BID"
	case TypeReveal:
		return "REVEAL"
	case TypeRedeem:
		return "REDEEM"
	case TypeRegister:
		return "REGISTER"
	case TypeUpdate:
		return "UPDATE"
	case TypeRenew:
		return "RENEW"
	case TypeTransfer:
		return "TRANSFER"
	case TypeFinalize:
		return "FINALIZE"
	case TypeRevoke:
		return "REVOKE"
	case TypeClaim:
		return "CLAIM"
	default:
		return "Unknown"
	}
}

// Valid returns true if the type is one of the eleven known transitions.
func (t Type) Valid() bool {
	return t >= TypeOpen && t <= TypeClaim
}

// Item width constants.
const (
	// MaxNameLen is the maximum length of a raw name label in bytes.
	MaxNameLen = 63
	// NonceSize is the width of a reveal nonce.
	NonceSize = 32
	// BlindSize is the width of a blind commitment.
	BlindSize = 32
	// ProofSize is the width of a claim proof (schnorr signature).
	ProofSize = 64
	// MaxResourceSize is the wire-level cap on resource record blobs.
	MaxResourceSize = 512
)

// Covenant is the raw on-chain form: a type tag plus opaque items.
type Covenant struct {
	Type  Type     `json:"type"`
	Items [][]byte `json:"items"`
}

// NameHash returns the name hash carried in item 0, which every covenant
// type places first. Returns a zero hash for malformed covenants.
func (c *Covenant) NameHash() types.NameHash {
	if len(c.Items) == 0 || len(c.Items[0]) != types.HashSize {
		return types.NameHash{}
	}
	var n types.NameHash
	copy(n[:], c.Items[0])
	return n
}

// covenantJSON is the JSON representation with hex-encoded items.
type covenantJSON struct {
	Type  Type     `json:"type"`
	Items []string `json:"items"`
}

// MarshalJSON encodes the covenant with hex-encoded items.
func (c Covenant) MarshalJSON() ([]byte, error) {
	j := covenantJSON{Type: c.Type, Items: make([]string, len(c.Items))}
	for i, item := range c.Items {
		j.Items[i] = hex.EncodeToString(item)
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a covenant with hex-encoded items.
func (c *Covenant) UnmarshalJSON(data []byte) error {
	var j covenantJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	c.Type = j.Type
	c.Items = make([][]byte, len(j.Items))
	for i, s := range j.Items {
		b, err := hex.DecodeString(s)
		if err != nil {
			return err
		}
		c.Items[i] = b
	}
	return nil
}
