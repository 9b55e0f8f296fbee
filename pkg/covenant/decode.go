package covenant

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// ErrMalformed indicates a covenant whose item count or item widths do not
// match its declared type.
var ErrMalformed = errors.New("malformed covenant")

// Decoded is the closed set of typed covenant variants produced by Decode.
type Decoded interface {
	covenantType() Type
}

// Open starts an auction for a name not currently owned.
type Open struct {
	NameHash types.NameHash
	Name     string
}

// Bid posts a blind commitment; the output value is the public lockup.
type Bid struct {
	NameHash types.NameHash
	Name     string
	Blind    types.Hash
}

// Reveal discloses a bid amount and nonce; the output keeps the full
// lockup locked until settlement or redemption.
type Reveal struct {
	NameHash types.NameHash
	Nonce    [NonceSize]byte
	Amount   uint64
}

// Redeem refunds a revealed, losing bid to its owner.
type Redeem struct {
	NameHash types.NameHash
}

// Register claims the auction win and binds the first resource data.
type Register struct {
	NameHash types.NameHash
	Resource []byte
}

// Update replaces the resource data bound to an owned name.
type Update struct {
	NameHash types.NameHash
	Resource []byte
}

// Renew extends the renewal deadline of an owned name.
type Renew struct {
	NameHash types.NameHash
	Proof    types.Hash
}

// Transfer begins moving ownership to a new address.
type Transfer struct {
	NameHash   types.NameHash
	NewAddress types.Address
}

// Finalize completes a matured transfer.
type Finalize struct {
	NameHash types.NameHash
	Name     string
}

// Revoke permanently gives up an owned name.
type Revoke struct {
	NameHash types.NameHash
}

// Claim takes ownership of a reserved name with a signed proof.
type Claim struct {
	NameHash types.NameHash
	Name     string
	Proof    []byte
}

func (Open) covenantType() Type     { return TypeOpen }
func (Bid) covenantType() Type      { return TypeBid }
func (Reveal) covenantType() Type   { return TypeReveal }
func (Redeem) covenantType() Type   { return TypeRedeem }
func (Register) covenantType() Type { return TypeRegister }
func (Update) covenantType() Type   { return TypeUpdate }
func (Renew) covenantType() Type    { return TypeRenew }
func (Transfer) covenantType() Type { return TypeTransfer }
func (Finalize) covenantType() Type { return TypeFinalize }
func (Revoke) covenantType() Type   { return TypeRevoke }
func (Claim) covenantType() Type    { return TypeClaim }

// itemCounts fixes the required item count per covenant type.
var itemCounts = map[Type]int{
	TypeOpen:     2,
	TypeBid:      3,
	TypeReveal:   3,
	TypeRedeem:   1,
	TypeRegister: 2,
	TypeUpdate:   2,
	TypeRenew:    2,
	TypeTransfer: 2,
	TypeFinalize: 2,
	TypeRevoke:   1,
	TypeClaim:    3,
}

// Decode validates the raw covenant's arity and item widths and returns the
// typed variant. All shape violations are reported as ErrMalformed with
// detail; no partially-decoded value is ever returned.
func Decode(c *Covenant) (Decoded, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil covenant", ErrMalformed)
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type 0x%02x", ErrMalformed, uint8(c.Type))
	}
	want := itemCounts[c.Type]
	if len(c.Items) != want {
		return nil, fmt.Errorf("%w: %s requires %d items, got %d", ErrMalformed, c.Type, want, len(c.Items))
	}

	nameHash, err := hashItem(c.Type, c.Items[0])
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case TypeOpen:
		name, err := nameItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		return Open{NameHash: nameHash, Name: name}, nil

	case TypeBid:
		name, err := nameItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		if len(c.Items[2]) != BlindSize {
			return nil, fmt.Errorf("%w: BID blind must be %d bytes, got %d", ErrMalformed, BlindSize, len(c.Items[2]))
		}
		var blind types.Hash
		copy(blind[:], c.Items[2])
		return Bid{NameHash: nameHash, Name: name, Blind: blind}, nil

	case TypeReveal:
		if len(c.Items[1]) != NonceSize {
			return nil, fmt.Errorf("%w: REVEAL nonce must be %d bytes, got %d", ErrMalformed, NonceSize, len(c.Items[1]))
		}
		var nonce [NonceSize]byte
		copy(nonce[:], c.Items[1])
		if len(c.Items[2]) != 8 {
			return nil, fmt.Errorf("%w: REVEAL amount must be 8 bytes, got %d", ErrMalformed, len(c.Items[2]))
		}
		amount := binary.LittleEndian.Uint64(c.Items[2])
		return Reveal{NameHash: nameHash, Nonce: nonce, Amount: amount}, nil

	case TypeRedeem:
		return Redeem{NameHash: nameHash}, nil

	case TypeRegister:
		res, err := resourceItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		return Register{NameHash: nameHash, Resource: res}, nil

	case TypeUpdate:
		res, err := resourceItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		return Update{NameHash: nameHash, Resource: res}, nil

	case TypeRenew:
		if len(c.Items[1]) != types.HashSize {
			return nil, fmt.Errorf("%w: RENEW proof must be %d bytes, got %d", ErrMalformed, types.HashSize, len(c.Items[1]))
		}
		var proof types.Hash
		copy(proof[:], c.Items[1])
		return Renew{NameHash: nameHash, Proof: proof}, nil

	case TypeTransfer:
		if len(c.Items[1]) != types.AddressSize {
			return nil, fmt.Errorf("%w: TRANSFER address must be %d bytes, got %d", ErrMalformed, types.AddressSize, len(c.Items[1]))
		}
		var addr types.Address
		copy(addr[:], c.Items[1])
		return Transfer{NameHash: nameHash, NewAddress: addr}, nil

	case TypeFinalize:
		name, err := nameItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		return Finalize{NameHash: nameHash, Name: name}, nil

	case TypeRevoke:
		return Revoke{NameHash: nameHash}, nil

	case TypeClaim:
		name, err := nameItem(c.Type, c.Items[1])
		if err != nil {
			return nil, err
		}
		if len(c.Items[2]) != ProofSize {
			return nil, fmt.Errorf("%w: CLAIM proof must be %d bytes, got %d", ErrMalformed, ProofSize, len(c.Items[2]))
		}
		proof := make([]byte, ProofSize)
		copy(proof, c.Items[2])
		return Claim{NameHash: nameHash, Name: name, Proof: proof}, nil
	}

	return nil, fmt.Errorf("%w: unhandled type %s", ErrMalformed, c.Type)
}

func hashItem(t Type, item []byte) (types.NameHash, error) {
	if len(item) != types.HashSize {
		return types.NameHash{}, fmt.Errorf("%w: %s name hash must be %d bytes, got %d", ErrMalformed, t, types.HashSize, len(item))
	}
	var n types.NameHash
	copy(n[:], item)
	return n, nil
}

func nameItem(t Type, item []byte) (string, error) {
	if len(item) == 0 || len(item) > MaxNameLen {
		return "", fmt.Errorf("%w: %s name must be 1..%d bytes, got %d", ErrMalformed, t, MaxNameLen, len(item))
	}
	return string(item), nil
}

func resourceItem(t Type, item []byte) ([]byte, error) {
	if len(item) > MaxResourceSize {
		return nil, fmt.Errorf("%w: %s resource must be at most %d bytes, got %d", ErrMalformed, t, MaxResourceSize, len(item))
	}
	res := make([]byte, len(item))
	copy(res, item)
	return res, nil
}

// Encode builds the raw covenant for a typed variant.
func Encode(d Decoded) *Covenant {
	switch v := d.(type) {
	case Open:
		return &Covenant{Type: TypeOpen, Items: [][]byte{v.NameHash.Bytes(), []byte(v.Name)}}
	case Bid:
		return &Covenant{Type: TypeBid, Items: [][]byte{v.NameHash.Bytes(), []byte(v.Name), v.Blind.Bytes()}}
	case Reveal:
		nonce := make([]byte, NonceSize)
		copy(nonce, v.Nonce[:])
		amount := binary.LittleEndian.AppendUint64(nil, v.Amount)
		return &Covenant{Type: TypeReveal, Items: [][]byte{v.NameHash.Bytes(), nonce, amount}}
	case Redeem:
		return &Covenant{Type: TypeRedeem, Items: [][]byte{v.NameHash.Bytes()}}
	case Register:
		return &Covenant{Type: TypeRegister, Items: [][]byte{v.NameHash.Bytes(), append([]byte(nil), v.Resource...)}}
	case Update:
		return &Covenant{Type: TypeUpdate, Items: [][]byte{v.NameHash.Bytes(), append([]byte(nil), v.Resource...)}}
	case Renew:
		return &Covenant{Type: TypeRenew, Items: [][]byte{v.NameHash.Bytes(), v.Proof.Bytes()}}
	case Transfer:
		return &Covenant{Type: TypeTransfer, Items: [][]byte{v.NameHash.Bytes(), v.NewAddress.Bytes()}}
	case Finalize:
		return &Covenant{Type: TypeFinalize, Items: [][]byte{v.NameHash.Bytes(), []byte(v.Name)}}
	case Revoke:
		return &Covenant{Type: TypeRevoke, Items: [][]byte{v.NameHash.Bytes()}}
	case Claim:
		return &Covenant{Type: TypeClaim, Items: [][]byte{v.NameHash.Bytes(), []byte(v.Name), append([]byte(nil), v.Proof...)}}
	}
	return nil
}
