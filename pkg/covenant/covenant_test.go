package covenant

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

func testNameHash() types.NameHash {
	return types.NameHash{0xaa, 0xbb, 0xcc}
}

func TestDecode_AllTypes(t *testing.T) {
	nh := testNameHash()
	blind := types.Hash{0x01}
	var nonce [NonceSize]byte
	nonce[0] = 0x02
	addr := types.Address{0x03}
	proof := make([]byte, ProofSize)

	variants := []Decoded{
		Open{NameHash: nh, Name: "example"},
		Bid{NameHash: nh, Name: "example", Blind: blind},
		Reveal{NameHash: nh, Nonce: nonce, Amount: 1500},
		Redeem{NameHash: nh},
		Register{NameHash: nh, Resource: []byte("records")},
		Update{NameHash: nh, Resource: []byte("records2")},
		Renew{NameHash: nh, Proof: types.Hash{0x04}},
		Transfer{NameHash: nh, NewAddress: addr},
		Finalize{NameHash: nh, Name: "example"},
		Revoke{NameHash: nh},
		Claim{NameHash: nh, Name: "example", Proof: proof},
	}

	for _, v := range variants {
		raw := Encode(v)
		if raw == nil {
			t.Fatalf("Encode(%T) returned nil", v)
		}
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%s): %v", raw.Type, err)
		}
		if got.covenantType() != raw.Type {
			t.Errorf("decoded type = %s, want %s", got.covenantType(), raw.Type)
		}
	}
}

func TestDecode_WrongArity(t *testing.T) {
	nh := testNameHash()
	c := &Covenant{Type: TypeOpen, Items: [][]byte{nh.Bytes()}}
	_, err := Decode(c)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("missing item: err = %v, want ErrMalformed", err)
	}

	c = &Covenant{Type: TypeRevoke, Items: [][]byte{nh.Bytes(), []byte("extra")}}
	if _, err := Decode(c); !errors.Is(err, ErrMalformed) {
		t.Errorf("extra item: err = %v, want ErrMalformed", err)
	}
}

func TestDecode_WrongWidths(t *testing.T) {
	nh := testNameHash()

	tests := []struct {
		name string
		cov  *Covenant
	}{
		{"short name hash", &Covenant{Type: TypeRevoke, Items: [][]byte{{0x01, 0x02}}}},
		{"empty name", &Covenant{Type: TypeOpen, Items: [][]byte{nh.Bytes(), {}}}},
		{"name too long", &Covenant{Type: TypeOpen, Items: [][]byte{nh.Bytes(), make([]byte, MaxNameLen+1)}}},
		{"short blind", &Covenant{Type: TypeBid, Items: [][]byte{nh.Bytes(), []byte("x"), {0x01}}}},
		{"short nonce", &Covenant{Type: TypeReveal, Items: [][]byte{nh.Bytes(), {0x01}, make([]byte, 8)}}},
		{"short reveal amount", &Covenant{Type: TypeReveal, Items: [][]byte{nh.Bytes(), make([]byte, NonceSize), {0x01}}}},
		{"resource too large", &Covenant{Type: TypeUpdate, Items: [][]byte{nh.Bytes(), make([]byte, MaxResourceSize+1)}}},
		{"short transfer address", &Covenant{Type: TypeTransfer, Items: [][]byte{nh.Bytes(), {0x01}}}},
		{"short claim proof", &Covenant{Type: TypeClaim, Items: [][]byte{nh.Bytes(), []byte("x"), {0x01}}}},
		{"short renew proof", &Covenant{Type: TypeRenew, Items: [][]byte{nh.Bytes(), {0x01}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.cov); !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	c := &Covenant{Type: 0x7f, Items: nil}
	if _, err := Decode(c); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}

	if _, err := Decode(nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("nil covenant: err = %v, want ErrMalformed", err)
	}
}

func TestCovenant_NameHash(t *testing.T) {
	nh := testNameHash()
	c := Encode(Revoke{NameHash: nh})
	if c.NameHash() != nh {
		t.Errorf("NameHash() = %s, want %s", c.NameHash(), nh)
	}

	bad := &Covenant{Type: TypeRevoke, Items: [][]byte{{0x01}}}
	if !bad.NameHash().IsZero() {
		t.Error("malformed item 0 should give a zero name hash")
	}
}

func TestCovenant_JSONRoundTrip(t *testing.T) {
	c := Encode(Bid{NameHash: testNameHash(), Name: "example", Blind: types.Hash{0x09}})

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Covenant
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Type != c.Type || len(got.Items) != len(c.Items) {
		t.Fatalf("round trip shape mismatch: %+v vs %+v", got, c)
	}
	for i := range got.Items {
		if string(got.Items[i]) != string(c.Items[i]) {
			t.Errorf("item %d = %x, want %x", i, got.Items[i], c.Items[i])
		}
	}
}

func TestType_String(t *testing.T) {
	if TypeOpen.String() != "OPEN" {
		t.Errorf("TypeOpen = %q", TypeOpen.String())
	}
	if Type(0xee).String() != "Unknown" {
		t.Errorf("unknown type = %q", Type(0xee).String())
	}
}
