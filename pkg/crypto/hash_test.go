package crypto

import (
	"testing"

	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("hello"))
	if a != b {
		t.Error("same input should produce same hash")
	}

	c := Hash([]byte("world"))
	if a == c {
		t.Error("different inputs should produce different hashes")
	}
}

func TestHash_Empty(t *testing.T) {
	h := Hash(nil)
	if h.IsZero() {
		t.Error("hash of empty input should not be the zero hash")
	}
}

func TestHashAll_MatchesConcat(t *testing.T) {
	joined := Hash([]byte("foobar"))
	parts := HashAll([]byte("foo"), []byte("bar"))
	if joined != parts {
		t.Errorf("HashAll = %s, want %s", parts, joined)
	}
}

func TestHashConcat(t *testing.T) {
	a := Hash([]byte("a"))
	b := Hash([]byte("b"))

	ab := HashConcat(a, b)
	ba := HashConcat(b, a)
	if ab == ba {
		t.Error("HashConcat should be order-sensitive")
	}

	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	if ab != Hash(buf[:]) {
		t.Error("HashConcat should equal Hash of concatenation")
	}
}

func TestAddressFromPubKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	addr := AddressFromPubKey(key.PublicKey())
	if addr.IsZero() {
		t.Error("derived address should not be zero")
	}

	h := Hash(key.PublicKey())
	var want types.Address
	copy(want[:], h[:types.AddressSize])
	if addr != want {
		t.Errorf("address = %s, want %s", addr, want)
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	msg := Hash([]byte("claim message"))
	sig, err := key.Sign(msg[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !VerifySignature(msg[:], sig, key.PublicKey()) {
		t.Error("valid signature should verify")
	}

	other := Hash([]byte("other message"))
	if VerifySignature(other[:], sig, key.PublicKey()) {
		t.Error("signature over different message should not verify")
	}
}

func TestPrivateKeyRoundtrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	loaded, err := PrivateKeyFromBytes(key.Serialize())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes: %v", err)
	}

	msg := Hash([]byte("claim message"))
	sig, err := loaded.Sign(msg[:])
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !VerifySignature(msg[:], sig, key.PublicKey()) {
		t.Error("loaded key should sign for the original public key")
	}

	if _, err := PrivateKeyFromBytes(make([]byte, 16)); err == nil {
		t.Error("short scalar should be rejected")
	}
}
