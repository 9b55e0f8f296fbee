package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAddress_StringRoundTrip(t *testing.T) {
	addr := Address{0x01, 0x02, 0x03}

	s := addr.String()
	if !strings.HasPrefix(s, GetAddressHRP()+"1") {
		t.Errorf("String() = %q, want %q prefix", s, GetAddressHRP()+"1")
	}

	parsed, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if parsed != addr {
		t.Errorf("round trip = %s, want %s", parsed, addr)
	}
}

func TestParseAddress_RawHex(t *testing.T) {
	addr := Address{0xaa, 0xbb}
	parsed, err := ParseAddress(addr.Hex())
	if err != nil {
		t.Fatalf("ParseAddress(hex): %v", err)
	}
	if parsed != addr {
		t.Errorf("parsed = %s, want %s", parsed, addr)
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []string{"", "kn1qqqq", "nothex", "kn1!!!!"}
	for _, in := range tests {
		if _, err := ParseAddress(in); err == nil {
			t.Errorf("ParseAddress(%q) succeeded, want error", in)
		}
	}
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	addr := Address{0x11, 0x22}
	data, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Address
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != addr {
		t.Errorf("round trip = %s, want %s", got, addr)
	}
}

func TestBech32_RoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0xff, 0x80, 0x7f}
	s, err := Bech32Encode("tkn", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	hrp, decoded, err := Bech32Decode(s)
	if err != nil {
		t.Fatalf("Bech32Decode: %v", err)
	}
	if hrp != "tkn" {
		t.Errorf("hrp = %q, want tkn", hrp)
	}
	if string(decoded) != string(data) {
		t.Errorf("decoded = %x, want %x", decoded, data)
	}
}

func TestBech32Decode_BadChecksum(t *testing.T) {
	s, err := Bech32Encode("kn", []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	// Flip the last character.
	last := s[len(s)-1]
	repl := byte('q')
	if last == 'q' {
		repl = 'p'
	}
	bad := s[:len(s)-1] + string(repl)
	if _, _, err := Bech32Decode(bad); err == nil {
		t.Error("corrupted checksum should fail")
	}
}
