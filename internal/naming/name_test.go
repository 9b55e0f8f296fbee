package naming

import (
	"errors"
	"strings"
	"testing"
)

func TestCanonicalize_Valid(t *testing.T) {
	names := []string{
		"a",
		"z9",
		"example",
		"foo-bar",
		"a-b-c",
		"0name",
		strings.Repeat("x", 63),
	}
	for _, name := range names {
		got, err := Canonicalize(name)
		if err != nil {
			t.Errorf("Canonicalize(%q): %v", name, err)
		}
		if got != name {
			t.Errorf("Canonicalize(%q) = %q", name, got)
		}
	}
}

func TestCanonicalize_Invalid(t *testing.T) {
	names := []string{
		"",
		strings.Repeat("x", 64),
		"-leading",
		"trailing-",
		"-",
		"UPPER",
		"Mixed",
		"under_score",
		"dotted.name",
		"sp ace",
		"uni\xc3\xa9",
	}
	for _, name := range names {
		if _, err := Canonicalize(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Canonicalize(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestHashName_Deterministic(t *testing.T) {
	h1 := HashName("example")
	h2 := HashName("example")
	if h1 != h2 {
		t.Error("same name should hash identically")
	}
	if HashName("example") == HashName("exampl") {
		t.Error("different names should hash differently")
	}
}

func TestReservedSet(t *testing.T) {
	set, err := NewReservedSet([]string{"klingnet", "example"})
	if err != nil {
		t.Fatalf("NewReservedSet: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len = %d, want 2", set.Len())
	}
	if !set.Has(HashName("klingnet")) {
		t.Error("klingnet should be reserved")
	}
	if set.Has(HashName("other")) {
		t.Error("other should not be reserved")
	}
}

func TestReservedSet_RejectsInvalidNames(t *testing.T) {
	if _, err := NewReservedSet([]string{"OK-Not"}); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
}
