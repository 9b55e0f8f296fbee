package naming

import (
	"testing"

	"github.com/Klingon-tech/klingnet-names/config"
)

// Regtest windows: treeInterval=5, biddingPeriod=5, revealPeriod=5. An OPEN
// at height 100 yields OPENING [100,105), BIDDING [105,110), REVEAL
// [110,115), CLOSED from 115.
func TestPhaseAt_Windows(t *testing.T) {
	rules := config.RegtestRules()

	tests := []struct {
		height uint64
		want   Phase
	}{
		{99, PhaseNone},
		{100, PhaseOpening},
		{104, PhaseOpening},
		{105, PhaseBidding},
		{109, PhaseBidding},
		{110, PhaseReveal},
		{114, PhaseReveal},
		{115, PhaseClosed},
		{1000, PhaseClosed},
	}
	for _, tt := range tests {
		if got := PhaseAt(100, tt.height, rules); got != tt.want {
			t.Errorf("PhaseAt(100, %d) = %s, want %s", tt.height, got, tt.want)
		}
	}
}

func TestPhaseAt_Monotonic(t *testing.T) {
	rules := config.RegtestRules()
	prev := PhaseNone
	for h := uint64(100); h < 200; h++ {
		got := PhaseAt(100, h, rules)
		if got < prev {
			t.Fatalf("phase regressed from %s to %s at height %d", prev, got, h)
		}
		prev = got
	}
}

func TestWindows(t *testing.T) {
	rules := config.RegtestRules()

	start, end := BiddingWindow(100, rules)
	if start != 105 || end != 110 {
		t.Errorf("BiddingWindow = [%d, %d), want [105, 110)", start, end)
	}
	start, end = RevealWindow(100, rules)
	if start != 110 || end != 115 {
		t.Errorf("RevealWindow = [%d, %d), want [110, 115)", start, end)
	}
}

func TestPhaseOf(t *testing.T) {
	rules := config.RegtestRules()
	nameHash := HashName("example")

	if got := PhaseOf(nil, 100, rules); got != PhaseNone {
		t.Errorf("nil state phase = %s, want NONE", got)
	}

	opened := &NameState{NameHash: nameHash, Name: "example", Height: 100}
	if got := PhaseOf(opened, 107, rules); got != PhaseBidding {
		t.Errorf("phase at 107 = %s, want BIDDING", got)
	}

	// A closed auction with no winner is re-openable, so it reports NONE.
	if got := PhaseOf(opened, 115, rules); got != PhaseNone {
		t.Errorf("void auction phase = %s, want NONE", got)
	}

	registered := &NameState{
		NameHash: nameHash,
		Name:     "example",
		Height:   100,
		Owner:    testOutpoint(1),
		Value:    1000,
		Renewal:  215,
	}
	if got := PhaseOf(registered, 150, rules); got != PhaseClosed {
		t.Errorf("registered phase = %s, want CLOSED", got)
	}

	// Past the renewal deadline the name lapses back to NONE.
	if got := PhaseOf(registered, 216, rules); got != PhaseNone {
		t.Errorf("expired phase = %s, want NONE", got)
	}
}

func TestOpenable(t *testing.T) {
	rules := config.RegtestRules()
	nameHash := HashName("example")

	registered := &NameState{
		NameHash: nameHash,
		Name:     "example",
		Height:   100,
		Owner:    testOutpoint(1),
		Value:    1000,
		Renewal:  215,
	}
	if registered.Openable(215, rules) {
		t.Error("name should not be openable at its renewal deadline")
	}
	if !registered.Openable(216, rules) {
		t.Error("name should be openable past its renewal deadline")
	}

	revoked := &NameState{
		NameHash: nameHash,
		Name:     "example",
		Height:   100,
		Owner:    testOutpoint(1),
		Revoked:  150,
	}
	if revoked.Openable(159, rules) {
		t.Error("revoked name should respect the cooldown")
	}
	if !revoked.Openable(160, rules) {
		t.Error("revoked name should be openable after the cooldown")
	}

	// A closed cycle with reveals is held for its winner until the
	// registration deadline (reveal end 115 + renewal window 100).
	unregistered := &NameState{
		NameHash:    nameHash,
		Name:        "example",
		Height:      100,
		Highest:     2000,
		RevealCount: 1,
	}
	if unregistered.Openable(115, rules) {
		t.Error("closed cycle with a winner should not be openable at the close")
	}
	if unregistered.Openable(214, rules) {
		t.Error("closed cycle with a winner should hold through the registration window")
	}
	if !unregistered.Openable(215, rules) {
		t.Error("abandoned win should be openable past the registration deadline")
	}

	void := &NameState{NameHash: nameHash, Name: "example", Height: 100}
	if !void.Openable(115, rules) {
		t.Error("void cycle should be openable at the close")
	}
}

func TestCommitHeight(t *testing.T) {
	rules := config.RegtestRules()
	for _, h := range []uint64{0, 5, 10, 100} {
		if !CommitHeight(h, rules) {
			t.Errorf("height %d should be a commit height", h)
		}
	}
	for _, h := range []uint64{1, 4, 101} {
		if CommitHeight(h, rules) {
			t.Errorf("height %d should not be a commit height", h)
		}
	}
}
