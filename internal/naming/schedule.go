package naming

import "github.com/Klingon-tech/klingnet-names/config"

// Phase is the height-derived lifecycle phase of a name's auction cycle.
type Phase uint8

const (
	// PhaseNone means no state exists for the name.
	PhaseNone Phase = iota
	// PhaseOpening waits for the name tree to commit the OPEN so bidders
	// can prove priority.
	PhaseOpening
	// PhaseBidding accepts blind bids.
	PhaseBidding
	// PhaseReveal accepts reveals of previously posted bids.
	PhaseReveal
	// PhaseClosed is the stable post-auction phase, lasting until expiry,
	// renewal or revocation.
	PhaseClosed
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "NONE"
	case PhaseOpening:
		return "OPENING"
	case PhaseBidding:
		return "BIDDING"
	case PhaseReveal:
		return "REVEAL"
	case PhaseClosed:
		return "CLOSED"
	default:
		return "Unknown"
	}
}

// PhaseAt maps an open height and the current height to the lifecycle
// phase. It is a total, monotonic function of height: as height grows a
// name walks OPENING -> BIDDING -> REVEAL -> CLOSED and never returns to
// an earlier phase within one cycle. All comparisons are on integer block
// heights; wall-clock time never enters the schedule.
func PhaseAt(openHeight, height uint64, rules *config.NamingRules) Phase {
	if height < openHeight {
		return PhaseNone
	}
	biddingStart := openHeight + rules.TreeInterval
	revealStart := biddingStart + rules.BiddingPeriod
	closedStart := revealStart + rules.RevealPeriod

	switch {
	case height < biddingStart:
		return PhaseOpening
	case height < revealStart:
		return PhaseBidding
	case height < closedStart:
		return PhaseReveal
	default:
		return PhaseClosed
	}
}

// PhaseOf returns the phase for a name state, folding in expiry and
// revocation: expired and revoked names report PhaseNone once re-openable.
func PhaseOf(ns *NameState, height uint64, rules *config.NamingRules) Phase {
	if ns == nil {
		return PhaseNone
	}
	if ns.Openable(height, rules) {
		return PhaseNone
	}
	if ns.Registered() || ns.IsRevoked() {
		return PhaseClosed
	}
	return PhaseAt(ns.Height, height, rules)
}

// BiddingWindow returns the [start, end) heights of the BIDDING phase.
func BiddingWindow(openHeight uint64, rules *config.NamingRules) (start, end uint64) {
	start = openHeight + rules.TreeInterval
	end = start + rules.BiddingPeriod
	return start, end
}

// RevealWindow returns the [start, end) heights of the REVEAL phase.
func RevealWindow(openHeight uint64, rules *config.NamingRules) (start, end uint64) {
	_, start = BiddingWindow(openHeight, rules)
	end = start + rules.RevealPeriod
	return start, end
}

// CommitHeight reports whether the name tree commits at the given height.
// The tree commits at every treeInterval boundary; the validator only needs
// the cadence, never the tree's internals.
func CommitHeight(height uint64, rules *config.NamingRules) bool {
	return height%rules.TreeInterval == 0
}
