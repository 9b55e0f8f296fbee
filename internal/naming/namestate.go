package naming

import (
	"github.com/Klingon-tech/klingnet-names/config"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// NameState is the authoritative per-name record. It is never mutated in
// place: every accepted transition produces a successor value and the
// caller decides when to commit it, which keeps reorg rollback a matter of
// restoring an earlier snapshot.
type NameState struct {
	NameHash types.NameHash `json:"name_hash"`
	Name     string         `json:"name"`

	// Height is the block height of the OPEN (or CLAIM) that created this
	// auction cycle.
	Height uint64 `json:"height"`

	// Renewal is the height after which the registration lapses unless
	// renewed. Zero until REGISTER.
	Renewal uint64 `json:"renewal,omitempty"`

	// Renewals counts RENEWs; it seeds the deterministic renewal proof.
	Renewals uint32 `json:"renewals,omitempty"`

	// Owner is the outpoint of the coin currently controlling the name.
	// Zero until REGISTER (or CLAIM).
	Owner types.Outpoint `json:"owner,omitempty"`

	// Value is the locked value of the controlling coin: the second-price
	// settlement after the auction.
	Value uint64 `json:"value,omitempty"`

	// Highest tracks the best revealed bid while the REVEAL window is open.
	Highest uint64 `json:"highest,omitempty"`

	// RevealCount counts the reveals of this auction cycle. A closed cycle
	// with reveals has a winner and is not re-openable until the
	// registration deadline passes unused.
	RevealCount uint32 `json:"reveal_count,omitempty"`

	// Data holds the resource record bytes bound by the last
	// REGISTER/UPDATE.
	Data []byte `json:"data,omitempty"`

	// Transfer is the height a pending TRANSFER was initiated, or 0.
	Transfer uint64 `json:"transfer,omitempty"`

	// Revoked is the height of a REVOKE, or 0.
	Revoked uint64 `json:"revoked,omitempty"`

	// Claimed marks names that entered via the reserved-name CLAIM path.
	Claimed bool `json:"claimed,omitempty"`

	// Weak marks names excluded from normal auction rules.
	Weak bool `json:"weak,omitempty"`
}

// Clone returns a deep copy, the starting point for any successor state.
func (ns *NameState) Clone() *NameState {
	out := *ns
	if ns.Data != nil {
		out.Data = make([]byte, len(ns.Data))
		copy(out.Data, ns.Data)
	}
	return &out
}

// Registered returns true once an owner holds the name.
func (ns *NameState) Registered() bool {
	return !ns.Owner.IsZero()
}

// IsRevoked returns true if the name has been revoked.
func (ns *NameState) IsRevoked() bool {
	return ns.Revoked != 0
}

// InTransfer returns true while a TRANSFER is pending.
func (ns *NameState) InTransfer() bool {
	return ns.Transfer != 0
}

// IsExpired returns true once the renewal deadline has passed without a
// renewal. Unregistered names never expire by this rule; they become
// re-openable through the auction schedule instead.
func (ns *NameState) IsExpired(height uint64) bool {
	if !ns.Registered() || ns.IsRevoked() {
		return false
	}
	return height > ns.Renewal
}

// LastRenewalHeight returns the height of the most recent
// REGISTER/RENEW/FINALIZE, derived from the renewal deadline.
func (ns *NameState) LastRenewalHeight(rules *config.NamingRules) uint64 {
	if ns.Renewal < rules.RenewalWindow {
		return 0
	}
	return ns.Renewal - rules.RenewalWindow
}

// Openable reports whether a fresh OPEN may replace this state at the
// given height: the prior cycle must have lapsed, been revoked past its
// cooldown, closed void, or closed with a winner who let the
// registration deadline pass.
func (ns *NameState) Openable(height uint64, rules *config.NamingRules) bool {
	if ns.IsRevoked() {
		return height >= ns.Revoked+rules.RevokeCooldown
	}
	if ns.Registered() {
		return ns.IsExpired(height)
	}
	if ns.RevealCount > 0 {
		// The cycle produced a winner; the name belongs to them until
		// one renewal window past the close goes by without a REGISTER.
		_, revealEnd := RevealWindow(ns.Height, rules)
		return height >= revealEnd+rules.RenewalWindow
	}
	// Void cycle: re-openable as soon as the schedule closes.
	return PhaseAt(ns.Height, height, rules) == PhaseClosed
}
