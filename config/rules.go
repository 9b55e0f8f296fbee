package config

import (
	"encoding/hex"
	"fmt"
)

// NamingRules defines the per-network protocol constants gating name
// lifecycle transitions. All values are block-height counts; no wall-clock
// input exists anywhere in the naming layer.
type NamingRules struct {
	// TreeInterval is the cadence, in blocks, at which the name tree commits.
	// A freshly OPENed name sits in the OPENING phase until the next commit.
	TreeInterval uint64 `json:"tree_interval"`

	// BiddingPeriod is the width of the BIDDING window in blocks.
	BiddingPeriod uint64 `json:"bidding_period"`

	// RevealPeriod is the width of the REVEAL window in blocks.
	RevealPeriod uint64 `json:"reveal_period"`

	// TransferLockup is the number of blocks a TRANSFER must mature before
	// it can be FINALIZEd.
	TransferLockup uint64 `json:"transfer_lockup"`

	// RenewalWindow is how many blocks a registration remains valid after
	// REGISTER/RENEW/FINALIZE before the name lapses.
	RenewalWindow uint64 `json:"renewal_window"`

	// RenewalMaturity is the minimum block distance between renewals,
	// preventing renewal spam.
	RenewalMaturity uint64 `json:"renewal_maturity"`

	// RevokeCooldown is how many blocks after a REVOKE the name stays
	// un-openable.
	RevokeCooldown uint64 `json:"revoke_cooldown"`

	// MaxResourceSize caps the resource record blob bound by REGISTER/UPDATE.
	MaxResourceSize int `json:"max_resource_size"`

	// RevokeBurn controls fund disposition on REVOKE: burn the locked value
	// (true) or return it to the owner address (false).
	RevokeBurn bool `json:"revoke_burn"`

	// ClaimKey is the compressed public key authorized to sign reserved-name
	// claim proofs. Empty disables CLAIM entirely.
	ClaimKey []byte `json:"-"`

	// ReservedNames lists names excluded from normal auctions; they can only
	// enter the chain through CLAIM.
	ReservedNames []string `json:"reserved_names"`
}

// compressedPubKeySize is the length of a compressed secp256k1 public key.
const compressedPubKeySize = 33

// Validate checks that the rule set is internally consistent.
func (r *NamingRules) Validate() error {
	if r.TreeInterval == 0 {
		return fmt.Errorf("tree interval must be positive")
	}
	if r.BiddingPeriod == 0 {
		return fmt.Errorf("bidding period must be positive")
	}
	if r.RevealPeriod == 0 {
		return fmt.Errorf("reveal period must be positive")
	}
	if r.RenewalWindow == 0 {
		return fmt.Errorf("renewal window must be positive")
	}
	if r.RenewalMaturity >= r.RenewalWindow {
		return fmt.Errorf("renewal maturity %d must be below renewal window %d",
			r.RenewalMaturity, r.RenewalWindow)
	}
	if len(r.ClaimKey) != 0 && len(r.ClaimKey) != compressedPubKeySize {
		return fmt.Errorf("claim key must be %d bytes, got %d", compressedPubKeySize, len(r.ClaimKey))
	}
	if r.MaxResourceSize <= 0 {
		return fmt.Errorf("max resource size must be positive")
	}
	return nil
}

// SetClaimKeyHex sets the claim key from a hex-encoded compressed public key.
func (r *NamingRules) SetClaimKeyHex(s string) error {
	if s == "" {
		r.ClaimKey = nil
		return nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid claim key hex: %w", err)
	}
	if len(b) != compressedPubKeySize {
		return fmt.Errorf("claim key must be %d bytes, got %d", compressedPubKeySize, len(b))
	}
	r.ClaimKey = b
	return nil
}

// MainnetRules returns the mainnet naming rule set.
// Assuming a ~10 minute block interval: auctions bid for ~5 days, reveal
// for ~10 days, registrations last ~2 years.
func MainnetRules() *NamingRules {
	return &NamingRules{
		TreeInterval:    36,
		BiddingPeriod:   720,
		RevealPeriod:    1440,
		TransferLockup:  288,
		RenewalWindow:   105120,
		RenewalMaturity: 4320,
		RevokeCooldown:  1008,
		MaxResourceSize: 512,
		RevokeBurn:      true,
		ReservedNames: []string{
			"klingnet",
			"kn",
			"example",
			"localhost",
			"invalid",
		},
	}
}

// TestnetRules returns the testnet naming rule set: mainnet shape with
// compressed windows so full lifecycles fit in a day of testing.
func TestnetRules() *NamingRules {
	r := MainnetRules()
	r.TreeInterval = 10
	r.BiddingPeriod = 50
	r.RevealPeriod = 100
	r.TransferLockup = 20
	r.RenewalWindow = 2880
	r.RenewalMaturity = 60
	r.RevokeCooldown = 50
	r.RevokeBurn = false
	return r
}

// RegtestRules returns the regression-test rule set with minimal windows.
func RegtestRules() *NamingRules {
	return &NamingRules{
		TreeInterval:    5,
		BiddingPeriod:   5,
		RevealPeriod:    5,
		TransferLockup:  10,
		RenewalWindow:   100,
		RenewalMaturity: 10,
		RevokeCooldown:  10,
		MaxResourceSize: 512,
		RevokeBurn:      true,
		ReservedNames:   []string{"reserved"},
	}
}

// RulesFor returns the naming rules for the given network.
func RulesFor(network NetworkType) *NamingRules {
	switch network {
	case Testnet:
		return TestnetRules()
	case Regtest:
		return RegtestRules()
	default:
		return MainnetRules()
	}
}

// HRPFor returns the bech32 address HRP for the given network.
func HRPFor(network NetworkType) string {
	switch network {
	case Testnet:
		return "tkn"
	case Regtest:
		return "rkn"
	default:
		return "kn"
	}
}
