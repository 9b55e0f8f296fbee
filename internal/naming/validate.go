package naming

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-names/config"
	"github.com/Klingon-tech/klingnet-names/internal/coins"
	"github.com/Klingon-tech/klingnet-names/internal/storage"
	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
	"github.com/Klingon-tech/klingnet-names/pkg/crypto"
	"github.com/Klingon-tech/klingnet-names/pkg/tx"
	"github.com/Klingon-tech/klingnet-names/pkg/types"
)

// AuctionView supplies the bid and reveal records the validator needs to
// check reveals, redemptions and settlement. During block connection it is
// backed by an overlay so records created earlier in the same block are
// visible.
type AuctionView interface {
	// GetBid returns the bid record for an outpoint, or storage.ErrNotFound.
	GetBid(nameHash types.NameHash, outpoint types.Outpoint) (*BidState, error)

	// GetReveal returns the reveal record for an outpoint, or
	// storage.ErrNotFound.
	GetReveal(nameHash types.NameHash, outpoint types.Outpoint) (*RevealState, error)

	// Reveals returns every reveal record posted for the name, including
	// records already settled or redeemed. Winner and settlement are
	// functions of the whole cycle, not of which losers redeemed first;
	// the validator narrows to the relevant cycle by height.
	Reveals(nameHash types.NameHash) ([]RevealState, error)
}

// Context carries the positional facts about one covenant-bearing output.
// Covenant chains are positional: the covenant at output index i continues
// whatever the input at index i spent, so the connector resolves that input
// to SpentCoin before validation.
type Context struct {
	Height   uint64
	TxID     types.Hash
	TxIndex  uint32
	OutIndex uint32
	Output   tx.Output

	// SpentCoin is the coin consumed by the input at the same index as this
	// output, or nil when the transaction has no such input.
	SpentCoin *coins.Coin
}

// Outpoint identifies the covenant output being validated.
func (c *Context) Outpoint() types.Outpoint {
	return types.Outpoint{TxID: c.TxID, Index: c.OutIndex}
}

// Transition is the accepted outcome of validating one covenant output.
// Nothing is persisted here; the connector applies transitions in order and
// commits them atomically per block.
type Transition struct {
	// State is the successor name state. Always non-nil on success.
	State *NameState

	// Bid is a new bid record to persist (BID only).
	Bid *BidState

	// Reveal is a new reveal record to persist (REVEAL only).
	Reveal *RevealState

	// Retired lists auction records consumed by this transition: the bid a
	// REVEAL discloses, the reveal a REDEEM refunds or a REGISTER settles.
	Retired []types.Outpoint

	// Burned is the value destroyed by this transition (REVOKE under the
	// burn policy).
	Burned uint64
}

// Validator checks covenant outputs against recorded name state, the
// auction schedule and the network rules. It holds no mutable state and is
// safe for concurrent use across names.
type Validator struct {
	rules    *config.NamingRules
	reserved *ReservedSet
	auctions AuctionView
}

// NewValidator builds a validator for one network's rules.
func NewValidator(rules *config.NamingRules, reserved *ReservedSet, auctions AuctionView) *Validator {
	return &Validator{rules: rules, reserved: reserved, auctions: auctions}
}

// ValidateOutput checks one covenant output against the current state of
// its name and returns the transition to apply. prev is the name's recorded
// state, nil if none exists. The verdict is deterministic: it depends only
// on prev, the context and the records visible through the auction view.
func (v *Validator) ValidateOutput(prev *NameState, ctx *Context) (*Transition, error) {
	dec, err := covenant.Decode(ctx.Output.Covenant)
	if err != nil {
		return nil, err
	}

	switch cov := dec.(type) {
	case covenant.Open:
		return v.validateOpen(cov, prev, ctx)
	case covenant.Bid:
		return v.validateBid(cov, prev, ctx)
	case covenant.Reveal:
		return v.validateReveal(cov, prev, ctx)
	case covenant.Redeem:
		return v.validateRedeem(cov, prev, ctx)
	case covenant.Register:
		return v.validateRegister(cov, prev, ctx)
	case covenant.Update:
		return v.validateUpdate(cov, prev, ctx)
	case covenant.Renew:
		return v.validateRenew(cov, prev, ctx)
	case covenant.Transfer:
		return v.validateTransfer(cov, prev, ctx)
	case covenant.Finalize:
		return v.validateFinalize(cov, prev, ctx)
	case covenant.Revoke:
		return v.validateRevoke(cov, prev, ctx)
	case covenant.Claim:
		return v.validateClaim(cov, prev, ctx)
	}
	return nil, fmt.Errorf("%w: unhandled covenant %s", ErrMalformedCovenant, ctx.Output.Covenant.Type)
}

func (v *Validator) validateOpen(cov covenant.Open, prev *NameState, ctx *Context) (*Transition, error) {
	name, err := checkNamePreimage(cov.Name, cov.NameHash)
	if err != nil {
		return nil, err
	}
	if v.reserved.Has(cov.NameHash) {
		return nil, fmt.Errorf("%w: %q cannot be auctioned", ErrReservedName, name)
	}
	if prev != nil && !prev.Openable(ctx.Height, v.rules) {
		return nil, fmt.Errorf("%w: %q is in phase %s at height %d",
			ErrPhaseMismatch, name, PhaseOf(prev, ctx.Height, v.rules), ctx.Height)
	}

	// A fresh OPEN starts a new cycle from scratch; nothing from a lapsed
	// prior cycle carries over.
	return &Transition{State: &NameState{
		NameHash: cov.NameHash,
		Name:     name,
		Height:   ctx.Height,
	}}, nil
}

func (v *Validator) validateBid(cov covenant.Bid, prev *NameState, ctx *Context) (*Transition, error) {
	if prev == nil {
		return nil, fmt.Errorf("%w: BID before OPEN for %s", ErrUnknownName, cov.NameHash)
	}
	if phase := PhaseOf(prev, ctx.Height, v.rules); phase != PhaseBidding {
		return nil, fmt.Errorf("%w: BID in phase %s at height %d", ErrPhaseMismatch, phase, ctx.Height)
	}
	if cov.Name != prev.Name {
		return nil, fmt.Errorf("%w: BID name %q does not match %q", ErrMalformedCovenant, cov.Name, prev.Name)
	}
	if ctx.Output.Value == 0 {
		return nil, fmt.Errorf("%w: BID with zero lockup", ErrMalformedCovenant)
	}

	return &Transition{
		State: prev.Clone(),
		Bid: &BidState{
			NameHash: cov.NameHash,
			Outpoint: ctx.Outpoint(),
			Blind:    cov.Blind,
			Lockup:   ctx.Output.Value,
			Height:   ctx.Height,
		},
	}, nil
}

func (v *Validator) validateReveal(cov covenant.Reveal, prev *NameState, ctx *Context) (*Transition, error) {
	if prev == nil {
		return nil, fmt.Errorf("%w: REVEAL for %s", ErrUnknownName, cov.NameHash)
	}
	if phase := PhaseOf(prev, ctx.Height, v.rules); phase != PhaseReveal {
		return nil, fmt.Errorf("%w: REVEAL in phase %s at height %d", ErrPhaseMismatch, phase, ctx.Height)
	}
	if ctx.SpentCoin == nil || !spendsCovenant(ctx.SpentCoin, covenant.TypeBid, cov.NameHash) {
		return nil, fmt.Errorf("%w: REVEAL does not spend a bid for %s", ErrBlindMismatch, cov.NameHash)
	}

	bid, err := v.auctions.GetBid(cov.NameHash, ctx.SpentCoin.Outpoint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no bid record for %s", ErrBlindMismatch, ctx.SpentCoin.Outpoint)
		}
		return nil, err
	}
	if cov.Amount > bid.Lockup {
		return nil, fmt.Errorf("%w: revealed amount %d exceeds lockup %d", ErrMalformedCovenant, cov.Amount, bid.Lockup)
	}
	if Blind(cov.Amount, cov.Nonce) != bid.Blind {
		return nil, fmt.Errorf("%w: reveal does not open the committed blind", ErrBlindMismatch)
	}
	if ctx.Output.Value != bid.Lockup {
		return nil, fmt.Errorf("%w: REVEAL must carry the full lockup %d, got %d",
			ErrMalformedCovenant, bid.Lockup, ctx.Output.Value)
	}
	if ctx.Output.Address != ctx.SpentCoin.Address {
		return nil, fmt.Errorf("%w: REVEAL must pay the bidder's address", ErrNotNameOwner)
	}

	next := prev.Clone()
	if cov.Amount > next.Highest {
		next.Highest = cov.Amount
	}
	next.RevealCount++
	return &Transition{
		State: next,
		Reveal: &RevealState{
			NameHash: cov.NameHash,
			Outpoint: ctx.Outpoint(),
			Bid:      cov.Amount,
			Lockup:   bid.Lockup,
			Height:   ctx.Height,
			TxIndex:  ctx.TxIndex,
			OutIndex: ctx.OutIndex,
		},
		Retired: []types.Outpoint{ctx.SpentCoin.Outpoint},
	}, nil
}

func (v *Validator) validateRedeem(cov covenant.Redeem, prev *NameState, ctx *Context) (*Transition, error) {
	if prev == nil {
		return nil, fmt.Errorf("%w: REDEEM for %s", ErrUnknownName, cov.NameHash)
	}
	if ctx.SpentCoin == nil {
		return nil, fmt.Errorf("%w: REDEEM must spend an auction output", ErrMalformedCovenant)
	}
	if spendsCovenant(ctx.SpentCoin, covenant.TypeBid, cov.NameHash) {
		return nil, fmt.Errorf("%w: bid %s was never revealed", ErrUnrevealedBid, ctx.SpentCoin.Outpoint)
	}
	if !spendsCovenant(ctx.SpentCoin, covenant.TypeReveal, cov.NameHash) {
		return nil, fmt.Errorf("%w: REDEEM must spend a reveal output", ErrMalformedCovenant)
	}

	rec, err := v.auctions.GetReveal(cov.NameHash, ctx.SpentCoin.Outpoint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no reveal record for %s", ErrUnrevealedBid, ctx.SpentCoin.Outpoint)
		}
		return nil, err
	}

	// Once the name is registered the winning record is settled and gone;
	// every reveal still live is a loser. Before that, the winner is
	// recomputed and blocked: its excess is released at REGISTER instead.
	if !prev.Registered() {
		reveals, err := v.auctions.Reveals(cov.NameHash)
		if err != nil {
			return nil, err
		}
		if result := ComputeWinner(v.cycleReveals(prev, reveals)); result != nil && result.Winner.Outpoint == rec.Outpoint {
			return nil, fmt.Errorf("%w: %s", ErrWinnerRedeem, rec.Outpoint)
		}
	}
	if ctx.Output.Value != rec.Lockup {
		return nil, fmt.Errorf("%w: REDEEM must refund the full lockup %d, got %d",
			ErrMalformedCovenant, rec.Lockup, ctx.Output.Value)
	}
	if ctx.Output.Address != ctx.SpentCoin.Address {
		return nil, fmt.Errorf("%w: REDEEM must pay the bidder's address", ErrNotNameOwner)
	}

	return &Transition{
		State:   prev.Clone(),
		Retired: []types.Outpoint{ctx.SpentCoin.Outpoint},
	}, nil
}

func (v *Validator) validateRegister(cov covenant.Register, prev *NameState, ctx *Context) (*Transition, error) {
	if prev == nil {
		return nil, fmt.Errorf("%w: REGISTER for %s", ErrUnknownName, cov.NameHash)
	}
	if prev.Registered() {
		return nil, fmt.Errorf("%w: %q is already registered", ErrPhaseMismatch, prev.Name)
	}
	if prev.IsRevoked() {
		return nil, fmt.Errorf("%w: %q is revoked", ErrPhaseMismatch, prev.Name)
	}
	if phase := PhaseAt(prev.Height, ctx.Height, v.rules); phase != PhaseClosed {
		return nil, fmt.Errorf("%w: REGISTER in phase %s at height %d", ErrPhaseMismatch, phase, ctx.Height)
	}
	if len(cov.Resource) > int(v.rules.MaxResourceSize) {
		return nil, fmt.Errorf("%w: resource %d bytes exceeds %d",
			ErrMalformedCovenant, len(cov.Resource), v.rules.MaxResourceSize)
	}
	if ctx.SpentCoin == nil || !spendsCovenant(ctx.SpentCoin, covenant.TypeReveal, cov.NameHash) {
		return nil, fmt.Errorf("%w: REGISTER must spend the winning reveal", ErrMalformedCovenant)
	}

	rec, err := v.auctions.GetReveal(cov.NameHash, ctx.SpentCoin.Outpoint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: no reveal record for %s", ErrNotNameOwner, ctx.SpentCoin.Outpoint)
		}
		return nil, err
	}
	reveals, err := v.auctions.Reveals(cov.NameHash)
	if err != nil {
		return nil, err
	}
	result := ComputeWinner(v.cycleReveals(prev, reveals))
	if result == nil {
		return nil, fmt.Errorf("%w: auction for %q is void", ErrPhaseMismatch, prev.Name)
	}
	if result.Winner.Outpoint != rec.Outpoint {
		return nil, fmt.Errorf("%w: %s did not win the auction", ErrNotNameOwner, rec.Outpoint)
	}
	if ctx.Output.Value != result.Settlement {
		return nil, fmt.Errorf("%w: REGISTER must lock the settlement price %d, got %d",
			ErrMalformedCovenant, result.Settlement, ctx.Output.Value)
	}
	if ctx.Output.Address != ctx.SpentCoin.Address {
		return nil, fmt.Errorf("%w: REGISTER must pay the winner's address", ErrNotNameOwner)
	}

	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Value = result.Settlement
	next.Highest = result.Winner.Bid
	next.Data = cov.Resource
	next.Renewal = ctx.Height + v.rules.RenewalWindow
	next.Renewals = 0
	return &Transition{
		State:   next,
		Retired: []types.Outpoint{ctx.SpentCoin.Outpoint},
	}, nil
}

func (v *Validator) validateUpdate(cov covenant.Update, prev *NameState, ctx *Context) (*Transition, error) {
	if err := v.checkOwned(prev, cov.NameHash, ctx.Height); err != nil {
		return nil, err
	}
	if prev.InTransfer() {
		return nil, fmt.Errorf("%w: %q has a pending transfer", ErrPhaseMismatch, prev.Name)
	}
	if err := v.checkOwnerSpend(prev, ctx); err != nil {
		return nil, err
	}
	if err := checkValuePreserved(prev, ctx); err != nil {
		return nil, err
	}
	if len(cov.Resource) > int(v.rules.MaxResourceSize) {
		return nil, fmt.Errorf("%w: resource %d bytes exceeds %d",
			ErrMalformedCovenant, len(cov.Resource), v.rules.MaxResourceSize)
	}

	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Data = cov.Resource
	return &Transition{State: next}, nil
}

func (v *Validator) validateRenew(cov covenant.Renew, prev *NameState, ctx *Context) (*Transition, error) {
	if err := v.checkOwned(prev, cov.NameHash, ctx.Height); err != nil {
		return nil, err
	}
	if prev.InTransfer() {
		return nil, fmt.Errorf("%w: %q has a pending transfer", ErrPhaseMismatch, prev.Name)
	}
	if err := v.checkOwnerSpend(prev, ctx); err != nil {
		return nil, err
	}
	if err := checkValuePreserved(prev, ctx); err != nil {
		return nil, err
	}
	if mature := prev.LastRenewalHeight(v.rules) + v.rules.RenewalMaturity; ctx.Height < mature {
		return nil, fmt.Errorf("%w: renewable at height %d, got %d", ErrPrematureRenew, mature, ctx.Height)
	}
	if cov.Proof != RenewalProof(cov.NameHash, prev.Renewals) {
		return nil, fmt.Errorf("%w: renewal proof mismatch for %q", ErrMalformedCovenant, prev.Name)
	}

	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Renewal = ctx.Height + v.rules.RenewalWindow
	next.Renewals++
	return &Transition{State: next}, nil
}

func (v *Validator) validateTransfer(cov covenant.Transfer, prev *NameState, ctx *Context) (*Transition, error) {
	if err := v.checkOwned(prev, cov.NameHash, ctx.Height); err != nil {
		return nil, err
	}
	if prev.InTransfer() {
		return nil, fmt.Errorf("%w: %q already has a pending transfer", ErrPhaseMismatch, prev.Name)
	}
	if err := v.checkOwnerSpend(prev, ctx); err != nil {
		return nil, err
	}
	if err := checkValuePreserved(prev, ctx); err != nil {
		return nil, err
	}

	// Ownership does not move yet; the coin stays with the current owner
	// until the lockup elapses and a FINALIZE pays the target address.
	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Transfer = ctx.Height
	return &Transition{State: next}, nil
}

func (v *Validator) validateFinalize(cov covenant.Finalize, prev *NameState, ctx *Context) (*Transition, error) {
	if err := v.checkOwned(prev, cov.NameHash, ctx.Height); err != nil {
		return nil, err
	}
	if !prev.InTransfer() {
		return nil, fmt.Errorf("%w: %q has no pending transfer", ErrPhaseMismatch, prev.Name)
	}
	if mature := prev.Transfer + v.rules.TransferLockup; ctx.Height < mature {
		return nil, fmt.Errorf("%w: finalizable at height %d, got %d", ErrPrematureFinalize, mature, ctx.Height)
	}
	if err := v.checkOwnerSpend(prev, ctx); err != nil {
		return nil, err
	}
	if cov.Name != prev.Name {
		return nil, fmt.Errorf("%w: FINALIZE name %q does not match %q", ErrMalformedCovenant, cov.Name, prev.Name)
	}

	spent, err := covenant.Decode(ctx.SpentCoin.Covenant)
	if err != nil {
		return nil, err
	}
	transfer, ok := spent.(covenant.Transfer)
	if !ok {
		return nil, fmt.Errorf("%w: FINALIZE must spend a transfer output", ErrMalformedCovenant)
	}
	if ctx.Output.Address != transfer.NewAddress {
		return nil, fmt.Errorf("%w: FINALIZE must pay the transfer target", ErrMalformedCovenant)
	}
	if err := checkValuePreserved(prev, ctx); err != nil {
		return nil, err
	}

	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Transfer = 0
	next.Renewal = ctx.Height + v.rules.RenewalWindow
	next.Renewals++
	return &Transition{State: next}, nil
}

func (v *Validator) validateRevoke(cov covenant.Revoke, prev *NameState, ctx *Context) (*Transition, error) {
	if err := v.checkOwned(prev, cov.NameHash, ctx.Height); err != nil {
		return nil, err
	}
	if err := v.checkOwnerSpend(prev, ctx); err != nil {
		return nil, err
	}

	burned := uint64(0)
	if v.rules.RevokeBurn {
		if ctx.Output.Value != 0 {
			return nil, fmt.Errorf("%w: revoked value must burn, got %d", ErrMalformedCovenant, ctx.Output.Value)
		}
		burned = prev.Value
	} else {
		if ctx.Output.Value != prev.Value {
			return nil, fmt.Errorf("%w: REVOKE must refund the locked value %d, got %d",
				ErrMalformedCovenant, prev.Value, ctx.Output.Value)
		}
		if ctx.Output.Address != ctx.SpentCoin.Address {
			return nil, fmt.Errorf("%w: REVOKE must pay the owner's address", ErrNotNameOwner)
		}
	}

	next := prev.Clone()
	next.Owner = ctx.Outpoint()
	next.Revoked = ctx.Height
	next.Transfer = 0
	next.Value = ctx.Output.Value
	next.Data = nil
	return &Transition{State: next, Burned: burned}, nil
}

func (v *Validator) validateClaim(cov covenant.Claim, prev *NameState, ctx *Context) (*Transition, error) {
	name, err := checkNamePreimage(cov.Name, cov.NameHash)
	if err != nil {
		return nil, err
	}
	if !v.reserved.Has(cov.NameHash) {
		return nil, fmt.Errorf("%w: %q is not reserved", ErrReservedName, name)
	}
	if len(v.rules.ClaimKey) == 0 {
		return nil, fmt.Errorf("%w: claims are not enabled on this network", ErrReservedName)
	}
	if prev != nil && !prev.Openable(ctx.Height, v.rules) {
		return nil, fmt.Errorf("%w: %q is in phase %s at height %d",
			ErrPhaseMismatch, name, PhaseOf(prev, ctx.Height, v.rules), ctx.Height)
	}

	digest := ClaimDigest(cov.NameHash, ctx.Output.Address)
	if !crypto.VerifySignature(digest[:], cov.Proof, v.rules.ClaimKey) {
		return nil, fmt.Errorf("%w: invalid claim proof for %q", ErrMalformedCovenant, name)
	}

	// Claimed names skip the auction entirely: ownership is immediate and
	// the renewal clock starts now.
	return &Transition{State: &NameState{
		NameHash: cov.NameHash,
		Name:     name,
		Height:   ctx.Height,
		Owner:    ctx.Outpoint(),
		Value:    ctx.Output.Value,
		Renewal:  ctx.Height + v.rules.RenewalWindow,
		Claimed:  true,
		Weak:     true,
	}}, nil
}

// checkOwned verifies the name is currently registered, live and operable:
// the shared precondition of UPDATE, RENEW, TRANSFER, FINALIZE and REVOKE.
func (v *Validator) checkOwned(prev *NameState, nameHash types.NameHash, height uint64) error {
	if prev == nil {
		return fmt.Errorf("%w: %s", ErrUnknownName, nameHash)
	}
	if !prev.Registered() {
		return fmt.Errorf("%w: %q is not registered", ErrPhaseMismatch, prev.Name)
	}
	if prev.IsRevoked() {
		return fmt.Errorf("%w: %q is revoked", ErrPhaseMismatch, prev.Name)
	}
	if prev.IsExpired(height) {
		return fmt.Errorf("%w: %q lapsed at height %d", ErrNameExpired, prev.Name, prev.Renewal)
	}
	return nil
}

// checkOwnerSpend verifies the covenant spends the coin currently
// controlling the name. This positional check is the entire ownership
// model: whoever can spend the owner coin owns the name.
func (v *Validator) checkOwnerSpend(prev *NameState, ctx *Context) error {
	if ctx.SpentCoin == nil || ctx.SpentCoin.Outpoint != prev.Owner {
		return fmt.Errorf("%w: %q is controlled by %s", ErrNotNameOwner, prev.Name, prev.Owner)
	}
	return nil
}

// checkValuePreserved verifies the successor owner coin carries the same
// locked value as the current one. REVOKE is exempt: its disposition is a
// policy decision checked separately.
func checkValuePreserved(prev *NameState, ctx *Context) error {
	if ctx.Output.Value != prev.Value {
		return fmt.Errorf("%w: name coin value %d must be preserved, got %d",
			ErrMalformedCovenant, prev.Value, ctx.Output.Value)
	}
	return nil
}

// cycleReveals narrows reveal records to the current auction cycle.
// Records from an earlier cycle can outlive it when the loser never
// redeemed; they stay refundable but never participate in settlement again.
// Retired records of the current cycle stay in: a redeemed loser still
// sets the price.
func (v *Validator) cycleReveals(prev *NameState, reveals []RevealState) []RevealState {
	start, end := RevealWindow(prev.Height, v.rules)
	out := make([]RevealState, 0, len(reveals))
	for _, r := range reveals {
		if r.Height >= start && r.Height < end {
			out = append(out, r)
		}
	}
	return out
}

// checkNamePreimage canonicalizes a raw name item and verifies it hashes to
// the covenant's name hash.
func checkNamePreimage(raw string, nameHash types.NameHash) (string, error) {
	name, err := Canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCovenant, err)
	}
	if HashName(name) != nameHash {
		return "", fmt.Errorf("%w: %q does not hash to %s", ErrMalformedCovenant, name, nameHash)
	}
	return name, nil
}

// spendsCovenant reports whether the spent coin carries the given covenant
// type for the given name.
func spendsCovenant(coin *coins.Coin, t covenant.Type, nameHash types.NameHash) bool {
	if coin.Covenant == nil || coin.Covenant.Type != t {
		return false
	}
	return coin.Covenant.NameHash() == nameHash
}
