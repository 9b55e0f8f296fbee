package naming

import (
	"errors"

	"github.com/Klingon-tech/klingnet-names/pkg/covenant"
)

// Covenant rejection errors. All of these are deterministic, final verdicts:
// the same input always yields the same rejection, so nothing here is ever
// retried. Callers classify with errors.Is to decide user-facing behavior
// (e.g. ErrPhaseMismatch means resubmit after the window opens,
// ErrNotNameOwner is permanently invalid).
var (
	// ErrUnknownName is returned when a covenant references a name with no
	// recorded state where one is required.
	ErrUnknownName = errors.New("unknown name")

	// ErrPhaseMismatch is returned when a covenant arrives outside the
	// lifecycle phase that permits it.
	ErrPhaseMismatch = errors.New("phase mismatch")

	// ErrMalformedCovenant is returned for covenants whose item count or
	// widths do not match their type, or whose fields fail content checks.
	ErrMalformedCovenant = covenant.ErrMalformed

	// ErrBlindMismatch is returned when a reveal does not hash to the blind
	// commitment posted by the bid it spends.
	ErrBlindMismatch = errors.New("blind mismatch")

	// ErrNotNameOwner is returned when the spend-authority check fails: the
	// covenant does not spend the coin currently controlling the name.
	ErrNotNameOwner = errors.New("not name owner")

	// ErrPrematureFinalize is returned when a FINALIZE arrives before the
	// transfer lockup has elapsed.
	ErrPrematureFinalize = errors.New("premature finalize")

	// ErrPrematureRenew is returned when a RENEW arrives before the renewal
	// maturity has elapsed.
	ErrPrematureRenew = errors.New("premature renew")

	// ErrDoubleTransition is returned when the coin anchoring a name's state
	// has already been consumed by an earlier-ordered transition.
	ErrDoubleTransition = errors.New("double name transition")

	// ErrNameExpired is returned when a covenant operates on a name whose
	// renewal deadline has passed.
	ErrNameExpired = errors.New("name expired")

	// ErrReservedName is returned when an OPEN targets a reserved name, or
	// a CLAIM targets a name that is not reserved.
	ErrReservedName = errors.New("reserved name")

	// ErrUnrevealedBid is returned when a REDEEM tries to refund a bid that
	// was never revealed; unrevealed lockups are forfeited.
	ErrUnrevealedBid = errors.New("unrevealed bid is forfeited")

	// ErrWinnerRedeem is returned when a REDEEM targets the winning reveal;
	// the winner's excess is released at REGISTER instead.
	ErrWinnerRedeem = errors.New("winning reveal cannot be redeemed")
)
