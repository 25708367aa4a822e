package dispatch

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// OfferState is the lifecycle of a dispatch offer.
//
// State transitions:
//
//	Offered ──┬──> Accepted
//	          ├──> Declined
//	          └──> TimedOut
//
// Every state other than Offered is final.
type OfferState int

const (
	// UnknownOfferState catches uninitialized values.
	UnknownOfferState OfferState = iota
	// Offered means the partner was pinged and has until the deadline to respond.
	Offered
	// Accepted means the partner took the order.
	Accepted
	// Declined means the partner refused the order.
	Declined
	// TimedOut means the deadline passed without a response.
	TimedOut
)

var offerStateNames = map[OfferState]string{
	Offered:  "OFFERED",
	Accepted: "ACCEPTED",
	Declined: "DECLINED",
	TimedOut: "TIMED_OUT",
}

// ParseOfferState converts a persisted state name to an OfferState.
func ParseOfferState(s string) (OfferState, error) {
	for st, name := range offerStateNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownOfferState, errs.NewValueIsInvalidErrorWithCause("offerState", fmt.Errorf("%q is not an offer state", s))
}

// Validate checks if the OfferState value is valid.
func (s OfferState) Validate() error {
	if _, ok := offerStateNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("offerState", fmt.Errorf("%d is not an offer state", s))
	}
	return nil
}

func (s OfferState) String() string {
	if name, ok := offerStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsFinal reports whether no further transition is possible.
func (s OfferState) IsFinal() bool {
	switch s {
	case Accepted, Declined, TimedOut:
		return true
	case Offered, UnknownOfferState:
		return false
	}
	return false
}

// transition validates a move out of Offered into one of the final states.
func (s OfferState) transition(to OfferState) (OfferState, error) {
	if s != Offered {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"offerState",
			fmt.Errorf("%w: cannot move from %s to %s", ErrOfferIsNotPending, s, to),
		)
	}
	if !to.IsFinal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"offerState",
			fmt.Errorf("%s is not a valid response state", to),
		)
	}
	return to, nil
}
