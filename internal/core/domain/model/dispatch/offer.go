package dispatch

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var (
	// ErrOfferIsNotConstructed is returned when using an improperly initialized Offer.
	ErrOfferIsNotConstructed = errors.New("Offer must be created via NewOffer or RestoreOffer")
	// ErrOfferIsNotPending is returned when responding to an offer that already reached a final state.
	ErrOfferIsNotPending = errors.New("offer is no longer pending")
	// ErrOfferDeadlinePassed is returned when a partner answers after the deadline.
	ErrOfferDeadlinePassed = errors.New("offer deadline has passed")
	// ErrOfferDeadlineNotReached is returned when expiring an offer before its deadline.
	ErrOfferDeadlineNotReached = errors.New("offer deadline has not been reached")
	// ErrStageHasNoOffers is returned when offering a courier-stage assignment.
	ErrStageHasNoOffers = errors.New("stage does not use offers")
)

// Offer is a time-boxed proposal of an order to a claimed partner.
//
// The cascade publishes an Offer and waits for it to leave the Offered state. The
// partner app answers through Accept or Decline; the awaiting cascade or the sweeper
// job calls Expire once the deadline has passed. A response arriving at or after the
// deadline is rejected so that an accepted order is never handed to a partner the
// cascade already gave up on.
type Offer struct {
	id          kernel.UUID
	orderID     kernel.UUID
	partnerID   kernel.UUID
	stage       Stage
	state       OfferState
	offeredAt   time.Time
	deadline    time.Time
	respondedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewOffer creates a pending offer whose deadline is offeredAt plus the stage's
// offer timeout.
//
// Example:
//
//	offer, err := dispatch.NewOffer(kernel.NewUUID(), orderID, walker.ID(), dispatch.Mesh, now)
//	// offer.Deadline() == now + 180s
func NewOffer(id, orderID, partnerID kernel.UUID, stage Stage, offeredAt time.Time) (*Offer, error) {
	if !stage.UsesPartnerDirectory() {
		return nil, fmt.Errorf("%w: %s", ErrStageHasNoOffers, stage)
	}
	offeredAt = offeredAt.UTC()
	return RestoreOffer(OfferParams{
		ID:        id,
		OrderID:   orderID,
		PartnerID: partnerID,
		Stage:     stage,
		State:     Offered,
		OfferedAt: offeredAt,
		Deadline:  offeredAt.Add(stage.Policy().OfferTimeout),
	})
}

// OfferParams carries the persisted state of an offer.
type OfferParams struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	PartnerID   kernel.UUID
	Stage       Stage
	State       OfferState
	OfferedAt   time.Time
	Deadline    time.Time
	RespondedAt *time.Time
}

// RestoreOffer reconstructs an offer from the offer store.
func RestoreOffer(params OfferParams) (*Offer, error) {
	var errList []error
	if err := params.ID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := params.OrderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if err := params.PartnerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("partnerID", err))
	}
	if !params.Deadline.After(params.OfferedAt) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"deadline", fmt.Errorf("deadline %s is not after offeredAt %s", params.Deadline, params.OfferedAt)))
	}
	errList = append(errList, params.Stage.Validate(), params.State.Validate())
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	o := &Offer{
		id:        params.ID,
		orderID:   params.OrderID,
		partnerID: params.PartnerID,
		stage:     params.Stage,
		state:     params.State,
		offeredAt: params.OfferedAt.UTC(),
		deadline:  params.Deadline.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if params.RespondedAt != nil {
		at := params.RespondedAt.UTC()
		o.respondedAt = &at
	}
	return o, nil
}

// Validate checks if the Offer was properly constructed.
func (o *Offer) Validate() error {
	if o == nil {
		return ErrOfferIsNotConstructed
	}
	return o.guard.Validate(ErrOfferIsNotConstructed)
}

func (o *Offer) ID() kernel.UUID { return o.id }

func (o *Offer) OrderID() kernel.UUID { return o.orderID }

func (o *Offer) PartnerID() kernel.UUID { return o.partnerID }

func (o *Offer) Stage() Stage { return o.stage }

func (o *Offer) State() OfferState { return o.state }

func (o *Offer) OfferedAt() time.Time { return o.offeredAt }

func (o *Offer) Deadline() time.Time { return o.deadline }

func (o *Offer) RespondedAt() (time.Time, bool) {
	if o.respondedAt == nil {
		return time.Time{}, false
	}
	return *o.respondedAt, true
}

// IsPending reports whether the offer still awaits a response.
func (o *Offer) IsPending() bool {
	return o.state == Offered
}

// IsExpiredAt reports whether a pending offer's deadline is at or before at.
func (o *Offer) IsExpiredAt(at time.Time) bool {
	return o.IsPending() && !at.Before(o.deadline)
}

// Accept records the partner taking the order.
//
// Returns:
//   - ErrOfferIsNotPending (wrapped) if the offer already reached a final state
//   - ErrOfferDeadlinePassed if at is at or after the deadline
func (o *Offer) Accept(at time.Time) error {
	return o.respond(Accepted, at)
}

// Decline records the partner refusing the order.
func (o *Offer) Decline(at time.Time) error {
	return o.respond(Declined, at)
}

// Expire moves a pending offer whose deadline passed to TimedOut.
func (o *Offer) Expire(at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.IsPending() && at.Before(o.deadline) {
		return ErrOfferDeadlineNotReached
	}
	next, err := o.state.transition(TimedOut)
	if err != nil {
		return err
	}
	o.state = next
	return nil
}

func (o *Offer) respond(to OfferState, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.IsExpiredAt(at) {
		return ErrOfferDeadlinePassed
	}
	next, err := o.state.transition(to)
	if err != nil {
		return err
	}
	at = at.UTC()
	o.state = next
	o.respondedAt = &at
	return nil
}
