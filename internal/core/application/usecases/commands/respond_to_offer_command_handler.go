package commands

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// ErrOfferBelongsToAnotherPartner is returned when a partner answers an offer that
// was made to someone else.
var ErrOfferBelongsToAnotherPartner = errors.New("offer was made to another partner")

// RespondToOfferCommandHandler records a partner's answer to a pending offer.
//
// The answer is written with a compare-and-set on the OFFERED state, so when it
// races the deadline sweep exactly one of them wins. A losing answer gets
// dispatch.ErrOfferIsNotPending; an answer at or after the deadline gets
// dispatch.ErrOfferDeadlinePassed.
//
// Example:
//
//	offer, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, dispatch.ErrOfferDeadlinePassed):
//	    // too late, the order moved on
//	case err != nil:
//	    return err
//	default:
//	    log.Printf("offer %s is %s", offer.ID(), offer.State())
//	}
type RespondToOfferCommandHandler struct {
	offers ports.OfferRepository
	clock  func() time.Time
}

// NewRespondToOfferCommandHandler creates the handler. A nil clock uses time.Now.
func NewRespondToOfferCommandHandler(offers ports.OfferRepository, clock func() time.Time) RespondToOfferCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return RespondToOfferCommandHandler{offers: offers, clock: clock}
}

func (h RespondToOfferCommandHandler) Handle(ctx context.Context, command RespondToOfferCommand) (*dispatch.Offer, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	offer, err := h.offers.Get(ctx, command.OfferID())
	if err != nil {
		return nil, err
	}
	if !offer.PartnerID().IsEqual(command.PartnerID()) {
		return nil, ErrOfferBelongsToAnotherPartner
	}

	now := h.clock()
	if command.Accept() {
		err = offer.Accept(now)
	} else {
		err = offer.Decline(now)
	}
	if err != nil {
		return nil, err
	}

	err = h.offers.Resolve(ctx, offer, dispatch.Offered)
	if errors.Is(err, errs.ErrVersionConflict) {
		return nil, errors.Join(dispatch.ErrOfferIsNotPending, err)
	}
	if err != nil {
		return nil, err
	}

	return offer, nil
}
