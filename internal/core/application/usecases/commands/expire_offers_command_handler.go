package commands

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// ExpireOffersCommandHandler moves overdue offers to TIMED_OUT.
//
// An offer answered between the listing and the write is left alone. The partner
// claim stays with the cascade that made the offer: it releases the partner when it
// sees the TIMED_OUT state. A partner whose cascade died stays claimed until they
// toggle their availability.
type ExpireOffersCommandHandler struct {
	offers ports.OfferRepository
	clock  func() time.Time
}

// NewExpireOffersCommandHandler creates the handler. A nil clock uses time.Now.
func NewExpireOffersCommandHandler(offers ports.OfferRepository, clock func() time.Time) ExpireOffersCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return ExpireOffersCommandHandler{offers: offers, clock: clock}
}

// Handle returns how many offers it timed out. Failures on single offers do not
// stop the sweep; they are joined into the returned error.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, command ExpireOffersCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	now := h.clock()
	overdue, err := h.offers.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	var errList []error
	for _, offer := range overdue {
		if err = offer.Expire(now); err != nil {
			errList = append(errList, err)
			continue
		}
		err = h.offers.Resolve(ctx, offer, dispatch.Offered)
		if errors.Is(err, errs.ErrVersionConflict) {
			continue
		}
		if err != nil {
			errList = append(errList, err)
			continue
		}
		expired++
	}

	return expired, errors.Join(errList...)
}
