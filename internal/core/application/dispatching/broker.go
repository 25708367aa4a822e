package dispatching

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
)

// Clock returns the current time.
type Clock func() time.Time

// OfferBroker delivers an offer to a claimed partner and reports how it ended.
type OfferBroker interface {
	// Publish makes the offer visible to the partner.
	Publish(ctx context.Context, offer *dispatch.Offer) error

	// Await blocks until the offer reaches a final state and returns it in that
	// state. It returns early only with ctx's error.
	Await(ctx context.Context, offer *dispatch.Offer) (*dispatch.Offer, error)
}

// AutoAcceptBroker accepts every offer the moment it is awaited. It reproduces
// a dispatch flow without a partner handshake and keeps nothing between calls.
type AutoAcceptBroker struct {
	clock Clock
}

// NewAutoAcceptBroker creates an AutoAcceptBroker. A nil clock uses time.Now.
func NewAutoAcceptBroker(clock Clock) AutoAcceptBroker {
	if clock == nil {
		clock = time.Now
	}
	return AutoAcceptBroker{clock: clock}
}

func (b AutoAcceptBroker) Publish(_ context.Context, offer *dispatch.Offer) error {
	return offer.Validate()
}

func (b AutoAcceptBroker) Await(ctx context.Context, offer *dispatch.Offer) (*dispatch.Offer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := offer.Accept(b.clock()); err != nil {
		return nil, err
	}
	return offer, nil
}
