package ports

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// OfferRepository persists dispatch offers so that a partner app, the awaiting
// cascade and the expiry sweeper can each move an offer out of OFFERED, with
// exactly one of them winning.
type OfferRepository interface {
	// Add stores a newly published offer.
	Add(ctx context.Context, offer *dispatch.Offer) error

	// Get retrieves an offer by ID.
	// Returns errs.ErrObjectNotFound when the offer does not exist.
	Get(ctx context.Context, id kernel.UUID) (*dispatch.Offer, error)

	// Resolve writes the offer's new state only if the stored state still equals
	// expected. A lost race returns errs.ErrVersionConflict.
	Resolve(ctx context.Context, offer *dispatch.Offer, expected dispatch.OfferState) error

	// ListExpired returns pending offers whose deadline is at or before now.
	ListExpired(ctx context.Context, now time.Time) ([]*dispatch.Offer, error)
}
