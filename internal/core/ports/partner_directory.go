// Package ports defines the contracts between the dispatch and trust core and the
// stores behind it. The core never depends on a concrete store; adapters in
// internal/adapters/out implement these interfaces.
package ports

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
)

// PartnerDirectory is the live registry of delivery partners: their type, last
// reported location, availability and delivery history.
type PartnerDirectory interface {
	// ListAvailable returns every ACTIVE and available partner whose type is one of
	// types. Distance filtering happens in the core, not in the store.
	ListAvailable(ctx context.Context, types []partner.Type) ([]*partner.Partner, error)

	// Get retrieves a partner by ID.
	// Returns errs.ErrObjectNotFound when the partner does not exist.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// Claim atomically takes an available partner out of the pool for one offer.
	// The claim succeeds only if the partner is still available and still at
	// version; otherwise it returns errs.ErrVersionConflict and changes nothing.
	//
	// Example:
	//   if err := dir.Claim(ctx, p.ID(), p.Version()); errors.Is(err, errs.ErrVersionConflict) {
	//       // another order took this partner first, try the next candidate
	//   }
	Claim(ctx context.Context, id kernel.UUID, version int64) error

	// Release drops the claim after a declined or expired offer. The partner goes
	// back into the pool only if it is still available by its own toggle.
	Release(ctx context.Context, id kernel.UUID) error

	// Assign drops the claim of a partner that accepted its offer and marks it
	// unavailable until it toggles itself back on.
	Assign(ctx context.Context, id kernel.UUID) error

	// UpdateLocation stores a location ping from the partner app.
	UpdateLocation(ctx context.Context, id kernel.UUID, location kernel.Location, at time.Time) error

	// SetAvailability toggles whether the partner is taking orders. It never
	// affects a pending claim.
	SetAvailability(ctx context.Context, id kernel.UUID, available bool) error
}
