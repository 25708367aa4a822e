package ports

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// BuyerRepository stores buyer order history and trust scores.
type BuyerRepository interface {
	// Get returns errs.ErrObjectNotFound when the buyer does not exist.
	Get(ctx context.Context, id kernel.UUID) (*buyer.Buyer, error)

	// Update writes the buyer if the stored version still equals buyer.Version(),
	// bumping it by one. A stale write returns errs.ErrVersionConflict.
	Update(ctx context.Context, buyer *buyer.Buyer) error
}
