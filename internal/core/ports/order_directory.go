package ports

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/order"
)

// OrderDirectory is a read-only view of orders owned by the storefront.
type OrderDirectory interface {
	// Get returns errs.ErrObjectNotFound when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
