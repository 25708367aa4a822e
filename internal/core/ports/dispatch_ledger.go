package ports

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// DispatchLedger is the append-only log of dispatch attempts.
type DispatchLedger interface {
	// Append stores an attempt. Appending an attempt whose ID is already stored is a
	// no-op, so a retried cascade step never duplicates a ledger entry. The attempt is
	// visible to ListByOrder as soon as Append returns.
	Append(ctx context.Context, attempt dispatch.Attempt) error

	// ListByOrder returns the order's attempts in creation order (sequence, then
	// pinged at). An order with no attempts yields an empty slice.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]dispatch.Attempt, error)
}
