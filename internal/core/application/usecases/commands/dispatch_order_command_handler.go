package commands

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// Cascade runs the dispatch stages for one order.
type Cascade interface {
	Run(ctx context.Context, orderID kernel.UUID, vendor, customer kernel.Location) (dispatch.Outcome, error)
}

// DispatchOrderCommandHandler hands a validated command to the cascade.
//
// A cascade that found nobody is not an error: Handle returns the failed Outcome and
// a nil error. Errors are reserved for infrastructure failures such as an
// unreachable dispatch ledger.
//
// Example:
//
//	outcome, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if !outcome.Success {
//	    log.Printf("order %s unassigned: %s", cmd.OrderID(), outcome.Message)
//	}
type DispatchOrderCommandHandler struct {
	cascade Cascade
}

func NewDispatchOrderCommandHandler(cascade Cascade) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{cascade: cascade}
}

func (h DispatchOrderCommandHandler) Handle(ctx context.Context, command DispatchOrderCommand) (dispatch.Outcome, error) {
	if err := command.Validate(); err != nil {
		return dispatch.Outcome{}, err
	}

	return h.cascade.Run(ctx, command.OrderID(), command.Vendor(), command.Customer())
}
