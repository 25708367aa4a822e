package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrRecordOrderOutcomeCommandIsNotConstructed = errors.New(
	"RecordOrderOutcomeCommand must be created via NewRecordOrderOutcomeCommand constructor",
)

// RecordOrderOutcomeCommand reports how a delivered order ended for the buyer.
//
// Example:
//
//	cmd, err := NewRecordOrderOutcomeCommand(orderID, true, false) // returned
type RecordOrderOutcomeCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	wasReturned  bool
	wasCancelled bool

	guard guard.ConstructorGuard
}

func NewRecordOrderOutcomeCommand(orderID kernel.UUID, wasReturned, wasCancelled bool) (RecordOrderOutcomeCommand, error) {
	cmd := RecordOrderOutcomeCommand{
		wasReturned:  wasReturned,
		wasCancelled: wasCancelled,
		guard:        guard.NewConstructorGuard(),
	}
	if err := cmd.setOrderID(orderID); err != nil {
		return RecordOrderOutcomeCommand{}, err
	}
	return cmd, nil
}

func (c RecordOrderOutcomeCommand) Validate() error {
	return c.guard.Validate(ErrRecordOrderOutcomeCommandIsNotConstructed)
}

func (c RecordOrderOutcomeCommand) OrderID() kernel.UUID { return c.orderID }

func (c RecordOrderOutcomeCommand) WasReturned() bool { return c.wasReturned }

func (c RecordOrderOutcomeCommand) WasCancelled() bool { return c.wasCancelled }

func (c *RecordOrderOutcomeCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	c.orderID = id
	return nil
}
