package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand asks for a delivery partner for an order, running the
// MESH → GIG → COURIER cascade from the vendor's pickup point.
//
// Example:
//
//	cmd, err := NewDispatchOrderCommand(orderID, vendor, customer)
//	if err != nil {
//	    return err
//	}
//	outcome, err := handler.Handle(ctx, cmd)
type DispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	vendor   kernel.Location
	customer kernel.Location

	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand validates the order ID and both locations.
func NewDispatchOrderCommand(orderID kernel.UUID, vendor, customer kernel.Location) (DispatchOrderCommand, error) {
	cmd := DispatchOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setVendor(vendor),
		cmd.setCustomer(customer),
	); err != nil {
		return DispatchOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

func (c DispatchOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Vendor returns the pickup location.
func (c DispatchOrderCommand) Vendor() kernel.Location { return c.vendor }

// Customer returns the delivery location.
func (c DispatchOrderCommand) Customer() kernel.Location { return c.customer }

func (c *DispatchOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	c.orderID = orderID
	return nil
}

func (c *DispatchOrderCommand) setVendor(vendor kernel.Location) error {
	if err := vendor.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("vendorLocation", err)
	}
	c.vendor = vendor
	return nil
}

func (c *DispatchOrderCommand) setCustomer(customer kernel.Location) error {
	if err := customer.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerLocation", err)
	}
	c.customer = customer
	return nil
}
