package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrUpdatePartnerLocationCommandIsNotConstructed = errors.New(
	"UpdatePartnerLocationCommand must be created via NewUpdatePartnerLocationCommand constructor",
)

// UpdatePartnerLocationCommand moves a partner to the position their app reported.
//
// Example:
//
//	loc, _ := kernel.NewLocation(12.9716, 77.5946)
//	cmd, err := NewUpdatePartnerLocationCommand(partnerID, loc)
type UpdatePartnerLocationCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	location  kernel.Location

	guard guard.ConstructorGuard
}

func NewUpdatePartnerLocationCommand(partnerID kernel.UUID, location kernel.Location) (UpdatePartnerLocationCommand, error) {
	cmd := UpdatePartnerLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPartnerID(partnerID),
		cmd.setLocation(location),
	); err != nil {
		return UpdatePartnerLocationCommand{}, err
	}

	return cmd, nil
}

func (c UpdatePartnerLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePartnerLocationCommandIsNotConstructed)
}

func (c UpdatePartnerLocationCommand) PartnerID() kernel.UUID { return c.partnerID }

func (c UpdatePartnerLocationCommand) Location() kernel.Location { return c.location }

func (c *UpdatePartnerLocationCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}
	c.partnerID = id
	return nil
}

func (c *UpdatePartnerLocationCommand) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("location", err)
	}
	c.location = location
	return nil
}
