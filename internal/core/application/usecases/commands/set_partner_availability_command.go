package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrSetPartnerAvailabilityCommandIsNotConstructed = errors.New(
	"SetPartnerAvailabilityCommand must be created via NewSetPartnerAvailabilityCommand constructor",
)

// SetPartnerAvailabilityCommand puts a partner on or off duty.
type SetPartnerAvailabilityCommand struct { //nolint:recvcheck //using for validation
	partnerID kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewSetPartnerAvailabilityCommand(partnerID kernel.UUID, available bool) (SetPartnerAvailabilityCommand, error) {
	cmd := SetPartnerAvailabilityCommand{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}
	if err := cmd.setPartnerID(partnerID); err != nil {
		return SetPartnerAvailabilityCommand{}, err
	}
	return cmd, nil
}

func (c SetPartnerAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetPartnerAvailabilityCommandIsNotConstructed)
}

func (c SetPartnerAvailabilityCommand) PartnerID() kernel.UUID { return c.partnerID }

func (c SetPartnerAvailabilityCommand) Available() bool { return c.available }

func (c *SetPartnerAvailabilityCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}
	c.partnerID = id
	return nil
}
