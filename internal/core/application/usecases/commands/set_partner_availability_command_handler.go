package commands

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/ports"
)

// SetPartnerAvailabilityCommandHandler toggles whether a partner takes new offers.
// Going available also clears a claim left behind by a cascade that never finished.
type SetPartnerAvailabilityCommandHandler struct {
	directory ports.PartnerDirectory
}

func NewSetPartnerAvailabilityCommandHandler(directory ports.PartnerDirectory) SetPartnerAvailabilityCommandHandler {
	return SetPartnerAvailabilityCommandHandler{directory: directory}
}

func (h SetPartnerAvailabilityCommandHandler) Handle(ctx context.Context, command SetPartnerAvailabilityCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.directory.SetAvailability(ctx, command.PartnerID(), command.Available())
}
