package commands

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/ports"
)

// UpdatePartnerLocationCommandHandler stores a partner's reported position with the
// time it was received.
type UpdatePartnerLocationCommandHandler struct {
	directory ports.PartnerDirectory
	clock     func() time.Time
}

// NewUpdatePartnerLocationCommandHandler creates the handler. A nil clock uses time.Now.
func NewUpdatePartnerLocationCommandHandler(directory ports.PartnerDirectory, clock func() time.Time) UpdatePartnerLocationCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return UpdatePartnerLocationCommandHandler{directory: directory, clock: clock}
}

func (h UpdatePartnerLocationCommandHandler) Handle(ctx context.Context, command UpdatePartnerLocationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.directory.UpdateLocation(ctx, command.PartnerID(), command.Location(), h.clock())
}
