package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrRespondToOfferCommandIsNotConstructed = errors.New(
	"RespondToOfferCommand must be created via NewRespondToOfferCommand constructor",
)

// RespondToOfferCommand carries a partner's answer to a dispatch offer.
type RespondToOfferCommand struct { //nolint:recvcheck //using for validation
	offerID   kernel.UUID
	partnerID kernel.UUID
	accept    bool

	guard guard.ConstructorGuard
}

// NewRespondToOfferCommand creates an accept (accept=true) or decline answer.
func NewRespondToOfferCommand(offerID, partnerID kernel.UUID, accept bool) (RespondToOfferCommand, error) {
	cmd := RespondToOfferCommand{
		accept: accept,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOfferID(offerID),
		cmd.setPartnerID(partnerID),
	); err != nil {
		return RespondToOfferCommand{}, err
	}

	return cmd, nil
}

func (c RespondToOfferCommand) Validate() error {
	return c.guard.Validate(ErrRespondToOfferCommandIsNotConstructed)
}

func (c RespondToOfferCommand) OfferID() kernel.UUID { return c.offerID }

func (c RespondToOfferCommand) PartnerID() kernel.UUID { return c.partnerID }

func (c RespondToOfferCommand) Accept() bool { return c.accept }

func (c *RespondToOfferCommand) setOfferID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("offerID", err)
	}
	c.offerID = id
	return nil
}

func (c *RespondToOfferCommand) setPartnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("partnerID", err)
	}
	c.partnerID = id
	return nil
}
