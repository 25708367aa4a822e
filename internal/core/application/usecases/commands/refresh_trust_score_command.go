package commands

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrRefreshTrustScoreCommandIsNotConstructed = errors.New(
	"RefreshTrustScoreCommand must be created via NewRefreshTrustScoreCommand constructor",
)

// RefreshTrustScoreCommand recomputes a buyer's trust score for delivery to a pincode.
type RefreshTrustScoreCommand struct { //nolint:recvcheck //using for validation
	buyerID kernel.UUID
	pincode pincode.Code

	guard guard.ConstructorGuard
}

func NewRefreshTrustScoreCommand(buyerID kernel.UUID, code pincode.Code) (RefreshTrustScoreCommand, error) {
	cmd := RefreshTrustScoreCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setPincode(code),
	); err != nil {
		return RefreshTrustScoreCommand{}, err
	}

	return cmd, nil
}

func (c RefreshTrustScoreCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTrustScoreCommandIsNotConstructed)
}

func (c RefreshTrustScoreCommand) BuyerID() kernel.UUID { return c.buyerID }

func (c RefreshTrustScoreCommand) Pincode() pincode.Code { return c.pincode }

func (c *RefreshTrustScoreCommand) setBuyerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("buyerID", err)
	}
	c.buyerID = id
	return nil
}

func (c *RefreshTrustScoreCommand) setPincode(code pincode.Code) error {
	if err := code.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("pincode", err)
	}
	c.pincode = code
	return nil
}
