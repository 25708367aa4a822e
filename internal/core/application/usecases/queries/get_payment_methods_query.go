package queries

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrGetPaymentMethodsQueryIsNotConstructed = errors.New(
	"GetPaymentMethodsQuery must be created via NewGetPaymentMethodsQuery constructor",
)

// GetPaymentMethodsQuery asks which payment methods a buyer may use at checkout.
type GetPaymentMethodsQuery struct { //nolint:recvcheck //using for validation
	buyerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPaymentMethodsQuery(buyerID kernel.UUID) (GetPaymentMethodsQuery, error) {
	if err := buyerID.Validate(); err != nil {
		return GetPaymentMethodsQuery{}, errs.NewValueIsRequiredErrorWithCause("buyerID", err)
	}
	return GetPaymentMethodsQuery{buyerID: buyerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPaymentMethodsQuery) Validate() error {
	return q.guard.Validate(ErrGetPaymentMethodsQueryIsNotConstructed)
}

func (q GetPaymentMethodsQuery) BuyerID() kernel.UUID { return q.buyerID }
