package queries

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrGetTrustScoreQueryIsNotConstructed = errors.New(
	"GetTrustScoreQuery must be created via NewGetTrustScoreQuery constructor",
)

// GetTrustScoreQuery reads a buyer's stored trust score and order statistics.
type GetTrustScoreQuery struct { //nolint:recvcheck //using for validation
	buyerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTrustScoreQuery(buyerID kernel.UUID) (GetTrustScoreQuery, error) {
	if err := buyerID.Validate(); err != nil {
		return GetTrustScoreQuery{}, errs.NewValueIsRequiredErrorWithCause("buyerID", err)
	}
	return GetTrustScoreQuery{buyerID: buyerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTrustScoreQuery) Validate() error {
	return q.guard.Validate(ErrGetTrustScoreQueryIsNotConstructed)
}

func (q GetTrustScoreQuery) BuyerID() kernel.UUID { return q.buyerID }
