package queries

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrGetPincodeRiskQueryIsNotConstructed = errors.New(
	"GetPincodeRiskQuery must be created via NewGetPincodeRiskQuery constructor",
)

// GetPincodeRiskQuery reads the risk record of a delivery pincode.
type GetPincodeRiskQuery struct { //nolint:recvcheck //using for validation
	code pincode.Code

	guard guard.ConstructorGuard
}

func NewGetPincodeRiskQuery(code pincode.Code) (GetPincodeRiskQuery, error) {
	if err := code.Validate(); err != nil {
		return GetPincodeRiskQuery{}, err
	}
	return GetPincodeRiskQuery{code: code, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPincodeRiskQuery) Validate() error {
	return q.guard.Validate(ErrGetPincodeRiskQueryIsNotConstructed)
}

func (q GetPincodeRiskQuery) Pincode() pincode.Code { return q.code }
