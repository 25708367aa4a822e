// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models for specific use cases and never write.
package queries

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrGetDispatchStatusQueryIsNotConstructed = errors.New(
	"GetDispatchStatusQuery must be created via NewGetDispatchStatusQuery constructor",
)

// GetDispatchStatusQuery asks how far the cascade got for one order.
//
// Example:
//
//	query, err := NewGetDispatchStatusQuery(orderID)
//	summary, err := handler.Handle(ctx, query)
//	fmt.Println(summary.FinalStage, summary.Accepted)
type GetDispatchStatusQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDispatchStatusQuery(orderID kernel.UUID) (GetDispatchStatusQuery, error) {
	q := GetDispatchStatusQuery{guard: guard.NewConstructorGuard()}
	if err := orderID.Validate(); err != nil {
		return GetDispatchStatusQuery{}, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	q.orderID = orderID
	return q, nil
}

func (q GetDispatchStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchStatusQueryIsNotConstructed)
}

func (q GetDispatchStatusQuery) OrderID() kernel.UUID { return q.orderID }
