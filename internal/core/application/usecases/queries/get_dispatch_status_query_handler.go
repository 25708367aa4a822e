package queries

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// ErrNoDispatchAttempts is the cause attached when an order was never dispatched.
var ErrNoDispatchAttempts = errors.New("no dispatch attempts recorded")

// GetDispatchStatusQueryHandler summarizes the dispatch ledger of an order.
type GetDispatchStatusQueryHandler struct {
	ledger ports.DispatchLedger
}

func NewGetDispatchStatusQueryHandler(ledger ports.DispatchLedger) GetDispatchStatusQueryHandler {
	return GetDispatchStatusQueryHandler{ledger: ledger}
}

// Handle returns the order's dispatch summary. An order without attempts is
// reported as errs.ErrObjectNotFound wrapping ErrNoDispatchAttempts.
func (h GetDispatchStatusQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchStatusQuery,
) (dispatch.Summary, error) {
	if err := query.Validate(); err != nil {
		return dispatch.Summary{}, err
	}

	attempts, err := h.ledger.ListByOrder(ctx, query.OrderID())
	if err != nil {
		return dispatch.Summary{}, err
	}
	if len(attempts) == 0 {
		return dispatch.Summary{}, errs.NewObjectNotFoundErrorWithCause("orderID", query.OrderID(), ErrNoDispatchAttempts)
	}

	return dispatch.Summarize(attempts), nil
}
