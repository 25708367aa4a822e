package queries

import (
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

var ErrDetectSuspiciousCheckoutQueryIsNotConstructed = errors.New(
	"DetectSuspiciousCheckoutQuery must be created via NewDetectSuspiciousCheckoutQuery constructor",
)

// DetectSuspiciousCheckoutQuery asks whether a checkout was too fast to be human.
type DetectSuspiciousCheckoutQuery struct { //nolint:recvcheck //using for validation
	buyerID      kernel.UUID
	checkoutTime time.Duration

	guard guard.ConstructorGuard
}

func NewDetectSuspiciousCheckoutQuery(
	buyerID kernel.UUID,
	checkoutTime time.Duration,
) (DetectSuspiciousCheckoutQuery, error) {
	var errList []error
	if err := buyerID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("buyerID", err))
	}
	if checkoutTime < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("checkoutTime", checkoutTime, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return DetectSuspiciousCheckoutQuery{}, err
	}

	return DetectSuspiciousCheckoutQuery{
		buyerID:      buyerID,
		checkoutTime: checkoutTime,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q DetectSuspiciousCheckoutQuery) Validate() error {
	return q.guard.Validate(ErrDetectSuspiciousCheckoutQueryIsNotConstructed)
}

func (q DetectSuspiciousCheckoutQuery) BuyerID() kernel.UUID { return q.buyerID }

func (q DetectSuspiciousCheckoutQuery) CheckoutTime() time.Duration { return q.checkoutTime }
