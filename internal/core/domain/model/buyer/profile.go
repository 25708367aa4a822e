package buyer

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// Profile is the order history snapshot a trust score is computed from. It is derived
// from the Buyer record on every computation and never stored.
type Profile struct {
	TotalOrders     int
	ReturnedOrders  int
	CancelledOrders int
	AccountAgeDays  int
}

// Validate enforces non-negative counts and returned, cancelled ≤ total.
func (p Profile) Validate() error {
	return validateCounts(p.TotalOrders, p.ReturnedOrders, p.CancelledOrders, p.AccountAgeDays)
}

// DeliverySuccessRate is (total - returned) / total, or ok=false for a buyer with no orders.
func (p Profile) DeliverySuccessRate() (rate float64, ok bool) {
	if p.TotalOrders == 0 {
		return 0, false
	}
	return float64(p.TotalOrders-p.ReturnedOrders) / float64(p.TotalOrders), true
}

func validateCounts(total, returned, cancelled, ageDays int) error {
	var errList []error
	if total < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("totalOrders", total, 0, "unbounded"))
	}
	if returned < 0 || returned > max(total, 0) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("returnedOrders", returned, 0, total))
	}
	if cancelled < 0 || cancelled > max(total, 0) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("cancelledOrders", cancelled, 0, total))
	}
	if ageDays < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("accountAgeDays", ageDays, 0, "unbounded"))
	}
	return errors.Join(errList...)
}
