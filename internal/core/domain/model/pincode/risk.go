package pincode

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

const (
	// DefaultRiskScore applies to pincodes without history and to fail-open reads.
	DefaultRiskScore = 0.5

	// Cold-start priors for the first recorded outcome of a pincode.
	seedRiskWithIncident    = 0.5
	seedRiskWithoutIncident = 0.2

	returnWeight = 0.6
	cancelWeight = 0.4
)

// ErrRiskIsNotConstructed is returned when using an improperly initialized Risk.
var ErrRiskIsNotConstructed = errors.New("Risk must be created via NewRisk or RestoreRisk")

// Risk is the rolling order-outcome record of a pincode.
//
// The score is recomputed from the raw counters on each update and replaces the
// previous value; it is not smoothed. For a pincode with few orders the score can
// therefore swing between updates.
//
// Business rules:
//   - Counters never decrease and returned, cancelled ≤ total
//   - riskScore = min(0.6·returned/total + 0.4·cancelled/total, 1), except for the
//     first outcome which seeds 0.5 if it was returned or cancelled and 0.2 otherwise
type Risk struct {
	code            Code
	totalOrders     int
	returnedOrders  int
	cancelledOrders int
	riskScore       float64
	lastUpdated     time.Time
	version         int64
	guard           guard.ConstructorGuard
}

// NewRisk creates the record for a pincode's first recorded outcome.
//
// Example:
//
//	r, _ := pincode.NewRisk(pincode.MustParse("560001"), true, false, now)
//	r.RiskScore() // 0.5
func NewRisk(code Code, wasReturned, wasCancelled bool, at time.Time) (*Risk, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}

	r := &Risk{
		code:        code,
		totalOrders: 1,
		riskScore:   seedRiskWithoutIncident,
		lastUpdated: at.UTC(),
		guard:       guard.NewConstructorGuard(),
	}
	if wasReturned {
		r.returnedOrders = 1
	}
	if wasCancelled {
		r.cancelledOrders = 1
	}
	if wasReturned || wasCancelled {
		r.riskScore = seedRiskWithIncident
	}
	return r, nil
}

// RiskParams carries the persisted state of a pincode risk record.
type RiskParams struct {
	Code            Code
	TotalOrders     int
	ReturnedOrders  int
	CancelledOrders int
	RiskScore       float64
	LastUpdated     time.Time
	Version         int64
}

// RestoreRisk reconstructs a Risk from the pincode risk store.
func RestoreRisk(params RiskParams) (*Risk, error) {
	var errList []error
	errList = append(errList, params.Code.Validate())
	if params.TotalOrders < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("totalOrders", params.TotalOrders, 0, "unbounded"))
	}
	if params.ReturnedOrders < 0 || params.ReturnedOrders > params.TotalOrders {
		errList = append(errList, errs.NewValueIsOutOfRangeError("returnedOrders", params.ReturnedOrders, 0, params.TotalOrders))
	}
	if params.CancelledOrders < 0 || params.CancelledOrders > params.TotalOrders {
		errList = append(errList, errs.NewValueIsOutOfRangeError("cancelledOrders", params.CancelledOrders, 0, params.TotalOrders))
	}
	if params.RiskScore < 0 || params.RiskScore > 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("riskScore", params.RiskScore, 0, 1))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Risk{
		code:            params.Code,
		totalOrders:     params.TotalOrders,
		returnedOrders:  params.ReturnedOrders,
		cancelledOrders: params.CancelledOrders,
		riskScore:       params.RiskScore,
		lastUpdated:     params.LastUpdated.UTC(),
		version:         params.Version,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the Risk was properly constructed.
func (r *Risk) Validate() error {
	if r == nil {
		return ErrRiskIsNotConstructed
	}
	return r.guard.Validate(ErrRiskIsNotConstructed)
}

// Record counts one more order outcome and recomputes the score from the counters.
func (r *Risk) Record(wasReturned, wasCancelled bool, at time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}

	r.totalOrders++
	if wasReturned {
		r.returnedOrders++
	}
	if wasCancelled {
		r.cancelledOrders++
	}

	returnRate := float64(r.returnedOrders) / float64(r.totalOrders)
	cancelRate := float64(r.cancelledOrders) / float64(r.totalOrders)
	r.riskScore = min(returnRate*returnWeight+cancelRate*cancelWeight, 1)
	r.lastUpdated = at.UTC()
	return nil
}

func (r *Risk) Code() Code { return r.code }

func (r *Risk) TotalOrders() int { return r.totalOrders }

func (r *Risk) ReturnedOrders() int { return r.returnedOrders }

func (r *Risk) CancelledOrders() int { return r.cancelledOrders }

func (r *Risk) RiskScore() float64 { return r.riskScore }

func (r *Risk) Category() RiskCategory { return RiskCategoryOf(r.riskScore) }

func (r *Risk) LastUpdated() time.Time { return r.lastUpdated }

func (r *Risk) Version() int64 { return r.version }

// ReturnRate is returned / total, zero for an empty record.
func (r *Risk) ReturnRate() float64 {
	if r.totalOrders == 0 {
		return 0
	}
	return float64(r.returnedOrders) / float64(r.totalOrders)
}

// RiskCategory bands a pincode risk score.
type RiskCategory int

const (
	UnknownRiskCategory RiskCategory = iota
	// Low is a score of at most 0.4.
	Low
	// Medium is a score in (0.4, 0.7].
	Medium
	// High is a score above 0.7.
	High
)

var riskCategoryNames = map[RiskCategory]string{
	Low:    "LOW",
	Medium: "MEDIUM",
	High:   "HIGH",
}

// RiskCategoryOf bands a risk score.
func RiskCategoryOf(score float64) RiskCategory {
	switch {
	case score > 0.7:
		return High
	case score > 0.4:
		return Medium
	default:
		return Low
	}
}

func (c RiskCategory) Validate() error {
	if _, ok := riskCategoryNames[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("riskCategory", fmt.Errorf("%d is not a risk category", c))
	}
	return nil
}

func (c RiskCategory) String() string {
	if name, ok := riskCategoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
