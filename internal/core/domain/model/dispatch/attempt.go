package dispatch

import (
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

// ErrAttemptIsNotConstructed is returned when using an improperly initialized Attempt.
var ErrAttemptIsNotConstructed = errors.New("Attempt must be created via NewAttempt or RestoreAttempt")

// AttemptParams describes one stage attempt of a cascade run.
type AttemptParams struct {
	ID      kernel.UUID
	OrderID kernel.UUID
	// Sequence is the 1-based position of the attempt within the order's ledger.
	Sequence int
	Stage    Stage
	// PartnerID is nil for a stage that found nobody and for courier assignments.
	PartnerID   *kernel.UUID
	Vendor      kernel.Location
	Customer    kernel.Location
	Accepted    bool
	PingedAt    time.Time
	RespondedAt *time.Time
}

// Attempt is an immutable dispatch ledger entry. A cascade run appends one attempt per
// stage that found nobody, one per declined or expired offer, and one for the final
// assignment or terminal failure.
//
// DistanceKm is the vendor to customer distance of the order, not the partner's
// pickup distance.
type Attempt struct {
	id          kernel.UUID
	orderID     kernel.UUID
	sequence    int
	stage       Stage
	partnerID   *kernel.UUID
	vendor      kernel.Location
	customer    kernel.Location
	distanceKm  float64
	accepted    bool
	pingedAt    time.Time
	respondedAt *time.Time
	guard       guard.ConstructorGuard
}

// NewAttempt builds an attempt and computes its vendor to customer distance.
func NewAttempt(params AttemptParams) (Attempt, error) {
	if err := errors.Join(params.Vendor.Validate(), params.Customer.Validate()); err != nil {
		return Attempt{}, err
	}
	return RestoreAttempt(params, kernel.DistanceKm(params.Vendor, params.Customer))
}

// RestoreAttempt reconstructs an attempt read from the ledger.
func RestoreAttempt(params AttemptParams, distanceKm float64) (Attempt, error) {
	if err := validateAttempt(params, distanceKm); err != nil {
		return Attempt{}, err
	}

	a := Attempt{
		id:         params.ID,
		orderID:    params.OrderID,
		sequence:   params.Sequence,
		stage:      params.Stage,
		vendor:     params.Vendor,
		customer:   params.Customer,
		distanceKm: distanceKm,
		accepted:   params.Accepted,
		pingedAt:   params.PingedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}
	if params.PartnerID != nil {
		id := *params.PartnerID
		a.partnerID = &id
	}
	if params.RespondedAt != nil {
		at := params.RespondedAt.UTC()
		a.respondedAt = &at
	}
	return a, nil
}

func validateAttempt(params AttemptParams, distanceKm float64) error {
	var errList []error
	if err := params.ID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := params.OrderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("orderID", err))
	}
	if params.Sequence < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("sequence", params.Sequence, 1, "unbounded"))
	}
	if params.PartnerID != nil {
		if err := params.PartnerID.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("partnerID", err))
		}
	}
	if params.PingedAt.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("pingedAt"))
	}
	if distanceKm < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("distanceKm", distanceKm, 0, "unbounded"))
	}
	errList = append(errList,
		params.Stage.Validate(),
		params.Vendor.Validate(),
		params.Customer.Validate(),
	)
	return errors.Join(errList...)
}

// Validate checks if the Attempt was properly constructed.
func (a Attempt) Validate() error {
	return a.guard.Validate(ErrAttemptIsNotConstructed)
}

func (a Attempt) ID() kernel.UUID { return a.id }

func (a Attempt) OrderID() kernel.UUID { return a.orderID }

func (a Attempt) Sequence() int { return a.sequence }

func (a Attempt) Stage() Stage { return a.stage }

// PartnerID returns the offered or assigned partner, if any.
func (a Attempt) PartnerID() (kernel.UUID, bool) {
	if a.partnerID == nil {
		return kernel.UUID{}, false
	}
	return *a.partnerID, true
}

func (a Attempt) Vendor() kernel.Location { return a.vendor }

func (a Attempt) Customer() kernel.Location { return a.customer }

func (a Attempt) DistanceKm() float64 { return a.distanceKm }

func (a Attempt) Accepted() bool { return a.accepted }

func (a Attempt) PingedAt() time.Time { return a.pingedAt }

func (a Attempt) RespondedAt() (time.Time, bool) {
	if a.respondedAt == nil {
		return time.Time{}, false
	}
	return *a.respondedAt, true
}

// ResponseTime is RespondedAt - PingedAt, when the partner responded.
func (a Attempt) ResponseTime() (time.Duration, bool) {
	if a.respondedAt == nil {
		return 0, false
	}
	return a.respondedAt.Sub(a.pingedAt), true
}
