package partner

import (
	"errors"
	"slices"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

const (
	// RatingMin is the lowest customer rating a partner can hold.
	RatingMin = 0.0
	// RatingMax is the highest customer rating a partner can hold.
	RatingMax = 5.0
)

var (
	// ErrNameIsRequired is returned when a partner has an empty name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized Partner.
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner")
	// ErrDeliveriesInconsistent is returned when successful deliveries exceed total deliveries.
	ErrDeliveriesInconsistent = errs.NewValueIsInvalidError("successfulDeliveries must not exceed totalDeliveries")
)

// Partner is a delivery partner from the partner directory: a walker in the
// neighbourhood mesh or a bike/EV rider from the gig pool.
//
// The dispatch core reads partners and never mutates them directly. Location pings and
// availability toggles arrive from the partner app through UpdateLocation and
// SetAvailability; exclusive selection goes through the directory's version-checked
// claim, which is why every Partner carries the version it was read at.
//
// Business rules:
//   - ID must be valid, name non-empty, type and status one of the closed enums
//   - Rating is within [RatingMin, RatingMax]
//   - 0 ≤ successfulDeliveries ≤ totalDeliveries
//   - A partner without a reported location is never eligible for matching
type Partner struct {
	id                   kernel.UUID
	name                 string
	partnerType          Type
	location             *kernel.Location
	available            bool
	status               Status
	rating               float64
	totalDeliveries      int
	successfulDeliveries int
	lastLocationUpdate   *time.Time
	version              int64
	guard                guard.ConstructorGuard
}

// NewPartner registers a partner. New partners start INACTIVE, offline, with no
// location and no delivery history, matching partner onboarding where activation
// follows KYC approval.
//
// Example:
//
//	p, err := partner.NewPartner(kernel.NewUUID(), "Ravi", partner.Walker)
//	if err != nil {
//	    return err
//	}
//	p.Activate()
func NewPartner(id kernel.UUID, name string, partnerType Type) (*Partner, error) {
	p := &Partner{
		status: Inactive,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setType(partnerType),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParams carries the persisted state of a partner.
type RestoreParams struct {
	ID                   kernel.UUID
	Name                 string
	Type                 Type
	Location             *kernel.Location
	Available            bool
	Status               Status
	Rating               float64
	TotalDeliveries      int
	SuccessfulDeliveries int
	LastLocationUpdate   *time.Time
	Version              int64
}

// RestorePartner reconstructs a Partner from the partner directory. Every field is
// validated, so a corrupt row surfaces as an error instead of a silently wrong ranking.
func RestorePartner(params RestoreParams) (*Partner, error) {
	p := &Partner{
		available:          params.Available,
		lastLocationUpdate: params.LastLocationUpdate,
		version:            params.Version,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(params.ID),
		p.setName(params.Name),
		p.setType(params.Type),
		p.setStatus(params.Status),
		p.setLocation(params.Location),
		p.setRating(params.Rating),
		p.setDeliveries(params.TotalDeliveries, params.SuccessfulDeliveries),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks that the Partner was built by a constructor.
func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

func (p *Partner) ID() kernel.UUID { return p.id }

func (p *Partner) Name() string { return p.name }

func (p *Partner) Type() Type { return p.partnerType }

// Location returns the last reported position. ok is false when the partner never
// reported one.
func (p *Partner) Location() (loc kernel.Location, ok bool) {
	if p.location == nil {
		return kernel.Location{}, false
	}
	return *p.location, true
}

func (p *Partner) IsAvailable() bool { return p.available }

func (p *Partner) Status() Status { return p.status }

func (p *Partner) Rating() float64 { return p.rating }

func (p *Partner) TotalDeliveries() int { return p.totalDeliveries }

func (p *Partner) SuccessfulDeliveries() int { return p.successfulDeliveries }

// LastLocationUpdate returns when the location was last reported.
func (p *Partner) LastLocationUpdate() (time.Time, bool) {
	if p.lastLocationUpdate == nil {
		return time.Time{}, false
	}
	return *p.lastLocationUpdate, true
}

// Version is the optimistic concurrency token the directory read this partner at.
func (p *Partner) Version() int64 { return p.version }

// SuccessRate returns successfulDeliveries / max(totalDeliveries, 1), in [0, 1].
func (p *Partner) SuccessRate() float64 {
	return float64(p.successfulDeliveries) / float64(max(p.totalDeliveries, 1))
}

// IsEligible reports whether the partner may be matched for one of the given types:
// online, ACTIVE, of a requested type and with a known location. Distance is checked
// by the locator.
func (p *Partner) IsEligible(types []Type) bool {
	return p.available &&
		p.status == Active &&
		p.location != nil &&
		slices.Contains(types, p.partnerType)
}

// UpdateLocation records a location ping.
func (p *Partner) UpdateLocation(loc kernel.Location, at time.Time) error {
	if err := p.setLocation(&loc); err != nil {
		return err
	}
	at = at.UTC()
	p.lastLocationUpdate = &at
	return nil
}

// SetAvailability toggles the partner online or offline.
func (p *Partner) SetAvailability(available bool) {
	p.available = available
}

// Activate marks the partner ACTIVE.
func (p *Partner) Activate() {
	p.status = Active
}

// Deactivate marks the partner INACTIVE, removing it from matching.
func (p *Partner) Deactivate() {
	p.status = Inactive
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	p.id = id
	return nil
}

func (p *Partner) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Partner) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	p.partnerType = t
	return nil
}

func (p *Partner) setStatus(s Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.status = s
	return nil
}

func (p *Partner) setLocation(loc *kernel.Location) error {
	if loc == nil {
		p.location = nil
		return nil
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	cp := *loc
	p.location = &cp
	return nil
}

func (p *Partner) setRating(rating float64) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	p.rating = rating
	return nil
}

func (p *Partner) setDeliveries(total, successful int) error {
	if total < 0 {
		return errs.NewValueIsOutOfRangeError("totalDeliveries", total, 0, "unbounded")
	}
	if successful < 0 {
		return errs.NewValueIsOutOfRangeError("successfulDeliveries", successful, 0, total)
	}
	if successful > total {
		return ErrDeliveriesInconsistent
	}
	p.totalDeliveries = total
	p.successfulDeliveries = successful
	return nil
}
