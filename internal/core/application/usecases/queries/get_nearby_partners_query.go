package queries

import (
	"errors"
	"slices"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

const (
	DefaultNearbyRadiusKm = 5.0
	MinNearbyRadiusKm     = 0.1
	MaxNearbyRadiusKm     = 50.0
)

var ErrGetNearbyPartnersQueryIsNotConstructed = errors.New(
	"GetNearbyPartnersQuery must be created via NewGetNearbyPartnersQuery constructor",
)

// GetNearbyPartnersQuery lists available partners around a point.
//
// A zero radius means DefaultNearbyRadiusKm and no types means every partner type.
//
// Example:
//
//	query, err := NewGetNearbyPartnersQuery(vendor, 0, []partner.Type{partner.Walker})
//	partners, err := handler.Handle(ctx, query)
//	for _, p := range partners {
//	    fmt.Printf("%s %.2f km\n", p.Name, p.DistanceKm)
//	}
type GetNearbyPartnersQuery struct { //nolint:recvcheck //using for validation
	origin   kernel.Location
	radiusKm float64
	types    []partner.Type

	guard guard.ConstructorGuard
}

func NewGetNearbyPartnersQuery(
	origin kernel.Location,
	radiusKm float64,
	types []partner.Type,
) (GetNearbyPartnersQuery, error) {
	q := GetNearbyPartnersQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		q.setOrigin(origin),
		q.setRadius(radiusKm),
		q.setTypes(types),
	); err != nil {
		return GetNearbyPartnersQuery{}, err
	}

	return q, nil
}

func (q GetNearbyPartnersQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyPartnersQueryIsNotConstructed)
}

func (q GetNearbyPartnersQuery) Origin() kernel.Location { return q.origin }

func (q GetNearbyPartnersQuery) RadiusKm() float64 { return q.radiusKm }

func (q GetNearbyPartnersQuery) Types() []partner.Type { return slices.Clone(q.types) }

func (q *GetNearbyPartnersQuery) setOrigin(origin kernel.Location) error {
	if err := origin.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("location", err)
	}
	q.origin = origin
	return nil
}

func (q *GetNearbyPartnersQuery) setRadius(radiusKm float64) error {
	if radiusKm == 0 {
		radiusKm = DefaultNearbyRadiusKm
	}
	if !(radiusKm >= MinNearbyRadiusKm && radiusKm <= MaxNearbyRadiusKm) {
		return errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, MinNearbyRadiusKm, MaxNearbyRadiusKm)
	}
	q.radiusKm = radiusKm
	return nil
}

func (q *GetNearbyPartnersQuery) setTypes(types []partner.Type) error {
	if len(types) == 0 {
		q.types = partner.AllTypes()
		return nil
	}
	for _, t := range types {
		if err := t.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("types", err)
		}
	}
	q.types = slices.Compact(slices.Sorted(slices.Values(types)))
	return nil
}
