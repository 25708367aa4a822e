package services

import (
	"math"
	"sort"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
)

// Candidate is a partner found near a pickup point, with its pickup distance.
type Candidate struct {
	Partner          *partner.Partner
	PickupDistanceKm float64
}

// PartnerLocator is a domain service that narrows a directory listing down to the
// partners eligible for a pickup.
//
// Business rules:
//   - Only available, ACTIVE partners of a requested type with a known location qualify
//   - The pickup distance must not exceed the radius
//   - Results are ordered by ascending pickup distance, ties by lowest partner ID
//   - No requested types or no matches yield an empty result, never an error
//
// Example usage:
//
//	locator := services.NewPartnerLocator()
//	nearby := locator.Filter(listing, vendor, 1.5, []partner.Type{partner.Walker})
type PartnerLocator struct{}

// NewPartnerLocator creates a new PartnerLocator instance.
func NewPartnerLocator() PartnerLocator {
	return PartnerLocator{}
}

// Filter applies the eligibility predicate and the radius to partners.
//
// Parameters:
//   - partners: directory listing, possibly including ineligible partners
//   - origin: pickup location
//   - radiusKm: maximum pickup distance, inclusive
//   - types: partner types to consider
//
// Returns:
//   - []Candidate: eligible partners sorted by pickup distance
func (l PartnerLocator) Filter(
	partners []*partner.Partner,
	origin kernel.Location,
	radiusKm float64,
	types []partner.Type,
) []Candidate {
	if len(types) == 0 || origin.Validate() != nil || math.IsNaN(radiusKm) || radiusKm < 0 {
		return []Candidate{}
	}

	out := make([]Candidate, 0, len(partners))
	for _, p := range partners {
		if p.Validate() != nil || !p.IsEligible(types) {
			continue
		}
		loc, _ := p.Location()
		d := kernel.DistanceKm(origin, loc)
		if d > radiusKm {
			continue
		}
		out = append(out, Candidate{Partner: p, PickupDistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PickupDistanceKm != out[j].PickupDistanceKm {
			return out[i].PickupDistanceKm < out[j].PickupDistanceKm
		}
		return out[i].Partner.ID().Less(out[j].Partner.ID())
	})

	return out
}
