package queries

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
)

// NearbyPartner is the read model of one partner around the requested point.
type NearbyPartner struct {
	ID         kernel.UUID
	Name       string
	Type       partner.Type
	Location   kernel.Location
	Rating     float64
	DistanceKm float64
}

// GetNearbyPartnersQueryHandler answers GetNearbyPartnersQuery from the live directory.
type GetNearbyPartnersQueryHandler struct {
	finder NearbyFinder
}

func NewGetNearbyPartnersQueryHandler(finder NearbyFinder) GetNearbyPartnersQueryHandler {
	return GetNearbyPartnersQueryHandler{finder: finder}
}

// Handle returns the matching partners nearest first. No match is an empty slice.
func (h GetNearbyPartnersQueryHandler) Handle(
	ctx context.Context,
	query GetNearbyPartnersQuery,
) ([]NearbyPartner, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := h.finder.FindNearby(ctx, query.Origin(), query.RadiusKm(), query.Types())
	if err != nil {
		return nil, err
	}

	result := make([]NearbyPartner, 0, len(candidates))
	for _, c := range candidates {
		loc, _ := c.Partner.Location()
		result = append(result, NearbyPartner{
			ID:         c.Partner.ID(),
			Name:       c.Partner.Name(),
			Type:       c.Partner.Type(),
			Location:   loc,
			Rating:     c.Partner.Rating(),
			DistanceKm: c.PickupDistanceKm,
		})
	}
	return result, nil
}
