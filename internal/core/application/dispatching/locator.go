package dispatching

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
)

// Locator finds partners near a point using the live partner directory.
type Locator struct {
	directory ports.PartnerDirectory
	filter    services.PartnerLocator
}

func NewLocator(directory ports.PartnerDirectory) Locator {
	return Locator{
		directory: directory,
		filter:    services.NewPartnerLocator(),
	}
}

// FindNearby returns the available partners of types within radiusKm of origin,
// nearest first. Directory failures are returned to the caller.
func (l Locator) FindNearby(
	ctx context.Context,
	origin kernel.Location,
	radiusKm float64,
	types []partner.Type,
) ([]services.Candidate, error) {
	if len(types) == 0 {
		return []services.Candidate{}, nil
	}
	partners, err := l.directory.ListAvailable(ctx, types)
	if err != nil {
		return nil, err
	}
	return l.filter.Filter(partners, origin, radiusKm, types), nil
}
