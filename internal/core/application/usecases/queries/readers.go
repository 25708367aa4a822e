package queries

import (
	"context"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
)

// BuyerReader reads buyers outside any transaction.
type BuyerReader interface {
	Get(ctx context.Context, id kernel.UUID) (*buyer.Buyer, error)
}

// RiskLookup reads a pincode risk record straight from the store.
type RiskLookup interface {
	Lookup(ctx context.Context, code pincode.Code) (*pincode.Risk, error)
}

// NearbyFinder finds available partners around a point, nearest first.
type NearbyFinder interface {
	FindNearby(
		ctx context.Context,
		origin kernel.Location,
		radiusKm float64,
		types []partner.Type,
	) ([]services.Candidate, error)
}
