package queries_test

import (
	"errors"
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/queries"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vendor = kernel.MustNewLocation(12.9716, 77.5946)

func TestNewGetNearbyPartnersQuery_Defaults(t *testing.T) {
	// Act
	query, err := queries.NewGetNearbyPartnersQuery(vendor, 0, nil)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, queries.DefaultNearbyRadiusKm, query.RadiusKm(), 1e-9)
	assert.Equal(t, partner.AllTypes(), query.Types())
}

func TestNewGetNearbyPartnersQuery_DeduplicatesTypes(t *testing.T) {
	query, err := queries.NewGetNearbyPartnersQuery(vendor, 2, []partner.Type{partner.EV, partner.Walker, partner.EV})

	require.NoError(t, err)
	assert.Equal(t, []partner.Type{partner.Walker, partner.EV}, query.Types())
}

func TestNewGetNearbyPartnersQuery_Invalid(t *testing.T) {
	tests := map[string]struct {
		origin   kernel.Location
		radiusKm float64
		types    []partner.Type
		wantErr  error
	}{
		"radius below minimum": {vendor, 0.05, nil, errs.ErrValueIsOutOfRange},
		"radius above maximum": {vendor, 50.5, nil, errs.ErrValueIsOutOfRange},
		"negative radius":      {vendor, -1, nil, errs.ErrValueIsOutOfRange},
		"unknown type":         {vendor, 1, []partner.Type{partner.UnknownType}, errs.ErrValueIsInvalid},
		"missing origin":       {kernel.Location{}, 1, nil, errs.ErrValueIsRequired},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := queries.NewGetNearbyPartnersQuery(tt.origin, tt.radiusKm, tt.types)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewGetNearbyPartnersQuery_Bounds(t *testing.T) {
	for _, radius := range []float64{queries.MinNearbyRadiusKm, queries.MaxNearbyRadiusKm} {
		_, err := queries.NewGetNearbyPartnersQuery(vendor, radius, nil)
		require.NoError(t, err)
	}
}

func TestGetNearbyPartnersQueryHandler_Handle(t *testing.T) {
	// Arrange
	ctx := t.Context()
	loc := kernel.MustNewLocation(12.975, 77.5946)
	p, err := partner.RestorePartner(partner.RestoreParams{
		ID:        kernel.NewUUID(),
		Name:      "Ravi",
		Type:      partner.Walker,
		Location:  &loc,
		Available: true,
		Status:    partner.Active,
		Rating:    4.5,
	})
	require.NoError(t, err)

	query, err := queries.NewGetNearbyPartnersQuery(vendor, 1.5, []partner.Type{partner.Walker})
	require.NoError(t, err)

	finder := new(MockNearbyFinder)
	finder.On("FindNearby", ctx, vendor, 1.5, []partner.Type{partner.Walker}).
		Return([]services.Candidate{{Partner: p, PickupDistanceKm: 0.38}}, nil).
		Once()

	// Act
	result, err := queries.NewGetNearbyPartnersQueryHandler(finder).Handle(ctx, query)

	// Assert
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, p.ID(), result[0].ID)
	assert.Equal(t, "Ravi", result[0].Name)
	assert.Equal(t, partner.Walker, result[0].Type)
	assert.Equal(t, loc, result[0].Location)
	assert.InDelta(t, 4.5, result[0].Rating, 1e-9)
	assert.InDelta(t, 0.38, result[0].DistanceKm, 1e-9)
}

func TestGetNearbyPartnersQueryHandler_Handle_NoMatch(t *testing.T) {
	ctx := t.Context()
	query, err := queries.NewGetNearbyPartnersQuery(vendor, 0, nil)
	require.NoError(t, err)
	finder := new(MockNearbyFinder)
	finder.On("FindNearby", ctx, vendor, queries.DefaultNearbyRadiusKm, partner.AllTypes()).
		Return([]services.Candidate{}, nil).
		Once()

	result, err := queries.NewGetNearbyPartnersQueryHandler(finder).Handle(ctx, query)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGetNearbyPartnersQueryHandler_Handle_DirectoryError(t *testing.T) {
	ctx := t.Context()
	query, err := queries.NewGetNearbyPartnersQuery(vendor, 0, nil)
	require.NoError(t, err)
	finder := new(MockNearbyFinder)
	finder.On("FindNearby", ctx, vendor, queries.DefaultNearbyRadiusKm, partner.AllTypes()).
		Return(nil, errors.New("directory down")).
		Once()

	_, err = queries.NewGetNearbyPartnersQueryHandler(finder).Handle(ctx, query)

	require.EqualError(t, err, "directory down")
}
