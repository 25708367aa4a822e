package services_test

import (
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

type partnerOpt func(*partner.RestoreParams)

func withID(id string) partnerOpt {
	return func(p *partner.RestoreParams) { p.ID = kernel.MustUUIDFromString(id) }
}

func withType(t partner.Type) partnerOpt {
	return func(p *partner.RestoreParams) { p.Type = t }
}

func at(lat, lon float64) partnerOpt {
	return func(p *partner.RestoreParams) {
		loc := kernel.MustNewLocation(lat, lon)
		p.Location = &loc
	}
}

func withStats(rating float64, total, successful int) partnerOpt {
	return func(p *partner.RestoreParams) {
		p.Rating, p.TotalDeliveries, p.SuccessfulDeliveries = rating, total, successful
	}
}

func offline() partnerOpt {
	return func(p *partner.RestoreParams) { p.Available = false }
}

func inactive() partnerOpt {
	return func(p *partner.RestoreParams) { p.Status = partner.Inactive }
}

func noLocation() partnerOpt {
	return func(p *partner.RestoreParams) { p.Location = nil }
}

func newPartner(t *testing.T, opts ...partnerOpt) *partner.Partner {
	t.Helper()
	loc := kernel.MustNewLocation(12.90, 77.60)
	params := partner.RestoreParams{
		ID:                   kernel.NewUUID(),
		Name:                 "partner",
		Type:                 partner.Walker,
		Location:             &loc,
		Available:            true,
		Status:               partner.Active,
		Rating:               4.0,
		TotalDeliveries:      10,
		SuccessfulDeliveries: 9,
	}
	for _, opt := range opts {
		opt(&params)
	}
	p, err := partner.RestorePartner(params)
	require.NoError(t, err)
	return p
}
