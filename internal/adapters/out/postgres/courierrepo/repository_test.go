package courierrepo_test

import (
	"testing"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/courierrepo"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres/storetest"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCourierRegistry_ListActiveBySuccessRate(t *testing.T) {
	// Arrange
	ctx := t.Context()
	registry := courierrepo.NewGormCourierRegistry(storetest.SQLite(t))

	lowID := kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000001")
	highID := kernel.MustUUIDFromString("00000000-0000-0000-0000-000000000002")
	couriers := []struct {
		id     kernel.UUID
		name   string
		status partner.Status
		rate   float64
	}{
		{kernel.NewUUID(), "shiprocket", partner.Active, 0.91},
		{highID, "ecom", partner.Active, 0.95},
		{lowID, "delhivery", partner.Active, 0.95},
		{kernel.NewUUID(), "paused", partner.Inactive, 0.99},
	}
	for _, c := range couriers {
		cr, err := courier.RestoreCourier(c.id, c.name, c.name+" Express", c.status, c.rate)
		require.NoError(t, err)
		require.NoError(t, registry.Add(ctx, cr))
	}

	// Act
	active, err := registry.ListActiveBySuccessRate(ctx)

	// Assert
	require.NoError(t, err)
	names := make([]string, 0, len(active))
	for _, c := range active {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"delhivery", "ecom", "shiprocket"}, names)
	assert.Equal(t, "delhivery Express", active[0].DisplayName())
	assert.True(t, courier.Best(active).IsEqual(active[0]))
}

func TestGormCourierRegistry_ListActiveBySuccessRate_Empty(t *testing.T) {
	registry := courierrepo.NewGormCourierRegistry(storetest.SQLite(t))

	active, err := registry.ListActiveBySuccessRate(t.Context())

	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.Empty(t, active)
}
