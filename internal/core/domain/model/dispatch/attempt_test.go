package dispatch_test

import (
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustID(s string) kernel.UUID {
	return kernel.MustUUIDFromString(s)
}

func attemptParams() dispatch.AttemptParams {
	return dispatch.AttemptParams{
		ID:       kernel.NewUUID(),
		OrderID:  kernel.NewUUID(),
		Sequence: 1,
		Stage:    dispatch.Mesh,
		Vendor:   kernel.MustNewLocation(12.90, 77.60),
		Customer: kernel.MustNewLocation(12.909, 77.60),
		PingedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewAttempt(t *testing.T) {
	t.Run("computes vendor to customer distance", func(t *testing.T) {
		a, err := dispatch.NewAttempt(attemptParams())

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.InDelta(t, 1.0, a.DistanceKm(), 0.01)
		_, ok := a.PartnerID()
		assert.False(t, ok)
	})

	t.Run("copies the partner id", func(t *testing.T) {
		params := attemptParams()
		partnerID := kernel.NewUUID()
		params.PartnerID = &partnerID
		params.Accepted = true

		a, err := dispatch.NewAttempt(params)
		require.NoError(t, err)
		partnerID = kernel.NewUUID()

		got, ok := a.PartnerID()
		require.True(t, ok)
		assert.False(t, got.IsEqual(partnerID))
		assert.True(t, a.Accepted())
	})

	t.Run("response time", func(t *testing.T) {
		params := attemptParams()
		responded := params.PingedAt.Add(42 * time.Second)
		params.RespondedAt = &responded

		a, err := dispatch.NewAttempt(params)
		require.NoError(t, err)

		rt, ok := a.ResponseTime()
		require.True(t, ok)
		assert.Equal(t, 42*time.Second, rt)
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		params := attemptParams()
		params.Sequence = 0
		params.Stage = dispatch.UnknownStage
		params.PingedAt = time.Time{}

		_, err := dispatch.NewAttempt(params)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects unconstructed locations", func(t *testing.T) {
		params := attemptParams()
		params.Vendor = kernel.Location{}

		_, err := dispatch.NewAttempt(params)

		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		s := dispatch.Summarize(nil)

		assert.Equal(t, 0, s.TotalAttempts)
		assert.False(t, s.Accepted)
		assert.Equal(t, dispatch.UnknownStage, s.FinalStage)
	})

	t.Run("escalated to gig", func(t *testing.T) {
		mesh := attemptParams()
		gig := attemptParams()
		gig.OrderID, gig.Sequence, gig.Stage, gig.Accepted = mesh.OrderID, 2, dispatch.Gig, true

		a1, err := dispatch.NewAttempt(mesh)
		require.NoError(t, err)
		a2, err := dispatch.NewAttempt(gig)
		require.NoError(t, err)

		s := dispatch.Summarize([]dispatch.Attempt{a1, a2})

		assert.Equal(t, 2, s.TotalAttempts)
		assert.Equal(t, []dispatch.Stage{dispatch.Mesh, dispatch.Gig}, s.Stages)
		assert.True(t, s.Accepted)
		assert.Equal(t, dispatch.Gig, s.FinalStage)
	})
}
