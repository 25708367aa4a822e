package trust_test

import (
	"errors"
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now  = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	code = pincode.MustParse("560001")
)

func storedRisk(t *testing.T, total, returned, cancelled int, score float64) *pincode.Risk {
	t.Helper()
	risk, err := pincode.RestoreRisk(pincode.RiskParams{
		Code:            code,
		TotalOrders:     total,
		ReturnedOrders:  returned,
		CancelledOrders: cancelled,
		RiskScore:       score,
		LastUpdated:     now.Add(-time.Hour),
		Version:         3,
	})
	require.NoError(t, err)
	return risk
}

func TestPincodeRiskTracker_Risk_UnknownPincodeIsNeutral(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(nil, errs.NewObjectNotFoundError("pincode", code)).Once()
	metrics := &recordingMetrics{}
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), nil, nil, metrics)

	risk := tracker.Risk(ctx, code)

	assert.InDelta(t, 0.5, risk, 1e-9)
	assert.Empty(t, metrics.failOpen, "an unknown pincode is not a failure")
	repo.AssertExpectations(t)
}

func TestPincodeRiskTracker_Risk_ReadsStoreAndFillsCache(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(storedRisk(t, 10, 2, 1, 0.16), nil).Once()
	cache := new(MockRiskCache)
	cache.On("Get", ctx, code).Return(0.0, false, nil).Once()
	cache.On("Fill", ctx, code, 0.16).Return(nil).Once()
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), cache, nil, nil)

	risk := tracker.Risk(ctx, code)

	assert.InDelta(t, 0.16, risk, 1e-9)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPincodeRiskTracker_Risk_ReadRacingCommitKeepsCommittedScore(t *testing.T) {
	// Arrange
	ctx := t.Context()
	cache := newMemoryCache()
	repo := new(MockPincodeRiskRepository)
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), cache, nil, nil)
	committed := storedRisk(t, 11, 4, 1, 0.4)
	repo.On("Get", ctx, code).
		Run(func(mock.Arguments) { tracker.Remember(ctx, committed) }).
		Return(storedRisk(t, 10, 2, 1, 0.16), nil).Once()

	// Act
	read := tracker.Risk(ctx, code)

	// Assert
	assert.InDelta(t, 0.16, read, 1e-9)
	cached, ok, err := cache.Get(ctx, code)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.4, cached, 1e-9, "the committed score stays cached")
	assert.InDelta(t, 0.4, tracker.Risk(ctx, code), 1e-9)
	repo.AssertExpectations(t)
}

func TestPincodeRiskTracker_Risk_CacheHitSkipsStore(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	cache := new(MockRiskCache)
	cache.On("Get", ctx, code).Return(0.72, true, nil).Once()
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), cache, nil, nil)

	assert.InDelta(t, 0.72, tracker.Risk(ctx, code), 1e-9)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestPincodeRiskTracker_Risk_CacheFailureFallsThroughToStore(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(storedRisk(t, 5, 0, 0, 0), nil).Once()
	cache := new(MockRiskCache)
	cache.On("Get", ctx, code).Return(0.0, false, errors.New("redis: connection refused")).Once()
	cache.On("Fill", ctx, code, 0.0).Return(errors.New("redis: connection refused")).Once()
	metrics := &recordingMetrics{}
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), cache, nil, metrics)

	risk := tracker.Risk(ctx, code)

	assert.Zero(t, risk)
	assert.Equal(t, []string{trust.SourceRiskCache}, metrics.failOpen)
}

func TestPincodeRiskTracker_Risk_StoreFailureFailsOpen(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(nil, errors.New("database is locked")).Once()
	metrics := &recordingMetrics{}
	tracker := trust.NewPincodeRiskTracker(readOnlyFactory(repo), nil, nil, metrics)

	risk := tracker.Risk(ctx, code)

	assert.InDelta(t, pincode.DefaultRiskScore, risk, 1e-9)
	assert.Equal(t, []string{trust.SourcePincodeStore}, metrics.failOpen)
}

func TestPincodeRiskTracker_Risk_InvalidCodeIsNeutral(t *testing.T) {
	tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), nil, nil, nil)

	assert.InDelta(t, 0.5, tracker.Risk(t.Context(), pincode.Code{}), 1e-9)
}

func TestPincodeRiskTracker_Apply_FirstOutcomeCreatesRecord(t *testing.T) {
	tests := []struct {
		name      string
		returned  bool
		cancelled bool
		want      float64
	}{
		{name: "clean delivery", want: 0.2},
		{name: "returned", returned: true, want: 0.5},
		{name: "cancelled", cancelled: true, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			repo := new(MockPincodeRiskRepository)
			repo.On("Get", ctx, code).Return(nil, errs.NewObjectNotFoundError("pincode", code)).Once()
			repo.On("Create", ctx, mock.AnythingOfType("*pincode.Risk")).Return(nil).Once()
			tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), nil, nil, nil)

			risk, err := tracker.Apply(ctx, repo, code, tt.returned, tt.cancelled, now)

			require.NoError(t, err)
			assert.Equal(t, 1, risk.TotalOrders())
			assert.InDelta(t, tt.want, risk.RiskScore(), 1e-9)
			repo.AssertExpectations(t)
		})
	}
}

func TestPincodeRiskTracker_Apply_ExistingRecordIsRecomputed(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(storedRisk(t, 4, 1, 0, 0.5), nil).Once()
	repo.On("Update", ctx, mock.AnythingOfType("*pincode.Risk")).Return(nil).Once()
	tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), nil, nil, nil)

	risk, err := tracker.Apply(ctx, repo, code, true, false, now)

	require.NoError(t, err)
	assert.Equal(t, 5, risk.TotalOrders())
	assert.Equal(t, 2, risk.ReturnedOrders())
	assert.InDelta(t, 0.24, risk.RiskScore(), 1e-9, "replaces the previous 0.5")
	assert.Equal(t, now, risk.LastUpdated())
	repo.AssertExpectations(t)
}

func TestPincodeRiskTracker_Apply_ConcurrentCreateIsAConflict(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(nil, errs.NewObjectNotFoundError("pincode", code)).Once()
	repo.On("Create", ctx, mock.Anything).Return(errs.NewVersionConflictError("pincode", code, 0)).Once()
	tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), nil, nil, nil)

	_, err := tracker.Apply(ctx, repo, code, false, false, now)

	require.ErrorIs(t, err, errs.ErrVersionConflict)
}

func TestPincodeRiskTracker_Apply_StoreError(t *testing.T) {
	ctx := t.Context()
	repo := new(MockPincodeRiskRepository)
	repo.On("Get", ctx, code).Return(nil, errors.New("database error")).Once()
	tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), nil, nil, nil)

	_, err := tracker.Apply(ctx, repo, code, false, false, now)

	require.EqualError(t, err, "database error")
}

func TestPincodeRiskTracker_Remember(t *testing.T) {
	ctx := t.Context()
	risk := storedRisk(t, 10, 5, 0, 0.3)

	t.Run("stores score", func(t *testing.T) {
		cache := new(MockRiskCache)
		cache.On("Set", ctx, code, 0.3).Return(nil).Once()
		tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), cache, nil, nil)

		tracker.Remember(ctx, risk)

		cache.AssertExpectations(t)
		cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("evicts on failed write", func(t *testing.T) {
		cache := new(MockRiskCache)
		cache.On("Set", ctx, code, 0.3).Return(errors.New("timeout")).Once()
		cache.On("Delete", ctx, code).Return(nil).Once()
		tracker := trust.NewPincodeRiskTracker(new(MockUoWFactory), cache, nil, nil)

		tracker.Remember(ctx, risk)

		cache.AssertExpectations(t)
	})
}
