package queries_test

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"

	"github.com/stretchr/testify/mock"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type MockDispatchLedger struct{ mock.Mock }

func (m *MockDispatchLedger) Append(ctx context.Context, attempt dispatch.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockDispatchLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]dispatch.Attempt, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dispatch.Attempt), args.Error(1)
}

type MockBuyerReader struct{ mock.Mock }

func (m *MockBuyerReader) Get(ctx context.Context, id kernel.UUID) (*buyer.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*buyer.Buyer), args.Error(1)
}

type MockRiskLookup struct{ mock.Mock }

func (m *MockRiskLookup) Lookup(ctx context.Context, code pincode.Code) (*pincode.Risk, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pincode.Risk), args.Error(1)
}

type MockNearbyFinder struct{ mock.Mock }

func (m *MockNearbyFinder) FindNearby(
	ctx context.Context,
	origin kernel.Location,
	radiusKm float64,
	types []partner.Type,
) ([]services.Candidate, error) {
	args := m.Called(ctx, origin, radiusKm, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.Candidate), args.Error(1)
}

type recordingMetrics struct {
	failOpen []string
}

func (m *recordingMetrics) ObserveFailOpen(source string) { m.failOpen = append(m.failOpen, source) }

func (m *recordingMetrics) ObserveConflictRetry() {}
