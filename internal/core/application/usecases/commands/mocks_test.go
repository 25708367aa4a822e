package commands_test

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/order"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type MockCascade struct{ mock.Mock }

func (m *MockCascade) Run(
	ctx context.Context,
	orderID kernel.UUID,
	vendor, customer kernel.Location,
) (dispatch.Outcome, error) {
	args := m.Called(ctx, orderID, vendor, customer)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, offer *dispatch.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*dispatch.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Offer), args.Error(1)
}

func (m *MockOfferRepository) Resolve(ctx context.Context, offer *dispatch.Offer, expected dispatch.OfferState) error {
	args := m.Called(ctx, offer, expected)
	return args.Error(0)
}

func (m *MockOfferRepository) ListExpired(ctx context.Context, at time.Time) ([]*dispatch.Offer, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dispatch.Offer), args.Error(1)
}

type MockPartnerDirectory struct{ mock.Mock }

func (m *MockPartnerDirectory) ListAvailable(ctx context.Context, types []partner.Type) ([]*partner.Partner, error) {
	args := m.Called(ctx, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Partner), args.Error(1)
}

func (m *MockPartnerDirectory) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerDirectory) Claim(ctx context.Context, id kernel.UUID, version int64) error {
	args := m.Called(ctx, id, version)
	return args.Error(0)
}

func (m *MockPartnerDirectory) Release(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerDirectory) Assign(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerDirectory) UpdateLocation(ctx context.Context, id kernel.UUID, loc kernel.Location, at time.Time) error {
	args := m.Called(ctx, id, loc, at)
	return args.Error(0)
}

func (m *MockPartnerDirectory) SetAvailability(ctx context.Context, id kernel.UUID, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}

type MockOrderDirectory struct{ mock.Mock }

func (m *MockOrderDirectory) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockBuyerRepository struct{ mock.Mock }

func (m *MockBuyerRepository) Get(ctx context.Context, id kernel.UUID) (*buyer.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*buyer.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) Update(ctx context.Context, b *buyer.Buyer) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MockPincodeRiskRepository struct{ mock.Mock }

func (m *MockPincodeRiskRepository) Get(ctx context.Context, code pincode.Code) (*pincode.Risk, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pincode.Risk), args.Error(1)
}

func (m *MockPincodeRiskRepository) Create(ctx context.Context, risk *pincode.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

func (m *MockPincodeRiskRepository) Update(ctx context.Context, risk *pincode.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

type MockTrustUoW struct{ mock.Mock }

func (m *MockTrustUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrustUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrustUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTrustUoW) BuyerRepository() ports.BuyerRepository {
	args := m.Called()
	return args.Get(0).(ports.BuyerRepository)
}

func (m *MockTrustUoW) PincodeRiskRepository() ports.PincodeRiskRepository {
	args := m.Called()
	return args.Get(0).(ports.PincodeRiskRepository)
}

type MockTrustUoWFactory struct{ mock.Mock }

func (m *MockTrustUoWFactory) Create() commands.TrustUoW {
	args := m.Called()
	return args.Get(0).(commands.TrustUoW)
}

type MockBuyerUoWFactory struct{ mock.Mock }

func (m *MockBuyerUoWFactory) Create() commands.BuyerUoW {
	args := m.Called()
	return args.Get(0).(commands.BuyerUoW)
}

type fixedRisk float64

func (f fixedRisk) Risk(context.Context, pincode.Code) float64 { return float64(f) }

type recordingMetrics struct {
	failOpen []string
}

func (m *recordingMetrics) ObserveFailOpen(source string) { m.failOpen = append(m.failOpen, source) }

func (m *recordingMetrics) ObserveConflictRetry() {}
