package trust_test

import (
	"context"
	"sync"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

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

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) BuyerRepository() ports.BuyerRepository {
	args := m.Called()
	return args.Get(0).(ports.BuyerRepository)
}

func (m *MockUoW) PincodeRiskRepository() ports.PincodeRiskRepository {
	args := m.Called()
	return args.Get(0).(ports.PincodeRiskRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockRiskCache struct{ mock.Mock }

func (m *MockRiskCache) Get(ctx context.Context, code pincode.Code) (float64, bool, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

func (m *MockRiskCache) Set(ctx context.Context, code pincode.Code, score float64) error {
	args := m.Called(ctx, code, score)
	return args.Error(0)
}

func (m *MockRiskCache) Fill(ctx context.Context, code pincode.Code, score float64) error {
	args := m.Called(ctx, code, score)
	return args.Error(0)
}

func (m *MockRiskCache) Delete(ctx context.Context, code pincode.Code) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type recordingMetrics struct {
	failOpen  []string
	conflicts int
}

func (r *recordingMetrics) ObserveFailOpen(source string) { r.failOpen = append(r.failOpen, source) }

func (r *recordingMetrics) ObserveConflictRetry() { r.conflicts++ }

type fixedRisk float64

func (f fixedRisk) Risk(context.Context, pincode.Code) float64 { return float64(f) }

// readOnlyFactory wires a factory whose units of work only hand out repo.
func readOnlyFactory(repo *MockPincodeRiskRepository) *MockUoWFactory {
	uow := new(MockUoW)
	uow.On("PincodeRiskRepository").Return(repo)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)
	return factory
}

// memoryCache is a RiskCache over a map with the same Fill semantics as Redis SET NX.
type memoryCache struct {
	mu     sync.Mutex
	scores map[pincode.Code]float64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{scores: map[pincode.Code]float64{}}
}

func (c *memoryCache) Get(_ context.Context, code pincode.Code) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	score, ok := c.scores[code]
	return score, ok, nil
}

func (c *memoryCache) Set(_ context.Context, code pincode.Code, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[code] = score
	return nil
}

func (c *memoryCache) Fill(_ context.Context, code pincode.Code, score float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.scores[code]; !ok {
		c.scores[code] = score
	}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, code pincode.Code) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scores, code)
	return nil
}
