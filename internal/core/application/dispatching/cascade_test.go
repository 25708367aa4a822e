package dispatching_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/dispatching"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cascadeFixture struct {
	directory *memoryDirectory
	registry  *MockCourierRegistry
	ledger    *memoryLedger
	broker    dispatching.OfferBroker
	cascade   *dispatching.Cascade
}

func newCascadeFixture(
	t *testing.T,
	broker dispatching.OfferBroker,
	couriers []*courier.Courier,
	partners ...partner.RestoreParams,
) *cascadeFixture {
	t.Helper()
	f := &cascadeFixture{
		directory: newMemoryDirectory(partners...),
		registry:  new(MockCourierRegistry),
		ledger:    &memoryLedger{},
		broker:    broker,
	}
	f.registry.On("ListActiveBySuccessRate", mock.Anything).Return(couriers, nil).Maybe()
	f.cascade = dispatching.NewCascade(f.directory, f.registry, f.ledger, broker,
		dispatching.WithClock(fixedClock),
	)
	return f
}

func (f *cascadeFixture) attempts(t *testing.T, orderID kernel.UUID) []dispatch.Attempt {
	t.Helper()
	attempts, err := f.ledger.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return attempts
}

func TestCascade_Run_NearbyWalkerIsAssignedAtMesh(t *testing.T) {
	ctx := t.Context()
	walker := partnerParams(named("Ravi"), at(12.9072, 77.60), withStats(4.5, 100, 90))
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), nil, walker)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, dispatch.Mesh, outcome.FinalStage)
	require.NotNil(t, outcome.PartnerID)
	assert.Equal(t, walker.ID, *outcome.PartnerID)
	assert.Equal(t, "Ravi", outcome.PartnerName)
	assert.Equal(t, "Assigned to nearby walker: Ravi", outcome.Message)
	require.NotNil(t, outcome.EstimatedDeliveryAt)
	assert.Equal(t, now.Add(45*time.Minute), *outcome.EstimatedDeliveryAt)

	attempts := f.attempts(t, orderID)
	require.Len(t, attempts, 1)
	assert.Equal(t, dispatch.Mesh, attempts[0].Stage())
	assert.True(t, attempts[0].Accepted())
	assert.Equal(t, 1, attempts[0].Sequence())
	assert.InDelta(t, 1.0, attempts[0].DistanceKm(), 0.01)
	id, ok := attempts[0].PartnerID()
	require.True(t, ok)
	assert.Equal(t, walker.ID, id)

	assert.False(t, f.directory.isAvailable(walker.ID), "assigned partner leaves the pool")
	assert.False(t, f.directory.isClaimed(walker.ID))
	assert.Equal(t, []kernel.UUID{walker.ID}, f.directory.assigns)
}

func TestCascade_Run_EscalatesToGigWhenNoWalkers(t *testing.T) {
	ctx := t.Context()
	bike := partnerParams(named("Asha"), ofType(partner.Bike), at(12.9719, 77.60))
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), nil, bike)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, dispatch.Gig, outcome.FinalStage)
	assert.Equal(t, bike.ID, *outcome.PartnerID)
	assert.Equal(t, "Assigned to gig worker: Asha", outcome.Message)
	assert.Equal(t, now.Add(90*time.Minute), *outcome.EstimatedDeliveryAt)

	attempts := f.attempts(t, orderID)
	assert.Equal(t, []dispatch.Stage{dispatch.Mesh, dispatch.Gig}, stagesOf(attempts))
	assert.False(t, attempts[0].Accepted())
	assert.Nil(t, partnerIDs(attempts)[0])
	assert.True(t, attempts[1].Accepted())
}

func TestCascade_Run_WalkerOutsideMeshRadiusIsLeftForNobody(t *testing.T) {
	ctx := t.Context()
	farWalker := partnerParams(at(12.92, 77.60)) // 2.2 km from the vendor
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock),
		[]*courier.Courier{newCourier(t, "bluedart", 0.9)}, farWalker)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.Equal(t, []*kernel.UUID{nil, nil, nil}, partnerIDs(f.attempts(t, orderID)))
}

func TestCascade_Run_FallsBackToBestCourier(t *testing.T) {
	ctx := t.Context()
	weak := newCourier(t, "indiapost", 0.7)
	best := newCourier(t, "delhivery", 0.95)
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), []*courier.Courier{weak, best})
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.Equal(t, best.ID(), *outcome.PartnerID)
	assert.Equal(t, "delhivery Express", outcome.PartnerName)
	assert.Equal(t, "Assigned to delhivery Express", outcome.Message)
	assert.Equal(t, now.Add(48*time.Hour), *outcome.EstimatedDeliveryAt)

	attempts := f.attempts(t, orderID)
	assert.Equal(t, []dispatch.Stage{dispatch.Mesh, dispatch.Gig, dispatch.Courier}, stagesOf(attempts))
	assert.Equal(t, []*kernel.UUID{nil, nil, nil}, partnerIDs(attempts))
	assert.Equal(t, []bool{false, false, true},
		[]bool{attempts[0].Accepted(), attempts[1].Accepted(), attempts[2].Accepted()})
	assert.Equal(t, []int{1, 2, 3},
		[]int{attempts[0].Sequence(), attempts[1].Sequence(), attempts[2].Sequence()})
}

func TestCascade_Run_NoCouriersIsAFailedOutcome(t *testing.T) {
	ctx := t.Context()
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), []*courier.Courier{})
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.Nil(t, outcome.PartnerID)
	assert.Nil(t, outcome.EstimatedDeliveryAt)
	assert.Equal(t, dispatching.UnassignableMessage, outcome.Message)

	attempts := f.attempts(t, orderID)
	assert.Equal(t, []dispatch.Stage{dispatch.Mesh, dispatch.Gig, dispatch.Courier}, stagesOf(attempts))
	for _, a := range attempts {
		assert.False(t, a.Accepted())
	}
}

func TestCascade_Run_CourierRegistryFailureIsAFailedOutcome(t *testing.T) {
	ctx := t.Context()
	registry := new(MockCourierRegistry)
	registry.On("ListActiveBySuccessRate", mock.Anything).Return(nil, errors.New("registry down"))
	ledger := &memoryLedger{}
	cascade := dispatching.NewCascade(newMemoryDirectory(), registry, ledger,
		dispatching.NewAutoAcceptBroker(fixedClock), dispatching.WithClock(fixedClock))

	outcome, err := cascade.Run(ctx, kernel.NewUUID(), vendor, customer)

	require.NoError(t, err)
	assert.False(t, outcome.Success)
	registry.AssertExpectations(t)
}

func TestCascade_Run_DeclinedOfferMovesToNextCandidate(t *testing.T) {
	ctx := t.Context()
	first := partnerParams(named("first"), at(12.9072, 77.60))
	second := partnerParams(named("second"), at(12.9060, 77.60), withStats(3.0, 100, 50))
	broker := &scriptedBroker{script: []dispatch.OfferState{dispatch.Declined, dispatch.Accepted}}
	f := newCascadeFixture(t, broker, nil, first, second)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, second.ID, *outcome.PartnerID)
	assert.Equal(t, dispatch.Mesh, outcome.FinalStage)

	attempts := f.attempts(t, orderID)
	require.Len(t, attempts, 2)
	assert.Equal(t, []*kernel.UUID{&first.ID, &second.ID}, partnerIDs(attempts))
	assert.False(t, attempts[0].Accepted())
	rt, ok := attempts[0].ResponseTime()
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, rt)
	assert.True(t, attempts[1].Accepted())

	assert.True(t, f.directory.isAvailable(first.ID), "declining partner is released")
	assert.False(t, f.directory.isAvailable(second.ID))
	assert.Equal(t, []kernel.UUID{first.ID}, f.directory.releases)
}

func TestCascade_Run_OfferBudgetThenEscalates(t *testing.T) {
	ctx := t.Context()
	walkers := []partner.RestoreParams{
		partnerParams(at(12.9072, 77.60)),
		partnerParams(at(12.9060, 77.60)),
		partnerParams(at(12.9050, 77.60)),
	}
	broker := &scriptedBroker{script: []dispatch.OfferState{dispatch.TimedOut, dispatch.Declined}}
	f := newCascadeFixture(t, broker, []*courier.Courier{newCourier(t, "ecom", 0.8)}, walkers...)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.Len(t, broker.published, dispatching.DefaultMaxOffersPerStage)
	assert.Len(t, f.directory.claims, 2)

	attempts := f.attempts(t, orderID)
	assert.Equal(t,
		[]dispatch.Stage{dispatch.Mesh, dispatch.Mesh, dispatch.Mesh, dispatch.Gig, dispatch.Courier},
		stagesOf(attempts))
	ids := partnerIDs(attempts)
	assert.NotNil(t, ids[0])
	assert.NotNil(t, ids[1])
	assert.Nil(t, ids[2], "stage failure is recorded without a partner")
	_, responded := attempts[0].RespondedAt()
	assert.False(t, responded, "timed out offer has no response")

	for _, w := range walkers {
		assert.True(t, f.directory.isAvailable(w.ID))
	}
}

func TestCascade_Run_LostClaimSkipsCandidate(t *testing.T) {
	ctx := t.Context()
	contested := partnerParams(named("contested"), at(12.9072, 77.60))
	other := partnerParams(named("other"), at(12.9060, 77.60), withStats(3.0, 100, 50))
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), nil, contested, other)
	f.directory.beforeClaim = func(id kernel.UUID, stored *partner.RestoreParams) {
		if id.IsEqual(contested.ID) {
			stored.Available = false
			stored.Version++
		}
	}
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, other.ID, *outcome.PartnerID)
	assert.Equal(t, []kernel.UUID{other.ID}, f.directory.claims)
	assert.Len(t, f.attempts(t, orderID), 1, "a lost claim is not an attempt")
}

func TestCascade_Run_DirectoryFailureEscalates(t *testing.T) {
	ctx := t.Context()
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock),
		[]*courier.Courier{newCourier(t, "xpress", 0.8)}, partnerParams())
	f.directory.listErr = errors.New("connection refused")
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.Equal(t, []dispatch.Stage{dispatch.Mesh, dispatch.Gig, dispatch.Courier}, stagesOf(f.attempts(t, orderID)))
}

func TestCascade_Run_PublishFailureEndsStage(t *testing.T) {
	ctx := t.Context()
	walker := partnerParams()
	broker := &scriptedBroker{publishErr: errors.New("broker unavailable")}
	f := newCascadeFixture(t, broker, []*courier.Courier{newCourier(t, "xpress", 0.8)}, walker)
	orderID := kernel.NewUUID()

	outcome, err := f.cascade.Run(ctx, orderID, vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, dispatch.Courier, outcome.FinalStage)
	assert.True(t, f.directory.isAvailable(walker.ID))
	assert.Nil(t, partnerIDs(f.attempts(t, orderID))[0])
}

func TestCascade_Run_AwaitErrorReleasesClaim(t *testing.T) {
	ctx := t.Context()
	walker := partnerParams()
	broker := &scriptedBroker{awaitErr: context.Canceled}
	f := newCascadeFixture(t, broker, nil, walker)

	_, err := f.cascade.Run(ctx, kernel.NewUUID(), vendor, customer)

	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.directory.isAvailable(walker.ID))
}

func TestCascade_Run_LedgerFailureIsAnError(t *testing.T) {
	ctx := t.Context()
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), nil, partnerParams())
	f.ledger.appendErr = errors.New("disk full")

	_, err := f.cascade.Run(ctx, kernel.NewUUID(), vendor, customer)

	require.Error(t, err)
}

func TestCascade_Run_ContinuesSequenceOfEarlierRuns(t *testing.T) {
	ctx := t.Context()
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), []*courier.Courier{newCourier(t, "a", 0.5)})
	orderID := kernel.NewUUID()

	_, err := f.cascade.Run(ctx, orderID, vendor, customer)
	require.NoError(t, err)
	_, err = f.cascade.Run(ctx, orderID, vendor, customer)
	require.NoError(t, err)

	attempts := f.attempts(t, orderID)
	require.Len(t, attempts, 6)
	for i, a := range attempts {
		assert.Equal(t, i+1, a.Sequence())
	}
}

func TestCascade_Run_RejectsInvalidInput(t *testing.T) {
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock), nil)

	_, err := f.cascade.Run(t.Context(), kernel.UUID{}, vendor, customer)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = f.cascade.Run(t.Context(), kernel.NewUUID(), kernel.Location{}, customer)
	require.Error(t, err)
}

func TestCascade_Run_ConcurrentOrdersNeverShareAPartner(t *testing.T) {
	ctx := t.Context()
	walker := partnerParams(named("only"))
	f := newCascadeFixture(t, dispatching.NewAutoAcceptBroker(fixedClock),
		[]*courier.Courier{newCourier(t, "backup", 0.9)}, walker)

	const orders = 8
	outcomes := make([]dispatch.Outcome, orders)
	var wg sync.WaitGroup
	for i := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := f.cascade.Run(ctx, kernel.NewUUID(), vendor, customer)
			assert.NoError(t, err)
			outcomes[i] = outcome
		}()
	}
	wg.Wait()

	meshAssignments := 0
	for _, o := range outcomes {
		assert.True(t, o.Success)
		if o.FinalStage == dispatch.Mesh {
			meshAssignments++
			assert.Equal(t, walker.ID, *o.PartnerID)
		}
	}
	assert.Equal(t, 1, meshAssignments)
}

func TestCascade_Run_MaxOffersOption(t *testing.T) {
	ctx := t.Context()
	walkers := []partner.RestoreParams{
		partnerParams(at(12.9072, 77.60)),
		partnerParams(at(12.9060, 77.60)),
		partnerParams(at(12.9050, 77.60)),
	}
	broker := &scriptedBroker{script: []dispatch.OfferState{dispatch.Declined, dispatch.Declined, dispatch.Accepted}}
	directory := newMemoryDirectory(walkers...)
	registry := new(MockCourierRegistry)
	cascade := dispatching.NewCascade(directory, registry, &memoryLedger{}, broker,
		dispatching.WithClock(fixedClock),
		dispatching.WithMaxOffersPerStage(3),
	)

	outcome, err := cascade.Run(ctx, kernel.NewUUID(), vendor, customer)

	require.NoError(t, err)
	assert.Equal(t, dispatch.Mesh, outcome.FinalStage)
	assert.Len(t, broker.published, 3)
	registry.AssertNotCalled(t, "ListActiveBySuccessRate", mock.Anything)
}
