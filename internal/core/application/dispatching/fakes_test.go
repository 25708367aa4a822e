package dispatching_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	vendor   = kernel.MustNewLocation(12.90, 77.60)
	customer = kernel.MustNewLocation(12.909, 77.60)
)

func fixedClock() time.Time { return now }

// memoryDirectory is a PartnerDirectory over RestoreParams that keeps claims apart
// from availability and bumps versions the way the database does.
type memoryDirectory struct {
	mu       sync.Mutex
	partners map[string]*partner.RestoreParams
	claimed  map[string]bool
	listErr  error
	claimErr error
	claims   []kernel.UUID
	releases []kernel.UUID
	assigns  []kernel.UUID
	// beforeClaim runs with the lock held and may change the stored partner.
	beforeClaim func(id kernel.UUID, stored *partner.RestoreParams)
}

func newMemoryDirectory(partners ...partner.RestoreParams) *memoryDirectory {
	d := &memoryDirectory{partners: map[string]*partner.RestoreParams{}, claimed: map[string]bool{}}
	for _, p := range partners {
		d.partners[p.ID.String()] = &p
	}
	return d
}

func (d *memoryDirectory) ListAvailable(_ context.Context, types []partner.Type) ([]*partner.Partner, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listErr != nil {
		return nil, d.listErr
	}
	out := make([]*partner.Partner, 0, len(d.partners))
	for _, params := range d.partners {
		if !params.Available || d.claimed[params.ID.String()] ||
			params.Status != partner.Active || !slices.Contains(types, params.Type) {
			continue
		}
		p, err := partner.RestorePartner(*params)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *memoryDirectory) Get(_ context.Context, id kernel.UUID) (*partner.Partner, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	params, ok := d.partners[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("partner", id)
	}
	return partner.RestorePartner(*params)
}

func (d *memoryDirectory) Claim(_ context.Context, id kernel.UUID, version int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.claimErr != nil {
		return d.claimErr
	}
	params, ok := d.partners[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("partner", id)
	}
	if d.beforeClaim != nil {
		d.beforeClaim(id, params)
	}
	if !params.Available || d.claimed[id.String()] || params.Version != version {
		return errs.NewVersionConflictError("partner", id, version)
	}
	d.claimed[id.String()] = true
	params.Version++
	d.claims = append(d.claims, id)
	return nil
}

func (d *memoryDirectory) Release(_ context.Context, id kernel.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	params, ok := d.partners[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("partner", id)
	}
	delete(d.claimed, id.String())
	params.Version++
	d.releases = append(d.releases, id)
	return nil
}

func (d *memoryDirectory) Assign(_ context.Context, id kernel.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	params, ok := d.partners[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("partner", id)
	}
	delete(d.claimed, id.String())
	params.Available = false
	params.Version++
	d.assigns = append(d.assigns, id)
	return nil
}

func (d *memoryDirectory) UpdateLocation(_ context.Context, id kernel.UUID, loc kernel.Location, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	params, ok := d.partners[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("partner", id)
	}
	params.Location = &loc
	params.LastLocationUpdate = &at
	params.Version++
	return nil
}

func (d *memoryDirectory) SetAvailability(_ context.Context, id kernel.UUID, available bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	params, ok := d.partners[id.String()]
	if !ok {
		return errs.NewObjectNotFoundError("partner", id)
	}
	params.Available = available
	params.Version++
	return nil
}

func (d *memoryDirectory) isAvailable(id kernel.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.partners[id.String()].Available && !d.claimed[id.String()]
}

func (d *memoryDirectory) isClaimed(id kernel.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.claimed[id.String()]
}

type memoryLedger struct {
	mu        sync.Mutex
	attempts  []dispatch.Attempt
	appendErr error
}

func (l *memoryLedger) Append(_ context.Context, a dispatch.Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return l.appendErr
	}
	for _, existing := range l.attempts {
		if existing.ID().IsEqual(a.ID()) {
			return nil
		}
	}
	l.attempts = append(l.attempts, a)
	return nil
}

func (l *memoryLedger) ListByOrder(_ context.Context, orderID kernel.UUID) ([]dispatch.Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]dispatch.Attempt, 0)
	for _, a := range l.attempts {
		if a.OrderID().IsEqual(orderID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type MockCourierRegistry struct{ mock.Mock }

func (m *MockCourierRegistry) ListActiveBySuccessRate(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

// scriptedBroker answers offers with a fixed sequence of final states.
type scriptedBroker struct {
	mu         sync.Mutex
	script     []dispatch.OfferState
	published  []*dispatch.Offer
	publishErr error
	awaitErr   error
}

func (b *scriptedBroker) Publish(_ context.Context, offer *dispatch.Offer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, offer)
	return nil
}

func (b *scriptedBroker) Await(_ context.Context, offer *dispatch.Offer) (*dispatch.Offer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.awaitErr != nil {
		return nil, b.awaitErr
	}
	next := dispatch.Accepted
	if len(b.script) > 0 {
		next, b.script = b.script[0], b.script[1:]
	}
	var err error
	switch next {
	case dispatch.Accepted:
		err = offer.Accept(offer.OfferedAt().Add(20 * time.Second))
	case dispatch.Declined:
		err = offer.Decline(offer.OfferedAt().Add(5 * time.Second))
	case dispatch.TimedOut:
		err = offer.Expire(offer.Deadline())
	case dispatch.Offered, dispatch.UnknownOfferState:
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}

type partnerOpt func(*partner.RestoreParams)

func named(name string) partnerOpt {
	return func(p *partner.RestoreParams) { p.Name = name }
}

func ofType(t partner.Type) partnerOpt {
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

func partnerParams(opts ...partnerOpt) partner.RestoreParams {
	loc := kernel.MustNewLocation(12.9072, 77.60)
	params := partner.RestoreParams{
		ID:                   kernel.NewUUID(),
		Name:                 "partner",
		Type:                 partner.Walker,
		Location:             &loc,
		Available:            true,
		Status:               partner.Active,
		Rating:               4.5,
		TotalDeliveries:      100,
		SuccessfulDeliveries: 90,
		Version:              1,
	}
	for _, opt := range opts {
		opt(&params)
	}
	return params
}

func newCourier(t *testing.T, name string, rate float64) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, name+" Express", rate)
	require.NoError(t, err)
	return c
}

func partnerIDs(attempts []dispatch.Attempt) []*kernel.UUID {
	out := make([]*kernel.UUID, 0, len(attempts))
	for _, a := range attempts {
		if id, ok := a.PartnerID(); ok {
			out = append(out, &id)
			continue
		}
		out = append(out, nil)
	}
	return out
}

func stagesOf(attempts []dispatch.Attempt) []dispatch.Stage {
	out := make([]dispatch.Stage, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, a.Stage())
	}
	return out
}
