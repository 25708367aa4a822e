package dispatching

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/courier"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// DefaultMaxOffersPerStage is how many partners a stage offers the order to before
// escalating.
const DefaultMaxOffersPerStage = 2

// UnassignableMessage is the outcome message when every stage failed.
const UnassignableMessage = "Unable to assign delivery partner"

// Cascade assigns an order to a delivery partner, escalating from walkers to gig
// riders to a national courier.
//
// Business rules:
//   - Stages run strictly in order and a stage starts only after the previous one failed
//   - A partner is offered the order only after it was claimed on the directory
//   - A stage that assigns nobody appends exactly one failed attempt without a partner
//   - Each declined or expired offer appends a failed attempt carrying the partner
//   - Running out of couriers is a failed Outcome, not an error
//
// Example:
//
//	cascade := dispatching.NewCascade(directory, registry, ledger,
//	    dispatching.NewAutoAcceptBroker(nil),
//	    dispatching.WithLogger(logger),
//	)
//	outcome, err := cascade.Run(ctx, orderID, vendor, customer)
//	if err != nil {
//	    return err
//	}
//	if !outcome.Success {
//	    // alert operations
//	}
type Cascade struct {
	directory ports.PartnerDirectory
	couriers  ports.CourierRegistry
	ledger    ports.DispatchLedger
	broker    OfferBroker
	locator   Locator
	ranker    services.PartnerRanker
	maxOffers int
	clock     Clock
	logger    *zap.Logger
	metrics   Metrics
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(c *Cascade) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMaxOffersPerStage sets the per-stage offer budget. Values below 1 are ignored.
func WithMaxOffersPerStage(n int) Option {
	return func(c *Cascade) {
		if n >= 1 {
			c.maxOffers = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cascade) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithMetrics(metrics Metrics) Option {
	return func(c *Cascade) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// NewCascade creates a cascade over the given stores.
func NewCascade(
	directory ports.PartnerDirectory,
	couriers ports.CourierRegistry,
	ledger ports.DispatchLedger,
	broker OfferBroker,
	opts ...Option,
) *Cascade {
	c := &Cascade{
		directory: directory,
		couriers:  couriers,
		ledger:    ledger,
		broker:    broker,
		locator:   NewLocator(directory),
		ranker:    services.NewPartnerRanker(),
		maxOffers: DefaultMaxOffersPerStage,
		clock:     time.Now,
		logger:    zap.NewNop(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "dispatch_cascade"))
	return c
}

// run is the state of one cascade execution.
type run struct {
	orderID  kernel.UUID
	vendor   kernel.Location
	customer kernel.Location
	sequence int
	logger   *zap.Logger
}

// Run dispatches one order. Errors are returned only for invalid input, a failing
// dispatch ledger, or ctx cancellation while an offer is outstanding; a run that
// assigns nobody returns a failed Outcome and a nil error.
func (c *Cascade) Run(
	ctx context.Context,
	orderID kernel.UUID,
	vendor, customer kernel.Location,
) (dispatch.Outcome, error) {
	if err := errors.Join(orderID.Validate(), vendor.Validate(), customer.Validate()); err != nil {
		return dispatch.Outcome{}, err
	}

	started := c.clock()
	previous, err := c.ledger.ListByOrder(ctx, orderID)
	if err != nil {
		return dispatch.Outcome{}, err
	}

	r := &run{
		orderID:  orderID,
		vendor:   vendor,
		customer: customer,
		sequence: len(previous),
		logger:   c.logger.With(zap.String("order_id", orderID.String())),
	}
	r.logger.Info("dispatch started",
		zap.Stringer("vendor", vendor),
		zap.Stringer("customer", customer),
	)

	var outcome dispatch.Outcome
	for _, stage := range dispatch.Stages() {
		if stage.UsesPartnerDirectory() {
			var assigned bool
			outcome, assigned, err = c.runPartnerStage(ctx, r, stage)
			if err != nil {
				return dispatch.Outcome{}, err
			}
			if assigned {
				break
			}
			continue
		}

		outcome, err = c.runCourierStage(ctx, r)
		if err != nil {
			return dispatch.Outcome{}, err
		}
	}

	c.metrics.ObserveOutcome(outcome, c.clock().Sub(started))
	r.logger.Info("dispatch finished",
		zap.Bool("success", outcome.Success),
		zap.Stringer("final_stage", outcome.FinalStage),
		zap.String("message", outcome.Message),
	)
	return outcome, nil
}

func (c *Cascade) runPartnerStage(ctx context.Context, r *run, stage dispatch.Stage) (dispatch.Outcome, bool, error) {
	policy := stage.Policy()
	logger := r.logger.With(zap.Stringer("stage", stage))

	candidates, err := c.locator.FindNearby(ctx, r.vendor, policy.RadiusKm, policy.Types)
	if err != nil {
		logger.Warn("partner lookup failed", zap.Error(err))
	}
	ranked := c.ranker.RankAll(candidates, r.customer)

	offered := 0
	for _, candidate := range ranked {
		if offered >= c.maxOffers {
			break
		}
		p := candidate.Partner
		if !c.claim(ctx, p, logger) {
			continue
		}
		offered++

		offer, published, offerErr := c.offer(ctx, r, stage, p, logger)
		if offerErr != nil {
			return dispatch.Outcome{}, false, offerErr
		}
		if !published {
			break
		}
		c.metrics.ObserveOffer(stage, offer.State())

		partnerID := p.ID()
		respondedAt := respondedAtOf(offer)
		accepted := offer.State() == dispatch.Accepted
		if accepted {
			c.assign(ctx, p, logger)
		} else {
			c.release(ctx, p, logger)
		}
		if err = c.record(ctx, r, stage, &partnerID, accepted, offer.OfferedAt(), respondedAt); err != nil {
			return dispatch.Outcome{}, false, err
		}

		if accepted {
			logger.Info("partner assigned",
				zap.String("partner_id", partnerID.String()),
				zap.Float64("score", candidate.Score),
			)
			assignedAt := c.clock()
			if respondedAt != nil {
				assignedAt = *respondedAt
			}
			return dispatch.Assigned(stage, partnerID, p.Name(), assignedAt), true, nil
		}
		logger.Info("offer not accepted",
			zap.String("partner_id", partnerID.String()),
			zap.Stringer("state", offer.State()),
		)
	}

	if err = c.record(ctx, r, stage, nil, false, c.clock(), nil); err != nil {
		return dispatch.Outcome{}, false, err
	}
	if len(ranked) == 0 {
		logger.Info(dispatch.NoCandidateMessage(stage))
	} else {
		logger.Info("stage exhausted", zap.Int("candidates", len(ranked)), zap.Int("offers", offered))
	}
	return dispatch.Unassigned(stage, dispatch.NoCandidateMessage(stage)), false, nil
}

func (c *Cascade) runCourierStage(ctx context.Context, r *run) (dispatch.Outcome, error) {
	logger := r.logger.With(zap.Stringer("stage", dispatch.Courier))
	now := c.clock()

	couriers, err := c.couriers.ListActiveBySuccessRate(ctx)
	if err != nil {
		logger.Warn("courier registry lookup failed", zap.Error(err))
	}

	best := courier.Best(couriers)
	if best == nil {
		logger.Error(dispatch.NoCandidateMessage(dispatch.Courier))
		if err = c.record(ctx, r, dispatch.Courier, nil, false, now, nil); err != nil {
			return dispatch.Outcome{}, err
		}
		return dispatch.Unassigned(dispatch.Courier, UnassignableMessage), nil
	}

	if err = c.record(ctx, r, dispatch.Courier, nil, true, now, &now); err != nil {
		return dispatch.Outcome{}, err
	}
	logger.Info("courier assigned", zap.String("courier", best.Name()))
	return dispatch.Assigned(dispatch.Courier, best.ID(), best.DisplayName(), now), nil
}

// claim reports whether p was taken out of the pool for this run.
func (c *Cascade) claim(ctx context.Context, p *partner.Partner, logger *zap.Logger) bool {
	err := c.directory.Claim(ctx, p.ID(), p.Version())
	switch {
	case err == nil:
		return true
	case errors.Is(err, errs.ErrVersionConflict):
		logger.Debug("partner taken by another order", zap.String("partner_id", p.ID().String()))
	default:
		logger.Warn("partner claim failed", zap.String("partner_id", p.ID().String()), zap.Error(err))
	}
	return false
}

// offer publishes an offer to a claimed partner and waits for its final state.
// published is false when the broker refused the offer; the claim is released then.
func (c *Cascade) offer(
	ctx context.Context,
	r *run,
	stage dispatch.Stage,
	p *partner.Partner,
	logger *zap.Logger,
) (final *dispatch.Offer, published bool, err error) {
	offer, err := dispatch.NewOffer(kernel.NewUUID(), r.orderID, p.ID(), stage, c.clock())
	if err != nil {
		c.release(ctx, p, logger)
		return nil, false, err
	}

	if err = c.broker.Publish(ctx, offer); err != nil {
		logger.Warn("offer publish failed", zap.String("partner_id", p.ID().String()), zap.Error(err))
		c.release(ctx, p, logger)
		return nil, false, nil
	}

	final, err = c.broker.Await(ctx, offer)
	if err != nil {
		c.release(ctx, p, logger)
		return nil, true, err
	}
	return final, true, nil
}

func (c *Cascade) release(ctx context.Context, p *partner.Partner, logger *zap.Logger) {
	if err := c.directory.Release(context.WithoutCancel(ctx), p.ID()); err != nil {
		logger.Error("partner release failed", zap.String("partner_id", p.ID().String()), zap.Error(err))
	}
}

func (c *Cascade) assign(ctx context.Context, p *partner.Partner, logger *zap.Logger) {
	if err := c.directory.Assign(context.WithoutCancel(ctx), p.ID()); err != nil {
		logger.Error("partner assignment failed", zap.String("partner_id", p.ID().String()), zap.Error(err))
	}
}

func (c *Cascade) record(
	ctx context.Context,
	r *run,
	stage dispatch.Stage,
	partnerID *kernel.UUID,
	accepted bool,
	pingedAt time.Time,
	respondedAt *time.Time,
) error {
	attempt, err := dispatch.NewAttempt(dispatch.AttemptParams{
		ID:          kernel.NewUUID(),
		OrderID:     r.orderID,
		Sequence:    r.sequence + 1,
		Stage:       stage,
		PartnerID:   partnerID,
		Vendor:      r.vendor,
		Customer:    r.customer,
		Accepted:    accepted,
		PingedAt:    pingedAt,
		RespondedAt: respondedAt,
	})
	if err != nil {
		return err
	}
	if err = c.ledger.Append(ctx, attempt); err != nil {
		return err
	}
	r.sequence++
	c.metrics.ObserveAttempt(stage, accepted)
	return nil
}

// respondedAtOf returns when the partner answered. Expired offers have no answer.
func respondedAtOf(offer *dispatch.Offer) *time.Time {
	at, ok := offer.RespondedAt()
	if !ok {
		return nil
	}
	return &at
}
