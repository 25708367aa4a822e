package dispatching

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// DefaultPollInterval is how often PollingBroker re-reads a pending offer.
const DefaultPollInterval = 500 * time.Millisecond

// PollingBroker stores offers in an OfferRepository and polls them until the
// partner answers or the deadline passes. Any process sharing the repository can
// answer an offer; the repository's state compare-and-set decides the winner when
// an answer and the deadline race.
type PollingBroker struct {
	offers   ports.OfferRepository
	interval time.Duration
	clock    Clock
	logger   *zap.Logger
}

// NewPollingBroker creates a PollingBroker. A non-positive interval uses
// DefaultPollInterval and a nil clock uses time.Now.
func NewPollingBroker(offers ports.OfferRepository, interval time.Duration, clock Clock, logger *zap.Logger) *PollingBroker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PollingBroker{
		offers:   offers,
		interval: interval,
		clock:    clock,
		logger:   logger.With(zap.String("component", "offer_broker")),
	}
}

func (b *PollingBroker) Publish(ctx context.Context, offer *dispatch.Offer) error {
	if err := offer.Validate(); err != nil {
		return err
	}
	return b.offers.Add(ctx, offer)
}

func (b *PollingBroker) Await(ctx context.Context, offer *dispatch.Offer) (*dispatch.Offer, error) {
	if err := offer.Validate(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		current, err := b.offers.Get(ctx, offer.ID())
		if err != nil {
			return nil, err
		}
		if current.State().IsFinal() {
			return current, nil
		}

		now := b.clock()
		if current.IsExpiredAt(now) {
			expired, expireErr := b.expire(ctx, current, now)
			if expireErr != nil {
				return nil, expireErr
			}
			if expired != nil {
				return expired, nil
			}
			// Lost the race to a response or to the sweeper; re-read at once.
			timer.Reset(0)
			continue
		}

		timer.Reset(min(b.interval, current.Deadline().Sub(now)))
	}
}

// expire times the offer out. It returns nil without error when another writer
// resolved the offer first.
func (b *PollingBroker) expire(ctx context.Context, offer *dispatch.Offer, now time.Time) (*dispatch.Offer, error) {
	if err := offer.Expire(now); err != nil {
		return nil, err
	}
	err := b.offers.Resolve(ctx, offer, dispatch.Offered)
	if errors.Is(err, errs.ErrVersionConflict) {
		b.logger.Debug("offer resolved concurrently", zap.String("offer_id", offer.ID().String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return offer, nil
}
