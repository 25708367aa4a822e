package dispatching

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
)

// Metrics receives cascade observations.
type Metrics interface {
	ObserveAttempt(stage dispatch.Stage, accepted bool)
	ObserveOffer(stage dispatch.Stage, state dispatch.OfferState)
	ObserveOutcome(outcome dispatch.Outcome, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveAttempt(dispatch.Stage, bool) {}

func (nopMetrics) ObserveOffer(dispatch.Stage, dispatch.OfferState) {}

func (nopMetrics) ObserveOutcome(dispatch.Outcome, time.Duration) {}
