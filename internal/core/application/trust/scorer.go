package trust

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
)

// RiskReader answers pincode risk reads without failing.
type RiskReader interface {
	Risk(ctx context.Context, code pincode.Code) float64
}

// Scorer computes buyer trust scores against the current risk of the delivery pincode.
type Scorer struct {
	risks      RiskReader
	calculator services.TrustScoreCalculator
	clock      func() time.Time
}

// NewScorer creates a Scorer. A nil clock uses time.Now.
func NewScorer(risks RiskReader, clock func() time.Time) Scorer {
	if clock == nil {
		clock = time.Now
	}
	return Scorer{
		risks:      risks,
		calculator: services.NewTrustScoreCalculator(),
		clock:      clock,
	}
}

// Risk reads the current risk of code, neutral when it cannot be read. Callers
// that score inside a transaction read it before opening one.
func (s Scorer) Risk(ctx context.Context, code pincode.Code) float64 {
	return s.risks.Risk(ctx, code)
}

// ApplyRisk scores b against a risk value the caller already holds, such as the
// record it just wrote in the same transaction, and stores the score on b.
func (s Scorer) ApplyRisk(b *buyer.Buyer, risk float64) float64 {
	now := s.clock()
	b.ApplyScore(s.calculator.Score(b.Profile(now), risk), now)
	return b.TrustScore()
}
