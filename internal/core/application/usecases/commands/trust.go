package commands

import (
	"context"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
)

// Collaborators of the trust command handlers.
type (
	// KeySerializer runs a read-modify-write cycle under per-key locks and retries it
	// on version conflicts.
	KeySerializer interface {
		Do(ctx context.Context, keys []string, cycle func(ctx context.Context) error) error
	}

	// PincodeRiskWriter updates pincode risk records.
	PincodeRiskWriter interface {
		Apply(
			ctx context.Context,
			repo ports.PincodeRiskRepository,
			code pincode.Code,
			wasReturned, wasCancelled bool,
			at time.Time,
		) (*pincode.Risk, error)
		Remember(ctx context.Context, risk *pincode.Risk)
	}

	// TrustScorer computes and stores buyer trust scores.
	TrustScorer interface {
		Risk(ctx context.Context, code pincode.Code) float64
		ApplyRisk(b *buyer.Buyer, risk float64) float64
	}
)
