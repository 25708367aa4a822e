package trust

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/core/ports"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PincodeRiskTracker maintains the rolling return and cancellation record of each
// delivery pincode and answers risk reads for the trust score.
//
// Reads go through the RiskCache; concurrent misses for one pincode share a single
// store read and only fill an empty entry. Writes happen inside the caller's unit of
// work through Apply, and the caller overwrites the entry with Remember once the
// transaction has committed.
//
// Example:
//
//	risk := tracker.Risk(ctx, pincode.MustParse("560001")) // 0.5 for an unknown pincode
type PincodeRiskTracker struct {
	uowFactory ports.UnitOfWorkFactory
	cache      RiskCache
	reads      singleflight.Group
	logger     *zap.Logger
	metrics    Metrics
}

// NewPincodeRiskTracker creates a tracker. cache, logger and metrics may be nil.
func NewPincodeRiskTracker(
	uowFactory ports.UnitOfWorkFactory,
	cache RiskCache,
	logger *zap.Logger,
	metrics Metrics,
) *PincodeRiskTracker {
	if cache == nil {
		cache = nopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &PincodeRiskTracker{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger.With(zap.String("component", "pincode_risk_tracker")),
		metrics:    metrics,
	}
}

// Risk returns the current risk score of code. Unknown pincodes and failed reads
// yield pincode.DefaultRiskScore.
func (t *PincodeRiskTracker) Risk(ctx context.Context, code pincode.Code) float64 {
	if code.Validate() != nil {
		return pincode.DefaultRiskScore
	}

	score, ok, err := t.cache.Get(ctx, code)
	switch {
	case err != nil:
		t.failOpen(SourceRiskCache, code, err)
	case ok:
		return score
	}

	v, err, _ := t.reads.Do(code.String(), func() (any, error) {
		return t.load(ctx, code)
	})
	if err != nil {
		t.failOpen(SourcePincodeStore, code, err)
		return pincode.DefaultRiskScore
	}
	return v.(float64)
}

// Lookup returns the stored record of code.
// Returns errs.ErrObjectNotFound for a pincode without history.
func (t *PincodeRiskTracker) Lookup(ctx context.Context, code pincode.Code) (*pincode.Risk, error) {
	if err := code.Validate(); err != nil {
		return nil, err
	}
	return t.uowFactory.Create().PincodeRiskRepository().Get(ctx, code)
}

// Apply counts one order outcome for code in repo, creating the record on its first
// outcome. A record created concurrently by another process surfaces as
// errs.ErrVersionConflict; running Apply again turns it into an update.
func (t *PincodeRiskTracker) Apply(
	ctx context.Context,
	repo ports.PincodeRiskRepository,
	code pincode.Code,
	wasReturned, wasCancelled bool,
	at time.Time,
) (*pincode.Risk, error) {
	risk, err := repo.Get(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		risk, err = pincode.NewRisk(code, wasReturned, wasCancelled, at)
		if err != nil {
			return nil, err
		}
		if err = repo.Create(ctx, risk); err != nil {
			return nil, err
		}
		return risk, nil
	}
	if err != nil {
		return nil, err
	}

	if err = risk.Record(wasReturned, wasCancelled, at); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, risk); err != nil {
		return nil, err
	}
	return risk, nil
}

// Remember puts a committed score into the cache. A cache failure drops the entry
// instead so that readers go back to the store.
func (t *PincodeRiskTracker) Remember(ctx context.Context, risk *pincode.Risk) {
	if err := t.cache.Set(ctx, risk.Code(), risk.RiskScore()); err != nil {
		t.logger.Warn("risk cache write failed", zap.Stringer("pincode", risk.Code()), zap.Error(err))
		if err = t.cache.Delete(ctx, risk.Code()); err != nil {
			t.logger.Warn("risk cache eviction failed", zap.Stringer("pincode", risk.Code()), zap.Error(err))
		}
	}
}

func (t *PincodeRiskTracker) load(ctx context.Context, code pincode.Code) (float64, error) {
	risk, err := t.Lookup(ctx, code)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return pincode.DefaultRiskScore, nil
	}
	if err != nil {
		return 0, err
	}

	if err = t.cache.Fill(ctx, code, risk.RiskScore()); err != nil {
		t.logger.Warn("risk cache write failed", zap.Stringer("pincode", code), zap.Error(err))
	}
	return risk.RiskScore(), nil
}

func (t *PincodeRiskTracker) failOpen(source string, code pincode.Code, err error) {
	t.metrics.ObserveFailOpen(source)
	t.logger.Warn("pincode risk read failed, using default",
		zap.String("source", source),
		zap.Stringer("pincode", code),
		zap.Float64("default", pincode.DefaultRiskScore),
		zap.Error(err),
	)
}
