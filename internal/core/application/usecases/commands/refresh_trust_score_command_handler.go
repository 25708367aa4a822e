package commands

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// RefreshTrustScoreResult is the stored score and its band.
type RefreshTrustScoreResult struct {
	TrustScore float64
	Category   buyer.Category
	// FailedOpen is set when the buyer store failed and the neutral score was
	// returned without being stored.
	FailedOpen bool
}

// RefreshTrustScoreCommandHandler rescores a buyer and persists the score with its
// timestamp. The pincode risk is read fail-open before the transaction opens, so an
// unreachable risk store scores the buyer against the neutral 0.5.
//
// An unknown buyer and exhausted conflict retries are errors. Any other buyer store
// failure returns buyer.DefaultTrustScore, is logged at WARN and counted as a
// fail-open event.
type RefreshTrustScoreCommandHandler struct {
	uowFactory BuyerUoWFactory
	serializer KeySerializer
	scorer     TrustScorer
	logger     *zap.Logger
	metrics    trust.Metrics
}

// NewRefreshTrustScoreCommandHandler creates the handler. logger and metrics may be nil.
func NewRefreshTrustScoreCommandHandler(
	uowFactory BuyerUoWFactory,
	serializer KeySerializer,
	scorer TrustScorer,
	logger *zap.Logger,
	metrics trust.Metrics,
) RefreshTrustScoreCommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return RefreshTrustScoreCommandHandler{
		uowFactory: uowFactory,
		serializer: serializer,
		scorer:     scorer,
		logger:     logger.With(zap.String("component", "refresh_trust_score")),
		metrics:    metrics,
	}
}

func (h RefreshTrustScoreCommandHandler) Handle(
	ctx context.Context,
	command RefreshTrustScoreCommand,
) (RefreshTrustScoreResult, error) {
	if err := command.Validate(); err != nil {
		return RefreshTrustScoreResult{}, err
	}

	risk := h.scorer.Risk(ctx, command.Pincode())

	var result RefreshTrustScoreResult
	err := h.serializer.Do(ctx, []string{trust.BuyerKey(command.BuyerID())}, func(ctx context.Context) error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		buyers := uow.BuyerRepository()
		b, err := buyers.Get(ctx, command.BuyerID())
		if err != nil {
			return err
		}

		score := h.scorer.ApplyRisk(b, risk)
		if err = buyers.Update(ctx, b); err != nil {
			return err
		}
		if err = uow.Commit(ctx); err != nil {
			return err
		}

		result = RefreshTrustScoreResult{TrustScore: score, Category: b.Category()}
		return nil
	})
	if err == nil {
		return result, nil
	}
	if !isStoreFailure(ctx, err) {
		return RefreshTrustScoreResult{}, err
	}

	h.metrics.ObserveFailOpen(trust.SourceBuyerStore)
	h.logger.Warn("buyer store failed, returning default trust score",
		zap.Stringer("buyer_id", command.BuyerID()),
		zap.Float64("default", buyer.DefaultTrustScore),
		zap.Error(err),
	)
	return RefreshTrustScoreResult{
		TrustScore: buyer.DefaultTrustScore,
		Category:   buyer.CategoryOf(buyer.DefaultTrustScore),
		FailedOpen: true,
	}, nil
}

// isStoreFailure reports whether err is an infrastructure failure rather than a
// missing record, a lost conflict race or a cancelled request.
func isStoreFailure(ctx context.Context, err error) bool {
	switch {
	case ctx.Err() != nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, trust.ErrRetriesExhausted):
		return false
	}
	return true
}

type nopMetrics struct{}

func (nopMetrics) ObserveFailOpen(string) {}

func (nopMetrics) ObserveConflictRetry() {}
