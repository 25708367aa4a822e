package queries

import (
	"context"
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/payment"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// PaymentMethodsView is the checkout policy resolved for one buyer.
type PaymentMethodsView struct {
	BuyerID kernel.UUID
	payment.Policy
	// FailedOpen is set when the buyer store could not be read and the
	// neutral score was used instead.
	FailedOpen bool
}

// GetPaymentMethodsQueryHandler resolves the payment policy from the stored score.
//
// An unknown buyer is an error. Any other buyer store failure falls back to
// buyer.DefaultTrustScore, is logged at WARN and counted as a fail-open event.
type GetPaymentMethodsQueryHandler struct {
	buyers   BuyerReader
	resolver services.PaymentPolicyResolver
	logger   *zap.Logger
	metrics  trust.Metrics
}

func NewGetPaymentMethodsQueryHandler(
	buyers BuyerReader,
	resolver services.PaymentPolicyResolver,
	logger *zap.Logger,
	metrics trust.Metrics,
) GetPaymentMethodsQueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noMetrics{}
	}
	return GetPaymentMethodsQueryHandler{
		buyers:   buyers,
		resolver: resolver,
		logger:   logger.With(zap.String("component", "payment_methods_query")),
		metrics:  metrics,
	}
}

func (h GetPaymentMethodsQueryHandler) Handle(
	ctx context.Context,
	query GetPaymentMethodsQuery,
) (PaymentMethodsView, error) {
	if err := query.Validate(); err != nil {
		return PaymentMethodsView{}, err
	}

	b, err := h.buyers.Get(ctx, query.BuyerID())
	switch {
	case err == nil:
		return PaymentMethodsView{
			BuyerID: b.ID(),
			Policy:  h.resolver.Resolve(b.TrustScore()),
		}, nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return PaymentMethodsView{}, err
	}

	h.metrics.ObserveFailOpen(trust.SourceBuyerStore)
	h.logger.Warn("buyer read failed, using default trust score",
		zap.Stringer("buyer_id", query.BuyerID()),
		zap.Float64("default", buyer.DefaultTrustScore),
		zap.Error(err),
	)
	return PaymentMethodsView{
		BuyerID:    query.BuyerID(),
		Policy:     h.resolver.Resolve(buyer.DefaultTrustScore),
		FailedOpen: true,
	}, nil
}

type noMetrics struct{}

func (noMetrics) ObserveFailOpen(string) {}

func (noMetrics) ObserveConflictRetry() {}
