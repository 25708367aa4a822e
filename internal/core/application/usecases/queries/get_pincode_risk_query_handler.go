package queries

import (
	"context"
	"errors"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"

	"go.uber.org/zap"
)

// PincodeRiskView is the read model of a pincode's risk.
type PincodeRiskView struct {
	Pincode   pincode.Code
	RiskScore float64
	Category  pincode.RiskCategory
	// HasHistory is false for a pincode with no recorded outcome; the score is
	// then pincode.DefaultRiskScore and the counters are zero.
	HasHistory        bool
	TotalOrders       int
	ReturnedOrders    int
	CancelledOrders   int
	ReturnRatePercent float64
	LastUpdated       *time.Time
}

// GetPincodeRiskQueryHandler reads the stored record. A store failure yields the
// same neutral view as an unknown pincode and is logged at WARN.
type GetPincodeRiskQueryHandler struct {
	risks   RiskLookup
	logger  *zap.Logger
	metrics trust.Metrics
}

func NewGetPincodeRiskQueryHandler(risks RiskLookup, logger *zap.Logger, metrics trust.Metrics) GetPincodeRiskQueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noMetrics{}
	}
	return GetPincodeRiskQueryHandler{
		risks:   risks,
		logger:  logger.With(zap.String("component", "pincode_risk_query")),
		metrics: metrics,
	}
}

func (h GetPincodeRiskQueryHandler) Handle(ctx context.Context, query GetPincodeRiskQuery) (PincodeRiskView, error) {
	if err := query.Validate(); err != nil {
		return PincodeRiskView{}, err
	}

	risk, err := h.risks.Lookup(ctx, query.Pincode())
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			h.metrics.ObserveFailOpen(trust.SourcePincodeStore)
			h.logger.Warn("pincode risk read failed, using default",
				zap.Stringer("pincode", query.Pincode()),
				zap.Error(err),
			)
		}
		return PincodeRiskView{
			Pincode:   query.Pincode(),
			RiskScore: pincode.DefaultRiskScore,
			Category:  pincode.RiskCategoryOf(pincode.DefaultRiskScore),
		}, nil
	}

	lastUpdated := risk.LastUpdated()
	return PincodeRiskView{
		Pincode:           risk.Code(),
		RiskScore:         risk.RiskScore(),
		Category:          risk.Category(),
		HasHistory:        true,
		TotalOrders:       risk.TotalOrders(),
		ReturnedOrders:    risk.ReturnedOrders(),
		CancelledOrders:   risk.CancelledOrders(),
		ReturnRatePercent: risk.ReturnRate() * 100,
		LastUpdated:       &lastUpdated,
	}, nil
}
