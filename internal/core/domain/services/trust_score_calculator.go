package services

import (
	"math"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"
)

const (
	deliverySuccessWeight     = 0.6
	pincodeRiskWeight         = 0.3
	accountMaturityWeight     = 0.1
	cancellationPenaltyFactor = 0.05
	newBuyerDeliverySuccess   = 0.5
	daysPerYear               = 365.0
)

// TrustScoreCalculator is a domain service computing the buyer trust score (BTS), the
// bounded estimate of how likely an order from a buyer is to be delivered and kept.
//
// Formula:
//
//	deliverySuccess     = (total - returned) / total, or 0.5 for a buyer with no orders
//	cancellationPenalty = 0.05 · cancelled
//	accountMaturity     = min(ageDays / 365, 1)
//	raw   = 0.6·deliverySuccess - 0.3·pincodeRisk + 0.1·accountMaturity - cancellationPenalty
//	score = clamp(raw, 0, 1)
//
// Example:
//
//	calc := services.NewTrustScoreCalculator()
//	score := calc.Score(buyer.Profile{TotalOrders: 10, ReturnedOrders: 1, AccountAgeDays: 365}, 0.2)
//	// score == 0.58
type TrustScoreCalculator struct{}

// NewTrustScoreCalculator creates a new TrustScoreCalculator instance.
func NewTrustScoreCalculator() TrustScoreCalculator {
	return TrustScoreCalculator{}
}

// Score returns the trust score in [0, 1]. A pincode risk outside [0, 1] is clamped and
// NaN is treated as pincode.DefaultRiskScore.
func (c TrustScoreCalculator) Score(profile buyer.Profile, pincodeRisk float64) float64 {
	deliverySuccess, ok := profile.DeliverySuccessRate()
	if !ok {
		deliverySuccess = newBuyerDeliverySuccess
	}
	cancellationPenalty := float64(max(profile.CancelledOrders, 0)) * cancellationPenaltyFactor
	accountMaturity := math.Min(float64(max(profile.AccountAgeDays, 0))/daysPerYear, 1)

	if math.IsNaN(pincodeRisk) {
		pincodeRisk = pincode.DefaultRiskScore
	}
	pincodeRisk = clamp01(pincodeRisk)

	raw := deliverySuccess*deliverySuccessWeight -
		pincodeRisk*pincodeRiskWeight +
		accountMaturity*accountMaturityWeight -
		cancellationPenalty

	return clamp01(raw)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(v, 1))
}
