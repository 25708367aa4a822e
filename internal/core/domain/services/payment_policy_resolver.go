package services

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/payment"

	"github.com/shopspring/decimal"
)

// DefaultCommitmentFee is the COD deposit charged to STANDARD buyers, in rupees.
var DefaultCommitmentFee = decimal.NewFromInt(29)

// PaymentPolicyResolver is a domain service mapping a trust score to the payment
// methods offered at checkout and the COD commitment fee.
//
//	> 0.8        PLATINUM   UPI, CARD, COD, BNPL, NETBANKING, WALLET     fee 0
//	(0.5, 0.8]   STANDARD   UPI, CARD, COD_WITH_DEPOSIT, NETBANKING, WALLET  fee 29
//	≤ 0.5        HIGH_RISK  UPI, CARD, NETBANKING, WALLET                fee 0
type PaymentPolicyResolver struct {
	commitmentFee decimal.Decimal
}

// NewPaymentPolicyResolver creates a resolver charging fee as the STANDARD COD deposit.
// A negative fee falls back to DefaultCommitmentFee.
func NewPaymentPolicyResolver(fee decimal.Decimal) PaymentPolicyResolver {
	if fee.IsNegative() {
		fee = DefaultCommitmentFee
	}
	return PaymentPolicyResolver{commitmentFee: fee}
}

// Methods returns the methods allowed for score, in display order.
func (r PaymentPolicyResolver) Methods(score float64) []payment.Method {
	switch buyer.CategoryOf(score) {
	case buyer.Platinum:
		return []payment.Method{payment.UPI, payment.Card, payment.COD, payment.BNPL, payment.NetBanking, payment.Wallet}
	case buyer.Standard:
		return []payment.Method{payment.UPI, payment.Card, payment.CODWithDeposit, payment.NetBanking, payment.Wallet}
	case buyer.HighRisk, buyer.UnknownCategory:
		return []payment.Method{payment.UPI, payment.Card, payment.NetBanking, payment.Wallet}
	}
	return []payment.Method{payment.UPI, payment.Card, payment.NetBanking, payment.Wallet}
}

// CommitmentFee returns the COD deposit for score. Only STANDARD buyers pay one;
// PLATINUM buyers need none and HIGH_RISK buyers cannot use COD at all.
func (r PaymentPolicyResolver) CommitmentFee(score float64) decimal.Decimal {
	switch buyer.CategoryOf(score) {
	case buyer.Standard:
		return r.commitmentFee
	case buyer.Platinum, buyer.HighRisk, buyer.UnknownCategory:
		return decimal.Zero
	}
	return decimal.Zero
}

// Resolve builds the complete checkout policy for score.
func (r PaymentPolicyResolver) Resolve(score float64) payment.Policy {
	category := buyer.CategoryOf(score)
	fee := r.CommitmentFee(score)

	var message string
	switch {
	case fee.IsPositive():
		message = fmt.Sprintf("COD available with ₹%s commitment fee", fee.StringFixedBank(0))
	case category == buyer.Platinum:
		message = "All payment methods available"
	default:
		message = "COD not available for your account"
	}

	return payment.Policy{
		TrustScore:    score,
		Category:      category,
		Methods:       r.Methods(score),
		CommitmentFee: fee,
		Message:       message,
	}
}
