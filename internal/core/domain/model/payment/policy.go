package payment

import (
	"slices"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/buyer"

	"github.com/shopspring/decimal"
)

// Policy is the checkout payment policy for a buyer's trust score.
type Policy struct {
	TrustScore    float64
	Category      buyer.Category
	Methods       []Method
	CommitmentFee decimal.Decimal
	Message       string
}

// Allows reports whether m may be used at checkout.
func (p Policy) Allows(m Method) bool {
	return slices.Contains(p.Methods, m)
}

// CODAvailable reports whether any cash-on-delivery variant is allowed.
func (p Policy) CODAvailable() bool {
	return slices.ContainsFunc(p.Methods, Method.IsCashOnDelivery)
}

// MethodNames returns the wire names of the allowed methods in policy order.
func (p Policy) MethodNames() []string {
	names := make([]string, 0, len(p.Methods))
	for _, m := range p.Methods {
		names = append(names, m.String())
	}
	return names
}
