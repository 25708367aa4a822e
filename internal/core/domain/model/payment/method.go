package payment

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// Method is the closed set of checkout payment methods.
type Method int

const (
	UnknownMethod Method = iota
	UPI
	Card
	// COD is plain cash on delivery.
	COD
	// CODWithDeposit is cash on delivery against a prepaid commitment fee.
	CODWithDeposit
	// BNPL is deferred "buy now, pay later" payment.
	BNPL
	NetBanking
	Wallet
)

var methodNames = map[Method]string{
	UPI:            "UPI",
	Card:           "CARD",
	COD:            "COD",
	CODWithDeposit: "COD_WITH_DEPOSIT",
	BNPL:           "BNPL",
	NetBanking:     "NETBANKING",
	Wallet:         "WALLET",
}

// ParseMethod converts a wire name such as "COD_WITH_DEPOSIT" to a Method.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return UnknownMethod, errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a payment method", s))
}

func (m Method) Validate() error {
	if _, ok := methodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a payment method", m))
	}
	return nil
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsCashOnDelivery reports whether m settles in cash at the door.
func (m Method) IsCashOnDelivery() bool {
	switch m {
	case COD, CODWithDeposit:
		return true
	case UnknownMethod, UPI, Card, BNPL, NetBanking, Wallet:
		return false
	}
	return false
}
