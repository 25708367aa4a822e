package queries

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/services"
)

type SuspiciousCheckoutView struct {
	BuyerID      kernel.UUID
	CheckoutTime time.Duration
	Threshold    time.Duration
	Suspicious   bool
}

// DetectSuspiciousCheckoutQueryHandler screens checkout timings.
type DetectSuspiciousCheckoutQueryHandler struct {
	screener services.CheckoutScreener
}

func NewDetectSuspiciousCheckoutQueryHandler(screener services.CheckoutScreener) DetectSuspiciousCheckoutQueryHandler {
	return DetectSuspiciousCheckoutQueryHandler{screener: screener}
}

func (h DetectSuspiciousCheckoutQueryHandler) Handle(query DetectSuspiciousCheckoutQuery) (SuspiciousCheckoutView, error) {
	if err := query.Validate(); err != nil {
		return SuspiciousCheckoutView{}, err
	}
	return SuspiciousCheckoutView{
		BuyerID:      query.BuyerID(),
		CheckoutTime: query.CheckoutTime(),
		Threshold:    h.screener.Threshold(),
		Suspicious:   h.screener.IsSuspicious(query.CheckoutTime()),
	}, nil
}
