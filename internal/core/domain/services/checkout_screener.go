package services

import "time"

// MinHumanCheckout is the fastest checkout still considered human.
const MinHumanCheckout = 30 * time.Second

// CheckoutScreener flags checkouts completed too quickly to be a person.
type CheckoutScreener struct {
	minDuration time.Duration
}

// NewCheckoutScreener creates a screener with the given threshold; a non-positive
// threshold uses MinHumanCheckout.
func NewCheckoutScreener(minDuration time.Duration) CheckoutScreener {
	if minDuration <= 0 {
		minDuration = MinHumanCheckout
	}
	return CheckoutScreener{minDuration: minDuration}
}

// IsSuspicious reports whether a checkout that took d should be held for review.
func (s CheckoutScreener) IsSuspicious(d time.Duration) bool {
	return d < s.minDuration
}

// Threshold is the minimum human checkout duration in effect.
func (s CheckoutScreener) Threshold() time.Duration {
	return s.minDuration
}
