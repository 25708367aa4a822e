// Package services provides the pure domain services of dispatch and trust. None of
// them perform I/O; application use cases feed them data read through the ports.
//
// The package includes:
//   - PartnerLocator: eligibility and radius filtering of directory listings
//   - PartnerRanker: composite distance, rating and success-rate ranking
//   - TrustScoreCalculator: the bounded buyer trust score
//   - PaymentPolicyResolver: trust band to payment methods and COD commitment fee
//   - CheckoutScreener: bot-speed checkout detection
package services
