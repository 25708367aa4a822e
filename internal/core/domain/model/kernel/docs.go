// Package kernel provides the shared value objects of the nccart domain.
//
// The package includes:
//   - UUID: identifier value object for partners, orders, buyers, attempts and offers
//   - Location: a validated WGS84 coordinate with haversine distance in kilometres
//
// Both are immutable; their zero values fail Validate so that "never set" is always
// distinguishable from a real value.
package kernel
