// Package courier models the national courier registry used by the COURIER stage of
// the dispatch cascade.
//
// Key business rules:
//   - Only ACTIVE couriers are selectable
//   - Selection is by historical success rate alone, ties broken by the lowest ID
//   - There is no distance factor; couriers cover the whole country
package courier
