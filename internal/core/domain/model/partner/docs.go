// Package partner models the delivery partners the dispatch cascade matches against.
//
// The package includes:
//   - Partner: directory entry with type, location, availability, status and history
//   - Type: WALKER (mesh stage), BIKE and EV (gig stage)
//   - Status: ACTIVE or INACTIVE account state
package partner
