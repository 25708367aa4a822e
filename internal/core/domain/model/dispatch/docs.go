// Package dispatch models the three-stage delivery assignment cascade.
//
// The package includes:
//   - Stage: MESH, GIG and COURIER with their matching Policy (types, radius, ETA, offer timeout)
//   - Attempt: an immutable, append-only ledger entry per stage attempt
//   - Offer and OfferState: the OFFERED -> ACCEPTED | DECLINED | TIMED_OUT handshake
//   - Outcome: the terminal result of a cascade run
//   - Summary: per-order ledger analytics
//
// Key business rules:
//   - Stages escalate strictly in order and never run in parallel for one order
//   - "No candidate" is a normal escalation signal, not an error
//   - An offer accepts exactly one response, and none at or after its deadline
package dispatch
