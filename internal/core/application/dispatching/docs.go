// Package dispatching runs the delivery-assignment cascade.
//
// A run walks the stages MESH, GIG and COURIER in order. In the two partner stages
// the ranked candidates are claimed one at a time on the partner directory and
// offered the order through an OfferBroker; a declined or expired offer releases the
// claim and moves on to the next candidate until the per-stage offer budget runs out.
// Every step is appended to the dispatch ledger.
//
// Two brokers are provided:
//
//	AutoAcceptBroker   accepts every offer immediately
//	PollingBroker      persists offers and waits for the partner app to answer
package dispatching
