// Package buyer models the buyer side of the trust engine: the Buyer record with its
// order outcome counters and trust score, the derived Profile the score is computed
// from, and the PLATINUM / STANDARD / HIGH_RISK trust bands.
package buyer
