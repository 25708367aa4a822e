// Package trust keeps buyer trust scores and pincode risk up to date.
//
// Writes are read-modify-write cycles over versioned records. A Serializer runs them
// one at a time per key inside this process and retries the cycle when the version
// check in the store reports that another process got there first.
//
// Reads on the checkout path fail open: when the pincode store or its cache cannot
// answer, the neutral pincode.DefaultRiskScore is used, the failure is logged at WARN
// and counted through Metrics.
package trust
