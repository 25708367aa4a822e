package trust

// Fail-open sources reported to Metrics.
const (
	SourcePincodeStore = "pincode_store"
	SourceRiskCache    = "risk_cache"
	SourceBuyerStore   = "buyer_store"
)

// Metrics receives trust engine events.
type Metrics interface {
	// ObserveFailOpen counts a read that fell back to a neutral value.
	ObserveFailOpen(source string)
	// ObserveConflictRetry counts a read-modify-write cycle retried after a version conflict.
	ObserveConflictRetry()
}

type nopMetrics struct{}

func (nopMetrics) ObserveFailOpen(string) {}

func (nopMetrics) ObserveConflictRetry() {}
