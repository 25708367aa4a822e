package dispatch

// Summary condenses an order's dispatch ledger for status reporting.
type Summary struct {
	TotalAttempts int
	Stages        []Stage
	// Accepted is true when any attempt was accepted.
	Accepted bool
	// FinalStage is the stage of the last attempt, UnknownStage for an empty ledger.
	FinalStage Stage
	Attempts   []Attempt
}

// Summarize builds a Summary from attempts in ledger order.
func Summarize(attempts []Attempt) Summary {
	s := Summary{
		TotalAttempts: len(attempts),
		Stages:        make([]Stage, 0, len(attempts)),
		Attempts:      attempts,
	}
	for _, a := range attempts {
		s.Stages = append(s.Stages, a.Stage())
		s.Accepted = s.Accepted || a.Accepted()
	}
	if n := len(attempts); n > 0 {
		s.FinalStage = attempts[n-1].Stage()
	}
	return s
}
