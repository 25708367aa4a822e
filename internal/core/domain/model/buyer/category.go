package buyer

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// Category is the trust band a buyer's score falls into.
type Category int

const (
	// UnknownCategory catches uninitialized values.
	UnknownCategory Category = iota
	// Platinum buyers (score > 0.8) get every payment method.
	Platinum
	// Standard buyers (0.5 < score ≤ 0.8) get COD only against a deposit.
	Standard
	// HighRisk buyers (score ≤ 0.5) are prepaid only.
	HighRisk
)

const (
	platinumThreshold = 0.8
	standardThreshold = 0.5
)

var categoryNames = map[Category]string{
	Platinum: "PLATINUM",
	Standard: "STANDARD",
	HighRisk: "HIGH_RISK",
}

// CategoryOf bands a trust score. Both thresholds are exclusive lower bounds, so a
// score of exactly 0.8 is Standard and exactly 0.5 is HighRisk.
func CategoryOf(score float64) Category {
	switch {
	case score > platinumThreshold:
		return Platinum
	case score > standardThreshold:
		return Standard
	default:
		return HighRisk
	}
}

func (c Category) Validate() error {
	if _, ok := categoryNames[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%d is not a trust category", c))
	}
	return nil
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
