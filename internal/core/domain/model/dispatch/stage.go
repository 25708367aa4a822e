package dispatch

import (
	"fmt"
	"math"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// Stage is one tier of the dispatch cascade. Stages run strictly in order:
//
//	Mesh ──> Gig ──> Courier
//
// Mesh pings walkers in the immediate neighbourhood, Gig escalates to motorised gig
// riders, Courier hands the order to a national courier network.
type Stage int

const (
	// UnknownStage catches uninitialized values.
	UnknownStage Stage = iota
	// Mesh is the neighbourhood walker stage.
	Mesh
	// Gig is the bike and EV rider stage.
	Gig
	// Courier is the national courier stage.
	Courier
)

// Policy holds the matching parameters of a stage.
type Policy struct {
	// Types lists the partner types the stage searches. Empty for Courier.
	Types []partner.Type
	// RadiusKm bounds the pickup distance. +Inf for Courier.
	RadiusKm float64
	// ETA is added to the assignment time to estimate delivery.
	ETA time.Duration
	// OfferTimeout is how long an offered partner has to respond. Zero for Courier.
	OfferTimeout time.Duration
	// Label is the human description used in outcome messages.
	Label string
}

var stageNames = map[Stage]string{
	Mesh:    "MESH",
	Gig:     "GIG",
	Courier: "COURIER",
}

// Stages returns the cascade order.
func Stages() []Stage {
	return []Stage{Mesh, Gig, Courier}
}

// Policy returns the matching parameters of s. Unknown stages get the zero Policy.
func (s Stage) Policy() Policy {
	switch s {
	case Mesh:
		return Policy{
			Types:        []partner.Type{partner.Walker},
			RadiusKm:     1.5,
			ETA:          45 * time.Minute,
			OfferTimeout: 180 * time.Second,
			Label:        "walkers",
		}
	case Gig:
		return Policy{
			Types:        []partner.Type{partner.Bike, partner.EV},
			RadiusKm:     10,
			ETA:          90 * time.Minute,
			OfferTimeout: 15 * time.Minute,
			Label:        "gig workers",
		}
	case Courier:
		return Policy{
			RadiusKm: math.Inf(1),
			ETA:      48 * time.Hour,
			Label:    "courier partners",
		}
	case UnknownStage:
		return Policy{}
	}
	return Policy{}
}

// Next returns the stage to escalate to. ok is false after Courier.
func (s Stage) Next() (next Stage, ok bool) {
	switch s {
	case Mesh:
		return Gig, true
	case Gig:
		return Courier, true
	case Courier, UnknownStage:
		return UnknownStage, false
	}
	return UnknownStage, false
}

// UsesPartnerDirectory reports whether the stage matches partners from the directory
// rather than the courier registry.
func (s Stage) UsesPartnerDirectory() bool {
	return s == Mesh || s == Gig
}

// ParseStage converts "MESH", "GIG" or "COURIER" to a Stage.
func ParseStage(s string) (Stage, error) {
	for st, name := range stageNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStage, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a dispatch stage", s))
}

func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a dispatch stage", s))
	}
	return nil
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
