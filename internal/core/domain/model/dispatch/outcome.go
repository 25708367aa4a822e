package dispatch

import (
	"fmt"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// Outcome is the terminal result of a cascade run. A failed outcome is a normal
// value, never an error: the caller decides how to alert on it.
type Outcome struct {
	Success             bool
	FinalStage          Stage
	PartnerID           *kernel.UUID
	PartnerName         string
	EstimatedDeliveryAt *time.Time
	Message             string
}

// Assigned builds a successful outcome with an ETA derived from the stage policy.
func Assigned(stage Stage, partnerID kernel.UUID, partnerName string, at time.Time) Outcome {
	eta := at.UTC().Add(stage.Policy().ETA)
	return Outcome{
		Success:             true,
		FinalStage:          stage,
		PartnerID:           &partnerID,
		PartnerName:         partnerName,
		EstimatedDeliveryAt: &eta,
		Message:             assignedMessage(stage, partnerName),
	}
}

// Unassigned builds a failed outcome.
func Unassigned(stage Stage, message string) Outcome {
	return Outcome{
		FinalStage: stage,
		Message:    message,
	}
}

// NoCandidateMessage describes a stage that found nobody to offer the order to.
func NoCandidateMessage(stage Stage) string {
	policy := stage.Policy()
	if !stage.UsesPartnerDirectory() {
		return fmt.Sprintf("No %s available", policy.Label)
	}
	return fmt.Sprintf("No %s available within %gkm", policy.Label, policy.RadiusKm)
}

func assignedMessage(stage Stage, name string) string {
	switch stage {
	case Mesh:
		return "Assigned to nearby walker: " + name
	case Gig:
		return "Assigned to gig worker: " + name
	case Courier, UnknownStage:
		return "Assigned to " + name
	}
	return "Assigned to " + name
}
