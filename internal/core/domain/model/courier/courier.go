package courier

import (
	"errors"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDisplayNameIsRequired is returned when attempting to create a courier without a display name.
	ErrDisplayNameIsRequired = errs.NewValueIsRequiredError("displayName")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier")
)

// Courier is a national courier network registered as the last-resort stage of the
// dispatch cascade. Couriers are not geofenced: the cascade picks the ACTIVE courier
// with the highest historical success rate.
//
// Business rules:
//   - ID must be valid, name and display name non-empty
//   - Success rate is a fraction within [0, 1]
//   - Status is ACTIVE or INACTIVE
//
// Example usage:
//
//	c, err := courier.NewCourier(kernel.NewUUID(), "bluedart", "Blue Dart Express", 0.94)
//	if err != nil {
//	    // Handle construction error
//	}
type Courier struct {
	id          kernel.UUID
	name        string
	displayName string
	status      partner.Status
	successRate float64
	guard       guard.ConstructorGuard
}

// NewCourier registers an ACTIVE courier.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Machine name used by integrations (must be non-empty)
//   - displayName: Name shown to buyers and returned as the assigned partner name
//   - successRate: Historical on-time delivery fraction in [0, 1]
//
// Returns:
//   - *Courier: A courier ready to be ranked
//   - error: Validation errors, joined
func NewCourier(id kernel.UUID, name, displayName string, successRate float64) (*Courier, error) {
	return RestoreCourier(id, name, displayName, partner.Active, successRate)
}

// RestoreCourier reconstructs a Courier from the courier registry.
func RestoreCourier(
	id kernel.UUID,
	name string,
	displayName string,
	status partner.Status,
	successRate float64,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setDisplayName(displayName),
		c.setStatus(status),
		c.setSuccessRate(successRate),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// IsEqual compares two couriers by ID.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) DisplayName() string {
	return c.displayName
}

func (c *Courier) Status() partner.Status {
	return c.status
}

func (c *Courier) IsActive() bool {
	return c.status == partner.Active
}

func (c *Courier) SuccessRate() float64 {
	return c.successRate
}

// Best returns the ACTIVE courier with the highest success rate, breaking ties by the
// lowest ID. It returns nil when no active courier is present.
func Best(couriers []*Courier) *Courier {
	var best *Courier
	for _, c := range couriers {
		if c == nil || !c.IsActive() {
			continue
		}
		if best == nil ||
			c.successRate > best.successRate ||
			(c.successRate == best.successRate && c.id.Less(best.id)) {
			best = c
		}
	}
	return best
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setDisplayName(displayName string) error {
	if displayName == "" {
		return ErrDisplayNameIsRequired
	}
	c.displayName = displayName
	return nil
}

func (c *Courier) setStatus(status partner.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}

func (c *Courier) setSuccessRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return errs.NewValueIsOutOfRangeError("successRate", rate, 0, 1)
	}
	c.successRate = rate
	return nil
}
