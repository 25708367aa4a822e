package partner

import (
	"fmt"

	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
)

// Type is the closed set of delivery partner vehicles.
type Type int

const (
	// UnknownType catches uninitialized values.
	UnknownType Type = iota
	// Walker delivers on foot inside the neighbourhood mesh.
	Walker
	// Bike is a motorbike rider from the gig pool.
	Bike
	// EV is an electric-vehicle rider from the gig pool.
	EV
)

var typeNames = map[Type]string{
	Walker: "WALKER",
	Bike:   "BIKE",
	EV:     "EV",
}

// AllTypes lists every valid Type in declaration order.
func AllTypes() []Type {
	return []Type{Walker, Bike, EV}
}

// ParseType converts the wire name ("WALKER", "BIKE", "EV") to a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("partnerType", fmt.Errorf("%q is not a partner type", s))
}

// Validate rejects UnknownType and out-of-range values.
func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("partnerType", fmt.Errorf("%d is not a partner type", t))
	}
	return nil
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Status is the administrative state of a partner account.
type Status int

const (
	// UnknownStatus catches uninitialized values.
	UnknownStatus Status = iota
	// Active partners may be matched.
	Active
	// Inactive partners are excluded from matching regardless of availability.
	Inactive
)

var statusNames = map[Status]string{
	Active:   "ACTIVE",
	Inactive: "INACTIVE",
}

// ParseStatus converts "ACTIVE" or "INACTIVE" to a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a partner status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a partner status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
