// Package guard detects domain values that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. Its zero value
// reports "not constructed", so a domain type that embeds it can reject zero
// values such as partner.Partner{} or kernel.Location{}.
//
// Example:
//
//	var ErrLocationNotConstructed = errors.New("Location must be created via NewLocation")
//
//	type Location struct {
//	    guard.ConstructorGuard
//	    lat, lon float64
//	}
//
//	func (l Location) Validate() error {
//	    return l.ConstructorGuard.Validate(ErrLocationNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. Otherwise it returns
// validationError, or ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
