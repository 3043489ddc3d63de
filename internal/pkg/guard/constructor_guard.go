// Package guard holds the constructor guard used by commands, queries and
// value objects to reject zero values that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built through its constructor. The zero
// value is "not constructed", so embedding a guard makes a literal like
// CancelOrderCommand{} fail validation.
//
// Example:
//
//	type SubmitRatingCommand struct {
//	    orderID kernel.UUID
//	    score   int
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c SubmitRatingCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitRatingCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard flagged as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded value was not built through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
