package plugin

import (
	"errors"
	"fmt"
)

// ErrNilPlugin is returned when a nil plugin is passed to Register.
var ErrNilPlugin = errors.New("plugin is nil")

// DuplicateRegistrationError is returned when a plugin id is registered twice.
type DuplicateRegistrationError struct {
	ID string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("plugin '%s' is already registered", e.ID)
}

// Is reports whether target is also a DuplicateRegistrationError.
func (e *DuplicateRegistrationError) Is(target error) bool {
	_, ok := target.(*DuplicateRegistrationError)
	return ok
}

// InitializationError wraps a failure raised by a plugin's Initialize hook.
// It propagates out of the activation batch, which stops at the failing
// plugin; earlier plugins in the batch stay initialized.
type InitializationError struct {
	ID  string
	Err error
}

func (e *InitializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plugin '%s' failed to initialize", e.ID)
	}
	return fmt.Sprintf("plugin '%s' failed to initialize: %v", e.ID, e.Err)
}

// Unwrap returns the underlying initialization failure.
func (e *InitializationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is also an InitializationError.
func (e *InitializationError) Is(target error) bool {
	_, ok := target.(*InitializationError)
	return ok
}

// DisposalError wraps a failure raised by a plugin's Dispose hook. The
// registry logs it and carries on; it never reaches a caller of
// DeactivatePlugin.
type DisposalError struct {
	ID  string
	Err error
}

func (e *DisposalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plugin '%s' failed to dispose", e.ID)
	}
	return fmt.Sprintf("plugin '%s' failed to dispose: %v", e.ID, e.Err)
}

// Unwrap returns the underlying disposal failure.
func (e *DisposalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is also a DisposalError.
func (e *DisposalError) Is(target error) bool {
	_, ok := target.(*DisposalError)
	return ok
}
