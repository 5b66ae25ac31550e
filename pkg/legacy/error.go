package legacy

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMacro     = errors.New("unknown macro")
	ErrDuplicateMacro   = errors.New("macro already registered")
	ErrAlreadyBooted    = errors.New("application already booted")
	ErrInitializerError = errors.New("initializer failed")
)

// NewUnknownMacroError is returned when a macro is not registered in a namespace.
func NewUnknownMacroError(ns, name string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownMacro, ns, name)
}

// NewInitializerError wraps the error of a failed initializer.
func NewInitializerError(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInitializerError, name, err)
}
