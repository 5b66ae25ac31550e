package observe

import (
	"errors"
	"fmt"
)

var (
	// ErrDestroyed is returned when accessing a destroyed object.
	ErrDestroyed = errors.New("object is destroyed")
	// ErrDuplicateAttribute is returned when a class defines the same attribute twice.
	ErrDuplicateAttribute = errors.New("duplicate attribute")
	// ErrDependencyCycle is returned when a derived attribute would depend on itself.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrInvalidAttribute is returned for an unusable attribute name or property.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// NewClassError wraps a class definition error with the class and attribute names.
func NewClassError(class, attr string, err error) error {
	return fmt.Errorf("class %s: attribute %q: %w", class, attr, err)
}
