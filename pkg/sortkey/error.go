package sortkey

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a sort specification is missing or malformed.
var ErrInvalidArgument = errors.New("invalid sort specification")

// NewInvalidArgumentError wraps ErrInvalidArgument with the offending content.
func NewInvalidArgumentError(content string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, content)
}
