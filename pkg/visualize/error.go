package visualize

import (
	"errors"
	"fmt"
)

var ErrUnknownFormat = errors.New("unknown diagram format")

// NewUnknownFormatError returns an error for an unsupported diagram format.
func NewUnknownFormatError(format string) error {
	return fmt.Errorf("%w: %q (expected dot or mermaid)", ErrUnknownFormat, format)
}
