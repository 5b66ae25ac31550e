package computed

import (
	"errors"
	"fmt"

	"github.com/l7mp/computed-sortby/pkg/sortkey"
)

// ErrInvalidArgument is returned at definition time for a malformed sorted view definition.
var ErrInvalidArgument = sortkey.ErrInvalidArgument

// ErrReadOnly is returned on any attempt to assign a derived attribute directly.
var ErrReadOnly = errors.New("read-only derived attribute")

// NewInvalidArgumentError wraps ErrInvalidArgument with the offending content.
func NewInvalidArgumentError(content string) error {
	return sortkey.NewInvalidArgumentError(content)
}

// NewReadOnlyError reports an attempted assignment of a derived attribute.
func NewReadOnlyError(view string) error {
	return fmt.Errorf("%w: cannot set %s", ErrReadOnly, view)
}
