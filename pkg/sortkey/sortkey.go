// Package sortkey parses sort definitions of the form "prop" or "prop:desc" into an ordered
// sort specification.
package sortkey

import (
	"fmt"
	"strings"

	"github.com/l7mp/computed-sortby/pkg/util"
)

const (
	// Separator splits the property path from the direction in a sort definition.
	Separator = ":"
	// PathSeparator splits the segments of a property path.
	PathSeparator = "."
)

// Direction is the order in which a single sort key is applied.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// NewDirection parses a direction suffix, ignoring case. The empty string means Ascending.
func NewDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return Ascending, NewInvalidArgumentError(fmt.Sprintf("unknown sort direction %q", s))
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Key is a single precedence level of a sort: a property path and a direction.
type Key struct {
	Path      string
	Direction Direction
}

// ParseKey parses a sort definition like "lname" or "lname:desc".
func ParseKey(s string) (Key, error) {
	path, dir, found := strings.Cut(s, Separator)
	if found && strings.Contains(dir, Separator) {
		return Key{}, NewInvalidArgumentError(fmt.Sprintf("too many %q separators in %q",
			Separator, s))
	}

	if err := validatePath(path); err != nil {
		return Key{}, NewInvalidArgumentError(fmt.Sprintf("%s in %q", err, s))
	}

	if found && dir == "" {
		return Key{}, NewInvalidArgumentError(fmt.Sprintf("empty sort direction in %q", s))
	}

	d, err := NewDirection(dir)
	if err != nil {
		return Key{}, err
	}

	return Key{Path: path, Direction: d}, nil
}

// Segments returns the dot-separated segments of the property path.
func (k Key) Segments() []string { return strings.Split(k.Path, PathSeparator) }

// Head returns the first segment of the property path.
func (k Key) Head() string { return k.Segments()[0] }

// String renders the key in canonical "path:dir" form.
func (k Key) String() string { return k.Path + Separator + k.Direction.String() }

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty property path")
	}
	for _, seg := range strings.Split(path, PathSeparator) {
		if seg == "" {
			return fmt.Errorf("empty segment in property path %q", path)
		}
	}
	return nil
}

// Spec is an ordered, non-empty list of sort keys. The first key is the primary one.
type Spec struct {
	keys []Key
}

// NewSpec creates a specification from already parsed keys.
func NewSpec(keys ...Key) (Spec, error) {
	if len(keys) == 0 {
		return Spec{}, NewInvalidArgumentError("expected one or more sort keys")
	}
	for _, k := range keys {
		if err := validatePath(k.Path); err != nil {
			return Spec{}, NewInvalidArgumentError(err.Error())
		}
		if k.Direction != Ascending && k.Direction != Descending {
			return Spec{}, NewInvalidArgumentError(fmt.Sprintf("invalid direction %d for key %q",
				int(k.Direction), k.Path))
		}
	}
	return Spec{keys: append([]Key(nil), keys...)}, nil
}

// Keys returns a copy of the sort keys in precedence order.
func (s Spec) Keys() []Key { return append([]Key(nil), s.keys...) }

// Len returns the number of sort keys.
func (s Spec) Len() int { return len(s.keys) }

// IsEmpty is true for the zero Spec.
func (s Spec) IsEmpty() bool { return len(s.keys) == 0 }

func (s Spec) String() string {
	return strings.Join(util.Map(Key.String, s.keys), ",")
}

// Parse parses one or more sort definitions given as separate arguments. Every argument must be
// a string.
func Parse(args ...any) (Spec, error) {
	if len(args) == 0 {
		return Spec{}, NewInvalidArgumentError("expected one or more string arguments")
	}

	keys := make([]Key, 0, len(args))
	for i, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return Spec{}, NewInvalidArgumentError(fmt.Sprintf("argument %d is a %T, "+
				"expected a string: %s", i, arg, util.Stringify(arg)))
		}
		k, err := ParseKey(s)
		if err != nil {
			return Spec{}, err
		}
		keys = append(keys, k)
	}

	return NewSpec(keys...)
}

// ParseStrings is a typed shortcut for Parse.
func ParseStrings(args ...string) (Spec, error) {
	return Parse(util.Map(func(s string) any { return s }, args)...)
}

// ParseList parses a single argument that is either a sort definition string or a non-empty
// list of sort definition strings.
func ParseList(arg any) (Spec, error) {
	switch v := arg.(type) {
	case string:
		return Parse(v)
	case []string:
		if len(v) == 0 {
			return Spec{}, NewInvalidArgumentError("empty sort definition list")
		}
		return ParseStrings(v...)
	case []any:
		if len(v) == 0 {
			return Spec{}, NewInvalidArgumentError("empty sort definition list")
		}
		return Parse(v...)
	default:
		return Spec{}, NewInvalidArgumentError(fmt.Sprintf("expected a string or a list of "+
			"strings, got %T: %s", arg, util.Stringify(arg)))
	}
}
