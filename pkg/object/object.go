// Package object provides uniform access to the properties of the opaque items that are being
// sorted. Items can be observable Records, plain maps, Kubernetes unstructured objects, Go
// structs and slices, or any type implementing Getter.
package object

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// PathSeparator splits the segments of a property path.
const PathSeparator = "."

// ErrNotSettable is returned when a property cannot be set on an item.
var ErrNotSettable = errors.New("property is not settable")

// Unstructured is the generic JSON-like map representation of an item.
type Unstructured = map[string]any

// Getter is implemented by items that resolve their own properties.
type Getter interface {
	Get(key string) (any, bool)
}

// Setter is implemented by items that accept property updates.
type Setter interface {
	Set(key string, value any)
}

// Get returns the value at the dot-separated path in the item and whether the path exists. A
// path that exists but holds no value returns (nil, true).
func Get(item any, path string) (any, bool) {
	cur := item
	for _, seg := range strings.Split(path, PathSeparator) {
		var ok bool
		if cur, ok = child(cur, seg); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set sets the value at the dot-separated path in the item. The container of the last path
// segment must be a Setter or a map[string]any.
func Set(item any, path string, value any) error {
	segs := strings.Split(path, PathSeparator)
	parent := item
	if len(segs) > 1 {
		var ok bool
		parent, ok = Get(item, strings.Join(segs[:len(segs)-1], PathSeparator))
		if !ok {
			return fmt.Errorf("%w: no container for path %q", ErrNotSettable, path)
		}
	}

	key := segs[len(segs)-1]
	switch p := parent.(type) {
	case Setter:
		if isNilPointer(p) {
			return fmt.Errorf("%w: nil container for path %q", ErrNotSettable, path)
		}
		p.Set(key, value)
		return nil
	case Unstructured:
		if p == nil {
			return fmt.Errorf("%w: nil map for path %q", ErrNotSettable, path)
		}
		p[key] = value
		return nil
	case *unstructured.Unstructured:
		if p == nil || p.Object == nil {
			return fmt.Errorf("%w: empty object for path %q", ErrNotSettable, path)
		}
		p.Object[key] = value
		return nil
	default:
		return fmt.Errorf("%w: cannot set %q on a %T", ErrNotSettable, path, parent)
	}
}

func child(v any, key string) (any, bool) {
	switch o := v.(type) {
	case nil:
		return nil, false
	case Getter:
		if isNilPointer(o) {
			return nil, false
		}
		return o.Get(key)
	case Unstructured:
		ret, ok := o[key]
		return ret, ok
	case *unstructured.Unstructured:
		if o == nil {
			return nil, false
		}
		ret, ok := o.Object[key]
		return ret, ok
	}

	return getJSONPath(v, key)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// getJSONPath resolves a single path segment on structs, typed maps and slices.
func getJSONPath(v any, key string) (any, bool) {
	x := jp.R()
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		x = x.N(i)
	case reflect.Struct, reflect.Map:
		x = x.C(key)
	default:
		return nil, false
	}

	values := x.Get(v)
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// ListItems returns pointers to the items of an unstructured list, in order.
func ListItems(list *unstructured.UnstructuredList) []any {
	if list == nil {
		return nil
	}
	ret := make([]any, len(list.Items))
	for i := range list.Items {
		ret[i] = &list.Items[i]
	}
	return ret
}
