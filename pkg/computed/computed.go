// Package computed implements a read-only derived attribute that keeps a stable, multi-key
// sorted copy of a source collection.
//
// A SortedView is a reusable descriptor: it declares the dependencies of the sorted view on
// the host object (the source collection, its membership, and the sorted-on property of each
// item) and supplies the function that recomputes the view. Caching and change detection are
// the job of the host framework, see package observe.
//
// Example:
//
//	sorted, err := computed.SortBy("todos", "priority", "name:desc")
//	...
//	items := sorted.Compute(host)
package computed

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/l7mp/computed-sortby/pkg/compare"
	"github.com/l7mp/computed-sortby/pkg/object"
	"github.com/l7mp/computed-sortby/pkg/sortkey"
)

// Self is the source key meaning that the host object is itself the collection.
const Self = "@this"

// EachMarker separates the collection key from the item property in a dependency string.
const EachMarker = ".@each."

// Host is the object a derived attribute is evaluated on.
type Host interface {
	Get(key string) (any, error)
}

// Enumerable is a collection that can list its current items in iteration order.
type Enumerable interface {
	Items() []any
}

// View is a read-only derived attribute. It has no setter.
type View interface {
	Dependencies() []Dependency
	Get(host Host) any
}

// Dependency declares that a derived attribute must be recomputed whenever the attribute Key
// of the host is reassigned, whenever items are added to, removed from or replaced in the
// collection stored at Key, and, if Each is not empty, whenever the Each property of any item
// of that collection changes.
type Dependency struct {
	Key  string
	Each string
}

// String renders the dependency in "key.@each.prop" form.
func (d Dependency) String() string {
	if d.Each == "" {
		return d.Key
	}
	return d.Key + EachMarker + d.Each
}

// Option configures a SortedView.
type Option func(*SortedView)

// WithComparator overrides the generic value comparator.
func WithComparator(c compare.Comparator) Option {
	return func(v *SortedView) {
		if c != nil {
			v.cmp = c
		}
	}
}

// WithLogger sets the logger of the view.
func WithLogger(log logr.Logger) Option {
	return func(v *SortedView) {
		if log.GetSink() != nil {
			v.log = log
		}
	}
}

// SortedView is the descriptor of a sorted derived attribute.
type SortedView struct {
	sourceKey string
	spec      sortkey.Spec
	deps      []Dependency
	cmp       compare.Comparator
	log       logr.Logger
}

var _ View = &SortedView{}

// New creates a sorted view of the collection at sourceKey from a parsed sort specification.
func New(sourceKey string, spec sortkey.Spec, opts ...Option) (*SortedView, error) {
	if sourceKey == "" {
		return nil, NewInvalidArgumentError("empty source key")
	}
	if spec.IsEmpty() {
		return nil, NewInvalidArgumentError(fmt.Sprintf("no sort keys for source %q", sourceKey))
	}

	v := &SortedView{
		sourceKey: sourceKey,
		spec:      spec,
		cmp:       compare.Compare,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.WithName("sortby").WithValues("source", sourceKey, "sort", spec.String())

	seen := map[string]bool{}
	for _, k := range spec.Keys() {
		if seen[k.Head()] {
			continue
		}
		seen[k.Head()] = true
		v.deps = append(v.deps, Dependency{Key: sourceKey, Each: k.Head()})
	}

	v.log.V(2).Info("sorted view defined", "dependencies", v.deps)

	return v, nil
}

// SortBy defines a sorted view of the collection at sourceKey, sorted by one or more sort
// definitions of the form "prop" or "prop:desc".
func SortBy(sourceKey string, keys ...string) (*SortedView, error) {
	spec, err := sortkey.ParseStrings(keys...)
	if err != nil {
		return nil, err
	}
	return New(sourceKey, spec)
}

// SortByArgs is like SortBy but takes untyped arguments, all of which must be strings.
func SortByArgs(sourceKey string, args ...any) (*SortedView, error) {
	spec, err := sortkey.Parse(args...)
	if err != nil {
		return nil, err
	}
	return New(sourceKey, spec)
}

// SortByList defines a sorted view from a single sort definition string or a list of them.
func SortByList(sourceKey string, arg any) (*SortedView, error) {
	spec, err := sortkey.ParseList(arg)
	if err != nil {
		return nil, err
	}
	return New(sourceKey, spec)
}

// MustSortBy is like SortBy but panics on error. It simplifies the definition of classes in
// package-level variables.
func MustSortBy(sourceKey string, keys ...string) *SortedView {
	v, err := SortBy(sourceKey, keys...)
	if err != nil {
		panic(err)
	}
	return v
}

// SourceKey returns the key of the source collection, or Self.
func (v *SortedView) SourceKey() string { return v.sourceKey }

// Spec returns the sort specification.
func (v *SortedView) Spec() sortkey.Spec { return v.spec }

// Dependencies returns the dependency declarations of the view, one per distinct sorted-on
// property.
func (v *SortedView) Dependencies() []Dependency { return slices.Clone(v.deps) }

// Get implements View.
func (v *SortedView) Get(host Host) any { return v.Compute(host) }

// Set implements the read-only guard: it always fails.
func (v *SortedView) Set(_ Host, _ any) error { return NewReadOnlyError(v.String()) }

// ReadOnly is always true for sorted views.
func (v *SortedView) ReadOnly() bool { return true }

func (v *SortedView) String() string {
	return fmt.Sprintf("sortBy(%s, %s)", v.sourceKey, v.spec.String())
}

// Compute resolves the source collection on the host and returns a new, stably sorted slice
// of its items. An absent source or a source that is not a collection yields an empty slice.
func (v *SortedView) Compute(host Host) []any {
	items, ok := v.resolve(host)
	if !ok {
		v.log.V(8).Info("no source collection, returning empty list")
		return []any{}
	}

	ret := SortWith(v.cmp, items, v.spec)
	v.log.V(8).Info("sorted view recomputed", "items", len(ret))
	return ret
}

func (v *SortedView) resolve(host Host) ([]any, bool) {
	var src any = host
	if v.sourceKey != Self {
		if host == nil {
			return nil, false
		}
		var err error
		if src, err = host.Get(v.sourceKey); err != nil {
			v.log.V(4).Info("source lookup failed", "error", err.Error())
			return nil, false
		}
	}

	return AsItems(src)
}

// AsItems returns the items of a collection value in iteration order. Collections are
// Enumerables, unstructured lists and Go slices or arrays. The returned slice may alias the
// collection, callers must copy it before reordering.
func AsItems(src any) ([]any, bool) {
	switch c := src.(type) {
	case nil:
		return nil, false
	case Enumerable:
		if reflect.ValueOf(c).Kind() == reflect.Pointer && reflect.ValueOf(c).IsNil() {
			return nil, false
		}
		return c.Items(), true
	case []any:
		if c == nil {
			return nil, false
		}
		return c, true
	case *unstructured.UnstructuredList:
		if c == nil {
			return nil, false
		}
		return object.ListItems(c), true
	}

	rv := reflect.ValueOf(src)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Slice:
		if rv.IsNil() {
			return nil, false
		}
		fallthrough
	case reflect.Array:
		ret := make([]any, rv.Len())
		for i := range ret {
			ret[i] = rv.Index(i).Interface()
		}
		return ret, true
	}

	return nil, false
}
