// Package observe is a minimal host framework for derived attributes: classes declare derived
// attributes together with their dependencies, instances cache derived values and invalidate
// them when a dependency changes.
//
// A derived attribute is in one of two states. It is Stale when it was never computed or a
// dependency changed since the last computation, and Fresh otherwise. Reading a Stale
// attribute recomputes it and makes it Fresh, any change of a dependency makes it Stale. All
// notifications are delivered synchronously on the caller's goroutine; objects, lists and
// records must be owned by a single goroutine.
package observe

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"

	"github.com/l7mp/computed-sortby/internal/dag"
	"github.com/l7mp/computed-sortby/pkg/computed"
)

// Property is a derived attribute definition that can be installed on a class.
type Property interface {
	// Dependencies lists the attributes the property is computed from.
	Dependencies() []computed.Dependency
	// Get computes the value on the host.
	Get(host computed.Host) any
	// Set is called on direct assignment. Read-only properties return computed.ErrReadOnly.
	Set(host computed.Host, value any) error
}

var _ Property = &computed.SortedView{}

// ClassOption configures a class.
type ClassOption func(*Class)

// WithLogger sets the logger used by the class and its instances.
func WithLogger(log logr.Logger) ClassOption {
	return func(c *Class) {
		if log.GetSink() != nil {
			c.log = log
		}
	}
}

// Class is a reusable set of derived attribute definitions.
type Class struct {
	name   string
	props  map[string]Property
	order  []string
	graph  *dag.Graph
	sealed bool
	log    logr.Logger
}

// NewClass creates an empty class.
func NewClass(name string, opts ...ClassOption) *Class {
	c := &Class{
		name:  name,
		props: map[string]Property{},
		graph: dag.New(),
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithName("class").WithValues("class", name)
	return c
}

// Define installs a derived attribute and registers its dependencies. Definitions must precede
// the creation of the first instance.
func (c *Class) Define(name string, p Property) error {
	switch {
	case c.sealed:
		return NewClassError(c.name, name, fmt.Errorf("%w: class already has instances",
			ErrInvalidAttribute))
	case name == "" || name == computed.Self:
		return NewClassError(c.name, name, fmt.Errorf("%w: reserved or empty name",
			ErrInvalidAttribute))
	case p == nil:
		return NewClassError(c.name, name, fmt.Errorf("%w: nil property", ErrInvalidAttribute))
	}

	if _, ok := c.props[name]; ok {
		return NewClassError(c.name, name, ErrDuplicateAttribute)
	}

	deps := p.Dependencies()
	for _, d := range deps {
		if d.Key == "" {
			return NewClassError(c.name, name, fmt.Errorf("%w: empty dependency key",
				ErrInvalidAttribute))
		}
		if d.Key == name || c.graph.Reachable(d.Key, name) {
			return NewClassError(c.name, name, fmt.Errorf("%w via %s", ErrDependencyCycle, d.Key))
		}
	}

	c.graph.AddNode(name)
	for _, d := range deps {
		c.graph.AddEdge(name, d.Key)
	}
	c.props[name] = p
	c.order = append(c.order, name)

	c.log.V(2).Info("derived attribute defined", "attribute", name, "dependencies", deps)

	return nil
}

// MustDefine is like Define but panics on error.
func (c *Class) MustDefine(name string, p Property) *Class {
	if err := c.Define(name, p); err != nil {
		panic(err)
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Attributes returns the derived attribute names in definition order.
func (c *Class) Attributes() []string { return slices.Clone(c.order) }

// Property returns the definition of a derived attribute.
func (c *Class) Property(name string) (Property, bool) {
	p, ok := c.props[name]
	return p, ok
}

// Dependencies returns the dependencies declared by a derived attribute.
func (c *Class) Dependencies(name string) []computed.Dependency {
	p, ok := c.props[name]
	if !ok {
		return nil
	}
	return p.Dependencies()
}

// IsDerived reports whether name is a derived attribute of the class.
func (c *Class) IsDerived(name string) bool {
	_, ok := c.props[name]
	return ok
}

// Dependents returns the derived attributes that must be invalidated when the attribute at key
// changes, including transitive ones.
func (c *Class) Dependents(key string) []string {
	if !c.graph.HasNode(key) {
		return nil
	}
	return c.graph.Ancestors(key)
}

// Terminals returns the derived attributes no other derived attribute depends on, in
// definition order.
func (c *Class) Terminals() []string {
	ret := []string{}
	for _, n := range c.graph.Roots() {
		if c.IsDerived(n) {
			ret = append(ret, n)
		}
	}
	return ret
}

// dependentsOfEach returns the derived attributes that depend on the given property of the
// items of the collection at key, plus their transitive dependents.
func (c *Class) dependentsOfEach(key, each string) []string {
	ret := []string{}
	for _, name := range c.order {
		if !slices.Contains(c.props[name].Dependencies(), computed.Dependency{Key: key, Each: each}) {
			continue
		}
		ret = append(ret, name)
		ret = append(ret, c.graph.Ancestors(name)...)
	}
	return ret
}

// Create creates an instance with the given plain attributes. Initial values for derived
// attributes go through the property setter, so read-only attributes are refused.
func (c *Class) Create(attrs map[string]any) (*Object, error) {
	return c.create(nil, attrs)
}

// CreateWithContent creates a proxy instance whose own content is the given list. Derived
// attributes with the computed.Self source key operate on the content.
func (c *Class) CreateWithContent(content *List, attrs map[string]any) (*Object, error) {
	return c.create(content, attrs)
}
