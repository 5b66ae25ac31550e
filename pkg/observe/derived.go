package observe

import (
	"slices"

	"github.com/l7mp/computed-sortby/pkg/computed"
)

// Derived is a read-only derived attribute computed by an arbitrary function.
type Derived struct {
	name string
	deps []computed.Dependency
	fn   func(host computed.Host) any
}

var _ Property = &Derived{}

// NewDerived creates a derived attribute from a compute function and its dependencies.
func NewDerived(name string, fn func(host computed.Host) any, deps ...computed.Dependency) *Derived {
	return &Derived{name: name, deps: slices.Clone(deps), fn: fn}
}

func (d *Derived) Dependencies() []computed.Dependency { return slices.Clone(d.deps) }
func (d *Derived) Get(host computed.Host) any          { return d.fn(host) }
func (d *Derived) Set(computed.Host, any) error        { return computed.NewReadOnlyError(d.name) }
