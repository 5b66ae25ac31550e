// Package legacy exposes the sorted view through a global namespace of computed macros,
// installed by an application initializer. Calls through the namespace are deprecated in favor
// of using package computed directly and log a deprecation notice.
package legacy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/l7mp/computed-sortby/pkg/observe"
)

// Macro creates a derived attribute definition.
type Macro func(sourceKey string, args ...any) (observe.Property, error)

// Namespace is a registry of macros. It is safe for concurrent use.
type Namespace struct {
	name   string
	mu     sync.RWMutex
	macros map[string]Macro
}

// Computed is the global namespace the initializer attaches sortBy to.
var Computed = NewNamespace("computed")

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{name: name, macros: map[string]Macro{}}
}

// Name returns the name of the namespace.
func (n *Namespace) Name() string { return n.name }

// Register adds a macro. Registering a name twice is an error.
func (n *Namespace) Register(name string, m Macro) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.macros[name]; ok {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateMacro, n.name, name)
	}
	n.macros[name] = m
	return nil
}

// Unregister removes a macro, if registered.
func (n *Namespace) Unregister(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.macros, name)
}

// Lookup returns a macro.
func (n *Namespace) Lookup(name string) (Macro, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.macros[name]
	return m, ok
}

// Names returns the registered macro names in sorted order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ret := make([]string, 0, len(n.macros))
	for k := range n.macros {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Call invokes a registered macro.
func (n *Namespace) Call(name, sourceKey string, args ...any) (observe.Property, error) {
	m, ok := n.Lookup(name)
	if !ok {
		return nil, NewUnknownMacroError(n.name, name)
	}
	return m(sourceKey, args...)
}

// SortBy invokes the sortBy macro of the namespace.
func (n *Namespace) SortBy(sourceKey string, args ...any) (observe.Property, error) {
	return n.Call(SortByMacro, sourceKey, args...)
}
