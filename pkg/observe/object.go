package observe

import (
	"fmt"
	"reflect"

	"github.com/go-logr/logr"

	"github.com/l7mp/computed-sortby/pkg/computed"
)

// State is the cache state of a derived attribute.
type State int

const (
	Stale State = iota
	Fresh
)

func (s State) String() string {
	if s == Fresh {
		return "Fresh"
	}
	return "Stale"
}

// Observable is implemented by items that report changes of their properties, like
// object.Record.
type Observable interface {
	Watch(fn func(key string)) func()
}

type slot struct {
	state State
	value any
}

// binding keeps the watches on the collection stored at a key and on its items.
type binding struct {
	key        string
	each       map[string]bool
	source     any
	listCancel func()
	itemCancel []func()
}

// Object is an instance of a class. It stores plain attributes and caches derived ones.
type Object struct {
	class     *Class
	attrs     map[string]any
	content   *List
	slots     map[string]*slot
	bindings  map[string]*binding
	destroyed bool
	log       logr.Logger
}

var _ computed.Host = &Object{}
var _ computed.Enumerable = &Object{}

func (c *Class) create(content *List, attrs map[string]any) (*Object, error) {
	c.sealed = true

	o := &Object{
		class:    c,
		attrs:    map[string]any{},
		content:  content,
		slots:    map[string]*slot{},
		bindings: map[string]*binding{},
		log:      c.log.WithName("object"),
	}

	for k, v := range attrs {
		if p, ok := c.props[k]; ok {
			if err := p.Set(o, v); err != nil {
				return nil, err
			}
			continue
		}
		if k == computed.Self {
			return nil, fmt.Errorf("%w: %q cannot be set", ErrInvalidAttribute, k)
		}
		o.attrs[k] = v
	}

	for _, name := range c.order {
		o.slots[name] = &slot{state: Stale}
		for _, d := range c.props[name].Dependencies() {
			b, ok := o.bindings[d.Key]
			if !ok {
				b = &binding{key: d.Key, each: map[string]bool{}}
				o.bindings[d.Key] = b
			}
			if d.Each != "" {
				b.each[d.Each] = true
			}
		}
	}

	// derived sources are bound when they are first computed
	for key, b := range o.bindings {
		if !c.IsDerived(key) {
			o.rebind(b, o.source(key))
		}
	}

	o.log.V(2).Info("object created", "attributes", len(o.attrs), "derived", len(o.slots))

	return o, nil
}

// Get returns an attribute. Derived attributes are recomputed if Stale. Unset plain attributes
// are nil.
func (o *Object) Get(key string) (any, error) {
	if o.destroyed {
		return nil, ErrDestroyed
	}

	if key == computed.Self {
		return o, nil
	}

	p, ok := o.class.props[key]
	if !ok {
		return o.attrs[key], nil
	}

	s := o.slots[key]
	if s.state == Fresh {
		return s.value, nil
	}

	o.log.V(4).Info("recomputing", "attribute", key)
	s.value = p.Get(o)
	s.state = Fresh
	if b, ok := o.bindings[key]; ok {
		o.rebind(b, s.value)
	}

	return s.value, nil
}

// Set assigns an attribute. Assigning a derived attribute calls its property setter, which
// fails with computed.ErrReadOnly for read-only properties.
func (o *Object) Set(key string, value any) error {
	if o.destroyed {
		return ErrDestroyed
	}

	if key == computed.Self {
		return fmt.Errorf("%w: %q cannot be set", ErrInvalidAttribute, key)
	}

	if p, ok := o.class.props[key]; ok {
		if err := p.Set(o, value); err != nil {
			o.log.V(2).Info("refused to set derived attribute", "attribute", key, "error", err.Error())
			return err
		}
		o.markStale(key)
		o.invalidate(key)
		return nil
	}

	o.attrs[key] = value
	if b, ok := o.bindings[key]; ok {
		o.rebind(b, value)
	}
	o.invalidate(key)

	return nil
}

// Notify tells the object that the plain attribute at key changed behind its back, e.g., a map
// was modified in place.
func (o *Object) Notify(key string) {
	if o.destroyed {
		return
	}
	if b, ok := o.bindings[key]; ok && !o.class.IsDerived(key) {
		o.rebind(b, o.source(key))
	}
	o.invalidate(key)
}

// Content returns the content of a proxy object, nil otherwise.
func (o *Object) Content() *List { return o.content }

// SetContent replaces the content of the object.
func (o *Object) SetContent(content *List) error {
	if o.destroyed {
		return ErrDestroyed
	}
	o.content = content
	o.Notify(computed.Self)
	return nil
}

// Items returns the content of a proxy object, nil otherwise.
func (o *Object) Items() []any {
	if o.content == nil {
		return nil
	}
	return o.content.Items()
}

// State returns the cache state of a derived attribute.
func (o *Object) State(key string) State {
	if s, ok := o.slots[key]; ok {
		return s.state
	}
	return Stale
}

// IsFresh is a shortcut for State(key) == Fresh.
func (o *Object) IsFresh(key string) bool { return o.State(key) == Fresh }

// Class returns the class of the object.
func (o *Object) Class() *Class { return o.class }

// Destroy releases all watches and cached values. Destroyed objects refuse access.
func (o *Object) Destroy() {
	if o.destroyed {
		return
	}
	for _, b := range o.bindings {
		b.unbind()
	}
	for _, s := range o.slots {
		s.state, s.value = Stale, nil
	}
	o.destroyed = true
	o.log.V(2).Info("object destroyed")
}

func (o *Object) source(key string) any {
	if key == computed.Self {
		if o.content == nil {
			return nil
		}
		return o.content
	}
	return o.attrs[key]
}

// invalidate marks every derived attribute depending on key Stale.
func (o *Object) invalidate(key string) {
	for _, name := range o.class.Dependents(key) {
		o.markStale(name)
	}
}

// invalidateEach marks the derived attributes depending on a property of the items at key Stale.
func (o *Object) invalidateEach(key, each string) {
	for _, name := range o.class.dependentsOfEach(key, each) {
		o.markStale(name)
	}
}

func (o *Object) markStale(name string) {
	s, ok := o.slots[name]
	if !ok || s.state == Stale {
		return
	}
	o.log.V(4).Info("invalidated", "attribute", name)
	s.state, s.value = Stale, nil
}

func (o *Object) rebind(b *binding, value any) {
	b.unbind()
	b.source = value

	if l, ok := value.(*List); ok && l != nil {
		b.listCancel = l.Watch(func(e Event) {
			o.log.V(8).Info("collection changed", "key", b.key, "event", e.Type, "index", e.Index)
			o.watchItems(b)
			o.invalidate(b.key)
		})
	}
	o.watchItems(b)
}

func (o *Object) watchItems(b *binding) {
	for _, cancel := range b.itemCancel {
		cancel()
	}
	b.itemCancel = nil

	if len(b.each) == 0 {
		return
	}

	items, _ := computed.AsItems(b.source)
	for _, item := range items {
		obs, ok := item.(Observable)
		if !ok || isNilPointer(obs) {
			continue
		}
		b.itemCancel = append(b.itemCancel, obs.Watch(func(prop string) {
			if !b.each[prop] {
				return
			}
			o.log.V(8).Info("item changed", "key", b.key, "property", prop)
			o.invalidateEach(b.key, prop)
		}))
	}
}

func (b *binding) unbind() {
	if b.listCancel != nil {
		b.listCancel()
		b.listCancel = nil
	}
	for _, cancel := range b.itemCancel {
		cancel()
	}
	b.itemCancel = nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
