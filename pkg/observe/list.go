package observe

import (
	"fmt"
	"slices"

	"k8s.io/apimachinery/pkg/watch"

	"github.com/l7mp/computed-sortby/pkg/util"
)

// Event describes a change of a List. Index is the position of the change, or -1 if the whole
// content was replaced. Object is the added, removed or replacing item.
type Event struct {
	Type   watch.EventType
	Index  int
	Object any
}

type listWatcher struct {
	id int
	fn func(Event)
}

// List is a live collection: an ordered sequence that notifies its watchers synchronously on
// every insertion, removal and replacement. Lists are not safe for concurrent use.
type List struct {
	items    []any
	watchers []listWatcher
	nextID   int
}

// NewList creates a live list holding the given items.
func NewList(items ...any) *List {
	return &List{items: slices.Clone(items)}
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns the item at index i.
func (l *List) At(i int) any { return l.items[i] }

// Items returns a copy of the current items in order.
func (l *List) Items() []any { return slices.Clone(l.items) }

// FirstObject returns the first item or nil for an empty list.
func (l *List) FirstObject() any {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0]
}

// LastObject returns the last item or nil for an empty list.
func (l *List) LastObject() any {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[len(l.items)-1]
}

// Push appends items to the end of the list.
func (l *List) Push(items ...any) {
	for _, item := range items {
		l.items = append(l.items, item)
		l.notify(Event{Type: watch.Added, Index: len(l.items) - 1, Object: item})
	}
}

// InsertAt inserts an item at index i.
func (l *List) InsertAt(i int, item any) error {
	if i < 0 || i > len(l.items) {
		return fmt.Errorf("index %d out of range [0:%d]", i, len(l.items))
	}
	l.items = slices.Insert(l.items, i, item)
	l.notify(Event{Type: watch.Added, Index: i, Object: item})
	return nil
}

// RemoveAt removes and returns the item at index i.
func (l *List) RemoveAt(i int) (any, error) {
	if i < 0 || i >= len(l.items) {
		return nil, fmt.Errorf("index %d out of range [0:%d)", i, len(l.items))
	}
	item := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	l.notify(Event{Type: watch.Deleted, Index: i, Object: item})
	return item, nil
}

// ReplaceAt replaces the item at index i.
func (l *List) ReplaceAt(i int, item any) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("index %d out of range [0:%d)", i, len(l.items))
	}
	l.items[i] = item
	l.notify(Event{Type: watch.Modified, Index: i, Object: item})
	return nil
}

// Replace replaces the whole content of the list.
func (l *List) Replace(items ...any) {
	l.items = slices.Clone(items)
	l.notify(Event{Type: watch.Modified, Index: -1})
}

// Watch registers a function that is called synchronously after each change. The returned
// function cancels the registration.
func (l *List) Watch(fn func(Event)) func() {
	id := l.nextID
	l.nextID++
	l.watchers = append(l.watchers, listWatcher{id: id, fn: fn})

	return func() {
		l.watchers = slices.DeleteFunc(l.watchers, func(w listWatcher) bool { return w.id == id })
	}
}

// Watched reports whether the list has any watchers.
func (l *List) Watched() bool { return len(l.watchers) > 0 }

func (l *List) notify(e Event) {
	for _, w := range slices.Clone(l.watchers) {
		w.fn(e)
	}
}

func (l *List) String() string { return util.Stringify(l.items) }
