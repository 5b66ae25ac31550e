package object

import (
	"fmt"
	"slices"
	"sort"

	"k8s.io/apimachinery/pkg/util/json"
)

// Record is an observable item: every Set notifies the watchers with the name of the changed
// field. Changes of nested Records are re-emitted under the field name holding them. Records
// are not safe for concurrent use.
type Record struct {
	fields   map[string]any
	nested   map[string]func()
	watchers []recordWatcher
	nextID   int
}

type recordWatcher struct {
	id int
	fn func(key string)
}

var _ Getter = &Record{}
var _ Setter = &Record{}

// NewRecord creates a record holding a shallow copy of fields.
func NewRecord(fields map[string]any) *Record {
	r := &Record{fields: map[string]any{}, nested: map[string]func(){}}
	for k, v := range fields {
		r.fields[k] = v
		r.watchNested(k, v)
	}
	return r
}

// Get returns a field.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Set sets a field and notifies the watchers.
func (r *Record) Set(key string, value any) {
	r.fields[key] = value
	r.watchNested(key, value)
	r.notify(key)
}

// Delete removes a field and notifies the watchers if the field existed.
func (r *Record) Delete(key string) {
	if _, ok := r.fields[key]; !ok {
		return
	}
	delete(r.fields, key)
	r.watchNested(key, nil)
	r.notify(key)
}

// Keys returns the field names in sorted order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Watch registers a function that is called synchronously after each change. The returned
// function cancels the registration.
func (r *Record) Watch(fn func(key string)) func() {
	id := r.nextID
	r.nextID++
	r.watchers = append(r.watchers, recordWatcher{id: id, fn: fn})

	return func() {
		r.watchers = slices.DeleteFunc(r.watchers, func(w recordWatcher) bool { return w.id == id })
	}
}

// Watched reports whether the record has any watchers.
func (r *Record) Watched() bool { return len(r.watchers) > 0 }

func (r *Record) notify(key string) {
	for _, w := range slices.Clone(r.watchers) {
		w.fn(key)
	}
}

func (r *Record) watchNested(key string, value any) {
	if cancel, ok := r.nested[key]; ok {
		cancel()
		delete(r.nested, key)
	}
	if n, ok := value.(*Record); ok && n != nil {
		r.nested[key] = n.Watch(func(string) { r.notify(key) })
	}
}

// UnstructuredContent returns the fields as a map, expanding nested records.
func (r *Record) UnstructuredContent() Unstructured {
	ret := make(Unstructured, len(r.fields))
	for k, v := range r.fields {
		if n, ok := v.(*Record); ok && n != nil {
			ret[k] = n.UnstructuredContent()
			continue
		}
		ret[k] = v
	}
	return ret
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.UnstructuredContent())
}

func (r *Record) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%#v", r.fields)
	}
	return string(b)
}
