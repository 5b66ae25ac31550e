package computed

import (
	"cmp"
	"slices"

	"github.com/l7mp/computed-sortby/pkg/compare"
	"github.com/l7mp/computed-sortby/pkg/object"
	"github.com/l7mp/computed-sortby/pkg/sortkey"
)

// Sort returns a stably sorted copy of items ordered by the keys of spec, using the generic
// value comparator. The items themselves are not copied.
func Sort(items []any, spec sortkey.Spec) []any {
	return SortWith(compare.Compare, items, spec)
}

// SortWith is like Sort with a custom value comparator.
func SortWith(c compare.Comparator, items []any, spec sortkey.Spec) []any {
	ret := make([]any, len(items))
	copy(ret, items)
	slices.SortStableFunc(ret, Comparator(c, spec))
	return ret
}

// Comparator returns the multi-key item comparator for spec: the first key that compares
// non-equal decides, negated for descending keys. Missing properties compare as
// compare.Undefined.
func Comparator(c compare.Comparator, spec sortkey.Spec) func(a, b any) int {
	keys := spec.Keys()
	return func(a, b any) int {
		for _, k := range keys {
			if ret := c(property(a, k.Path), property(b, k.Path)); ret != 0 {
				if k.Direction == sortkey.Descending {
					return -ret
				}
				return ret
			}
		}
		return 0
	}
}

func property(item any, path string) any {
	v, ok := object.Get(item, path)
	if !ok {
		return compare.Undefined
	}
	return v
}

// TypedKey is a sort key over a statically typed item: a comparison of the values selected
// from two items, and a direction.
type TypedKey[T any] struct {
	Compare   func(a, b T) int
	Direction sortkey.Direction
}

// Asc sorts ascending by the value the extractor returns, compared with the generic value
// comparator.
func Asc[T any](extract func(T) any) TypedKey[T] {
	return TypedKey[T]{Compare: func(a, b T) int { return compare.Compare(extract(a), extract(b)) }}
}

// Desc is like Asc but sorts descending.
func Desc[T any](extract func(T) any) TypedKey[T] {
	k := Asc(extract)
	k.Direction = sortkey.Descending
	return k
}

// AscOrdered sorts ascending by an ordered key.
func AscOrdered[T any, K cmp.Ordered](extract func(T) K) TypedKey[T] {
	return TypedKey[T]{Compare: func(a, b T) int { return cmp.Compare(extract(a), extract(b)) }}
}

// DescOrdered sorts descending by an ordered key.
func DescOrdered[T any, K cmp.Ordered](extract func(T) K) TypedKey[T] {
	k := AscOrdered(extract)
	k.Direction = sortkey.Descending
	return k
}

// SortTyped returns a stably sorted copy of items ordered by keys. Without keys the copy keeps
// the original order.
func SortTyped[T any](items []T, keys ...TypedKey[T]) []T {
	ret := slices.Clone(items)
	if ret == nil {
		ret = []T{}
	}
	slices.SortStableFunc(ret, func(a, b T) int {
		for _, k := range keys {
			if c := k.Compare(a, b); c != 0 {
				if k.Direction == sortkey.Descending {
					return -c
				}
				return c
			}
		}
		return 0
	})
	return ret
}
