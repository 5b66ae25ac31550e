package testutils

import (
	"github.com/l7mp/computed-sortby/pkg/object"
)

// MapBy returns the value at path of each item, nil for missing values.
func MapBy(items []any, path string) []any {
	ret := make([]any, len(items))
	for i, item := range items {
		ret[i], _ = object.Get(item, path)
	}
	return ret
}

// MapByString is like MapBy for string valued properties.
func MapByString(items []any, path string) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		v, _ := object.Get(item, path)
		ret[i], _ = v.(string)
	}
	return ret
}

// Set sets a property on an item, panicking on failure.
func Set(item any, path string, value any) {
	if err := object.Set(item, path, value); err != nil {
		panic(err)
	}
}
