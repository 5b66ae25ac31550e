package util

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/json"
)

// Map applies f to each element of s: (a -> b) -> [a] -> [b].
func Map[T, U any](f func(T) U, s []T) []U {
	result := make([]U, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

// Unique returns the elements of s in order of first occurrence with duplicates removed.
func Unique[T comparable](s []T) []T {
	seen := make(map[T]bool, len(s))
	result := make([]T, 0, len(s))
	for _, v := range s {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

// Stringify renders v as JSON for log and error messages, falling back to Go syntax.
func Stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
