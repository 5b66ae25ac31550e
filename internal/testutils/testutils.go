package testutils

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/l7mp/computed-sortby/pkg/object"
)

// Users returns fresh observable items used for testing.
func Users() []any {
	return []any{
		object.NewRecord(object.Unstructured{"fname": "Jaime", "lname": "Lannister", "age": int64(34)}),
		object.NewRecord(object.Unstructured{"fname": "Robb", "lname": "Stark", "age": int64(16)}),
		object.NewRecord(object.Unstructured{"fname": "Cersei", "lname": "Lannister", "age": int64(32)}),
		object.NewRecord(object.Unstructured{"fname": "Bran", "lname": "Stark", "age": int64(8)}),
	}
}

// PlainUsers returns the same items as Users as plain maps.
func PlainUsers() []any {
	return []any{
		object.Unstructured{"fname": "Jaime", "lname": "Lannister", "age": int64(34)},
		object.Unstructured{"fname": "Robb", "lname": "Stark", "age": int64(16)},
		object.Unstructured{"fname": "Cersei", "lname": "Lannister", "age": int64(32)},
		object.Unstructured{"fname": "Bran", "lname": "Stark", "age": int64(8)},
	}
}

// User creates a single observable item.
func User(fname, lname string, age int64) *object.Record {
	return object.NewRecord(object.Unstructured{"fname": fname, "lname": lname, "age": age})
}

// TestPodList is an unstructured list used for testing.
func TestPodList() *unstructured.UnstructuredList {
	pod := func(ns, name string, restarts int64) unstructured.Unstructured {
		return unstructured.Unstructured{
			Object: map[string]any{
				"apiVersion": "v1",
				"kind":       "Pod",
				"metadata": map[string]any{
					"name":      name,
					"namespace": ns,
				},
				"status": map[string]any{
					"restartCount": restarts,
				},
			},
		}
	}

	list := &unstructured.UnstructuredList{
		Object: map[string]any{"apiVersion": "v1", "kind": "List"},
		Items: []unstructured.Unstructured{
			pod("default", "web-1", 3),
			pod("kube-system", "dns-1", 0),
			pod("default", "db-1", 7),
			pod("kube-system", "proxy-1", 3),
		},
	}
	return list
}
