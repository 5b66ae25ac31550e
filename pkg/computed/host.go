package computed

// MapHost is a Host backed by a plain map. It has no change tracking: every Compute on it sorts
// the current content.
type MapHost map[string]any

var _ Host = MapHost{}

// Get returns the attribute at key, nil if absent.
func (h MapHost) Get(key string) (any, error) { return h[key], nil }
