package invoke

import (
	"context"
	"sort"
)

// Func is a callable registered under a name. Arguments arrive fully
// evaluated: string, float64, bool, []any, map[string]any, or whatever a
// nested call returned.
type Func func(ctx context.Context, args []any) (any, error)

// Registry maps callee names to functions. Path callees are looked up by
// their dot-joined form ("tools.search").
type Registry interface {
	Lookup(name string) (Func, bool)
}

// MapRegistry is a Registry backed by a map. It is not safe for concurrent
// registration; populate it before sharing.
type MapRegistry map[string]Func

// Lookup implements Registry.
func (r MapRegistry) Lookup(name string) (Func, bool) {
	fn, ok := r[name]
	return fn, ok
}

// Register adds or replaces fn under name.
func (r MapRegistry) Register(name string, fn Func) {
	r[name] = fn
}

// Names returns the registered names in sorted order.
func (r MapRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new registry holding r's entries overlaid with other's.
func (r MapRegistry) Merge(other MapRegistry) MapRegistry {
	out := make(MapRegistry, len(r)+len(other))
	for name, fn := range r {
		out[name] = fn
	}
	for name, fn := range other {
		out[name] = fn
	}
	return out
}
