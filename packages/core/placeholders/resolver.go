package placeholders

import (
	"context"
	"maps"
	"slices"
)

// ValueSource supplies placeholder values. Pick reports false when the
// source has no value for key.
type ValueSource interface {
	Pick(ctx context.Context, key string) (string, bool)
}

// SourceFunc adapts a function to a ValueSource.
type SourceFunc func(ctx context.Context, key string) (string, bool)

func (f SourceFunc) Pick(ctx context.Context, key string) (string, bool) {
	return f(ctx, key)
}

// Resolver asks its sources in order; the first one that answers wins.
type Resolver struct {
	sources []ValueSource
}

func NewResolver(sources ...ValueSource) *Resolver {
	r := &Resolver{}
	for _, s := range sources {
		r.Add(s)
	}
	return r
}

// Add appends a source with the lowest priority so far. Nil sources are
// skipped.
func (r *Resolver) Add(src ValueSource) *Resolver {
	if src != nil {
		r.sources = append(r.sources, src)
	}
	return r
}

func (r *Resolver) Len() int { return len(r.sources) }

// Pick resolves a single key.
func (r *Resolver) Pick(ctx context.Context, key string) (string, bool) {
	for _, src := range r.sources {
		if v, ok := src.Pick(ctx, key); ok {
			return v, true
		}
	}
	return "", false
}

// Resolve produces a value or an explicit unresolved marker for every key
// in ph. Keys are visited in sorted order.
func (r *Resolver) Resolve(ctx context.Context, ph *Placeholders) *PlaceholderValues {
	values := NewPlaceholderValues()
	for _, key := range ph.Keys() {
		if v, ok := r.Pick(ctx, key); ok {
			values.Set(key, v)
		} else {
			values.SetUnresolved(key)
		}
	}
	return values
}

type resolution struct {
	value    string
	resolved bool
}

// PlaceholderValues holds the outcome of resolving a set of placeholders.
type PlaceholderValues struct {
	entries map[string]resolution
}

func NewPlaceholderValues() *PlaceholderValues {
	return &PlaceholderValues{entries: make(map[string]resolution)}
}

func (v *PlaceholderValues) Set(key, value string) {
	v.entries[key] = resolution{value: value, resolved: true}
}

func (v *PlaceholderValues) SetUnresolved(key string) {
	v.entries[key] = resolution{}
}

// Get returns the value of key and whether it was resolved.
func (v *PlaceholderValues) Get(key string) (string, bool) {
	r := v.entries[key]
	return r.value, r.resolved
}

// Has reports whether key was looked at, resolved or not.
func (v *PlaceholderValues) Has(key string) bool {
	_, ok := v.entries[key]
	return ok
}

// Resolved returns the resolved keys and their values.
func (v *PlaceholderValues) Resolved() map[string]string {
	out := make(map[string]string)
	for k, r := range v.entries {
		if r.resolved {
			out[k] = r.value
		}
	}
	return out
}

// Unresolved returns the unresolved keys in sorted order.
func (v *PlaceholderValues) Unresolved() []string {
	var keys []string
	for k, r := range v.entries {
		if !r.resolved {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

func (v *PlaceholderValues) Keys() []string {
	return slices.Sorted(maps.Keys(v.entries))
}

func (v *PlaceholderValues) AllResolved() bool {
	return len(v.Unresolved()) == 0
}

func (v *PlaceholderValues) Len() int { return len(v.entries) }

// Merge copies every entry of other into v. A resolved entry is never
// replaced by an unresolved one.
func (v *PlaceholderValues) Merge(other *PlaceholderValues) {
	for k, r := range other.entries {
		if prev, ok := v.entries[k]; ok && prev.resolved && !r.resolved {
			continue
		}
		v.entries[k] = r
	}
}
