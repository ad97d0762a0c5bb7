package placeholders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mapSource(m map[string]string) ValueSource {
	return SourceFunc(func(_ context.Context, key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	})
}

func keys(names ...string) *Placeholders {
	ph := NewPlaceholders()
	for _, n := range names {
		ph.Add(n, URLLocation())
	}
	return ph
}

func TestResolver_Precedence(t *testing.T) {
	r := NewResolver(
		mapSource(map[string]string{"k": "x"}),
		mapSource(map[string]string{"k": "y", "other": "z"}),
	)

	values := r.Resolve(context.Background(), keys("k", "other"))

	v, ok := values.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	v, _ = values.Get("other")
	assert.Equal(t, "z", v)
}

func TestResolver_Total(t *testing.T) {
	r := NewResolver(mapSource(map[string]string{"a": "1"}))

	values := r.Resolve(context.Background(), keys("a", "b", "c"))

	assert.Equal(t, 3, values.Len())
	assert.Equal(t, []string{"b", "c"}, values.Unresolved())
	assert.Equal(t, map[string]string{"a": "1"}, values.Resolved())
	assert.False(t, values.AllResolved())
	assert.True(t, values.Has("b"))

	_, ok := values.Get("b")
	assert.False(t, ok)
}

func TestResolver_EmptyValueIsResolved(t *testing.T) {
	r := NewResolver(mapSource(map[string]string{"a": ""}))

	values := r.Resolve(context.Background(), keys("a"))

	assert.True(t, values.AllResolved())
}

func TestResolver_SkipsNilAndCountsSources(t *testing.T) {
	r := NewResolver(nil, mapSource(nil))
	r.Add(nil).Add(mapSource(map[string]string{"a": "1"}))

	assert.Equal(t, 2, r.Len())
	v, ok := r.Pick(context.Background(), "a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestResolver_NoSources(t *testing.T) {
	values := NewResolver().Resolve(context.Background(), keys("a"))

	assert.Equal(t, []string{"a"}, values.Unresolved())
}

func TestResolver_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "seen")

	var got any
	r := NewResolver(SourceFunc(func(ctx context.Context, key string) (string, bool) {
		got = ctx.Value(ctxKey{})
		return "", false
	}))
	r.Resolve(ctx, keys("a"))

	assert.Equal(t, "seen", got)
}

func TestPlaceholderValues_Merge(t *testing.T) {
	a := NewPlaceholderValues()
	a.Set("x", "1")
	a.SetUnresolved("y")

	b := NewPlaceholderValues()
	b.SetUnresolved("x")
	b.Set("y", "2")
	b.Set("z", "3")

	a.Merge(b)

	assert.Equal(t, map[string]string{"x": "1", "y": "2", "z": "3"}, a.Resolved())
	assert.True(t, a.AllResolved())
	assert.Equal(t, []string{"x", "y", "z"}, a.Keys())
}
