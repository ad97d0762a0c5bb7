package parser

import "iter"

// Table maps unique string keys to values and remembers insertion order.
// The zero value is an empty table ready to use.
type Table[V any] struct {
	keys   []string
	values map[string]V
}

func NewTable[V any]() *Table[V] {
	return &Table[V]{values: make(map[string]V)}
}

// Set stores value under key. Replacing an existing key keeps its position.
func (t *Table[V]) Set(key string, value V) {
	if t.values == nil {
		t.values = make(map[string]V)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

func (t *Table[V]) Get(key string) (V, bool) {
	v, ok := t.values[key]
	return v, ok
}

func (t *Table[V]) Len() int { return len(t.keys) }

func (t *Table[V]) Keys() []string {
	return append([]string(nil), t.keys...)
}

// All iterates the table in insertion order.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}
