package parser

import (
	"strconv"
	"strings"
)

// Kind identifies the scalar type held by a Primitive.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Primitive is one of the four scalar values allowed at the leaves of
// free-form tables.
type Primitive struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

func NewString(s string) Primitive { return Primitive{kind: KindString, s: s} }

func NewInt(i int64) Primitive { return Primitive{kind: KindInt, i: i} }

func NewFloat(f float64) Primitive { return Primitive{kind: KindFloat, f: f} }

func NewBool(b bool) Primitive { return Primitive{kind: KindBool, b: b} }

func (p Primitive) Kind() Kind { return p.kind }

// String returns the textual form used when the value is sent over the wire.
func (p Primitive) String() string {
	switch p.kind {
	case KindInt:
		return strconv.FormatInt(p.i, 10)
	case KindFloat:
		return strconv.FormatFloat(p.f, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(p.b)
	default:
		return p.s
	}
}

// PrimitiveArray holds either a single Primitive or an ordered list of them.
type PrimitiveArray struct {
	values   []Primitive
	multiple bool
}

func Single(p Primitive) PrimitiveArray {
	return PrimitiveArray{values: []Primitive{p}}
}

func Multiple(values ...Primitive) PrimitiveArray {
	return PrimitiveArray{values: append([]Primitive(nil), values...), multiple: true}
}

func (a PrimitiveArray) IsMultiple() bool { return a.multiple }

// Values returns a copy of the held primitives, in document order.
func (a PrimitiveArray) Values() []Primitive {
	return append([]Primitive(nil), a.values...)
}

// Flatten joins the string forms of every value with a comma. A single value
// flattens to its own string form.
func (a PrimitiveArray) Flatten() string {
	if !a.multiple {
		if len(a.values) == 0 {
			return ""
		}
		return a.values[0].String()
	}
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}
