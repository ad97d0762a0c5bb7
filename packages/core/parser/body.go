package parser

import (
	"fmt"
	"strings"
	"time"
)

// formEntry is a form_data entry after structural checks.
type formEntry struct {
	file   string
	isFile bool
	text   any
}

// decodeBody applies the exactly-one-of rule and checks the shape of the
// chosen variant. Values are converted later, once types are validated.
func decodeBody(v any, order keyOrder, path []string) (Body, *freeTable, error) {
	tbl, ok := v.(map[string]any)
	if !ok {
		return Body{}, nil, deserializationf("invalid type for `body`: expected a table, found %s", describe(v))
	}

	fields, err := canonicalize(tbl, bodyFields, true, fieldBody)
	if err != nil {
		return Body{}, nil, err
	}

	var present []string
	for _, name := range bodyFields {
		if f, ok := fields[name]; ok {
			present = append(present, f.key)
		}
	}
	switch len(present) {
	case 0:
		return Body{Kind: BodyNone}, nil, nil
	case 1:
	default:
		return Body{}, nil, deserializationf("body must have exactly one variant, found more than one: %s", strings.Join(present, ", "))
	}

	if f, ok := fields[fieldRaw]; ok {
		s, ok := f.value.(string)
		if !ok {
			return Body{}, nil, deserializationf("invalid type for `body.%s`: expected a string, found %s", f.key, describe(f.value))
		}
		return Body{Kind: BodyRaw, Raw: s}, nil, nil
	}
	if f, ok := fields[fieldBinary]; ok {
		s, ok := f.value.(string)
		if !ok {
			return Body{}, nil, deserializationf("invalid type for `body.%s`: expected a file path, found %s", f.key, describe(f.value))
		}
		return Body{Kind: BodyBinary, Binary: s}, nil, nil
	}

	kind, f := BodyFormData, fields[fieldFormData]
	name := fieldFormData
	if uf, ok := fields[fieldURLEncoded]; ok {
		kind, f, name = BodyXFormURLEncoded, uf, fieldURLEncoded
	}
	inner, ok := f.value.(map[string]any)
	if !ok {
		return Body{}, nil, deserializationf("invalid type for `body.%s`: expected a table, found %s", f.key, describe(f.value))
	}
	ft := &freeTable{
		name:   name,
		keys:   order.sortedKeys(append(path, f.key), inner),
		values: inner,
	}
	return Body{Kind: kind}, ft, nil
}

// splitFormEntries separates file entries from text entries. Only the text
// side takes part in type validation.
func splitFormEntries(ft *freeTable) (map[string]formEntry, *freeTable, error) {
	entries := make(map[string]formEntry, len(ft.keys))
	text := &freeTable{name: ft.name, values: make(map[string]any, len(ft.keys))}
	for _, k := range ft.keys {
		v := ft.values[k]
		tbl, isTable := v.(map[string]any)
		if !isTable || !onlyFormKeys(tbl) {
			entries[k] = formEntry{text: v}
			text.keys = append(text.keys, k)
			text.values[k] = v
			continue
		}

		fields, _ := canonicalize(tbl, formDataFields, false, ft.name)
		tf, hasText := fields[fieldText]
		ff, hasFile := fields[fieldFile]
		if hasText == hasFile {
			return nil, nil, deserializationf("form_data entry `%s` must set exactly one of `text` or `file`", k)
		}
		if hasFile {
			path, ok := ff.value.(string)
			if !ok {
				return nil, nil, deserializationf("invalid type for form_data entry `%s.file`: expected a file path, found %s", k, describe(ff.value))
			}
			entries[k] = formEntry{file: path, isFile: true}
			continue
		}
		entries[k] = formEntry{text: tf.value}
		text.keys = append(text.keys, k)
		text.values[k] = tf.value
	}
	return entries, text, nil
}

func onlyFormKeys(tbl map[string]any) bool {
	if len(tbl) == 0 {
		return false
	}
	for k := range tbl {
		if k != fieldText && k != fieldFile {
			return false
		}
	}
	return true
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "a string"
	case int64:
		return "an integer"
	case float64:
		return "a float"
	case bool:
		return "a boolean"
	case time.Time:
		return "a datetime"
	case []any:
		return "an array"
	case map[string]any, []map[string]any:
		return "a table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
