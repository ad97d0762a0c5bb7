package parser

import "time"

// freeTable is a free-form table awaiting type validation.
type freeTable struct {
	name   string
	keys   []string
	values map[string]any
}

// validateTypes walks the free-form tables in order and reports the first
// datetime or nested table it meets.
func validateTypes(tables []freeTable) error {
	for _, t := range tables {
		for _, k := range t.keys {
			if kind, bad := forbiddenKind(t.values[k]); bad {
				return &InvalidTypeError{Field: t.name, Kind: kind}
			}
		}
	}
	return nil
}

func forbiddenKind(v any) (string, bool) {
	switch val := v.(type) {
	case time.Time:
		return "datetime", true
	case map[string]any, []map[string]any:
		return "table", true
	case []any:
		for _, item := range val {
			if kind, bad := forbiddenKind(item); bad {
				return kind, true
			}
		}
	}
	return "", false
}
