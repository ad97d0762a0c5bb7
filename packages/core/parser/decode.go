package parser

import (
	"golang.org/x/net/http/httpguts"
)

// decodeDocument turns the generic TOML tree into a Document. Structural
// problems are reported first, then forbidden value kinds, in a fixed
// table order.
func decodeDocument(tree map[string]any, order keyOrder) (*Document, error) {
	top, err := canonicalize(tree, topLevelFields, false, "")
	if err != nil {
		return nil, err
	}

	doc := newDocument()

	httpField, ok := top[fieldHTTP]
	if !ok {
		return nil, &MissingFieldError{Field: fieldHTTP}
	}
	if err := decodeHTTP(httpField.value, &doc.HTTP); err != nil {
		return nil, err
	}

	tables := make(map[string]*freeTable)
	for _, name := range []string{fieldMetadata, fieldHeaders, fieldQueryParams, fieldVariables, fieldInputParams} {
		f, ok := top[name]
		if !ok {
			continue
		}
		m, ok := f.value.(map[string]any)
		if !ok {
			return nil, deserializationf("invalid type for `%s`: expected a table, found %s", f.key, describe(f.value))
		}
		tables[name] = &freeTable{name: name, keys: order.sortedKeys([]string{f.key}, m), values: m}
	}

	if t := tables[fieldHeaders]; t != nil {
		if err := decodeHeaders(t, doc.Headers); err != nil {
			return nil, err
		}
	}
	if t := tables[fieldInputParams]; t != nil {
		if err := decodeInputParams(t, doc.InputParams); err != nil {
			return nil, err
		}
	}

	var (
		bodyTable   *freeTable
		formEntries map[string]formEntry
		formText    *freeTable
	)
	if f, ok := top[fieldBody]; ok {
		doc.Body, bodyTable, err = decodeBody(f.value, order, []string{f.key})
		if err != nil {
			return nil, err
		}
		if doc.Body.Kind == BodyFormData {
			formEntries, formText, err = splitFormEntries(bodyTable)
			if err != nil {
				return nil, err
			}
		}
	}

	var checks []freeTable
	for _, name := range []string{fieldMetadata, fieldQueryParams, fieldVariables} {
		if t := tables[name]; t != nil {
			checks = append(checks, *t)
		}
	}
	switch doc.Body.Kind {
	case BodyFormData:
		checks = append(checks, *formText)
	case BodyXFormURLEncoded:
		checks = append(checks, *bodyTable)
	}
	if err := validateTypes(checks); err != nil {
		return nil, err
	}

	if err := fillPrimitives(tables[fieldMetadata], doc.Metadata); err != nil {
		return nil, err
	}
	if err := fillPrimitives(tables[fieldQueryParams], doc.QueryParams); err != nil {
		return nil, err
	}
	if err := fillPrimitives(tables[fieldVariables], doc.Variables); err != nil {
		return nil, err
	}

	switch doc.Body.Kind {
	case BodyFormData:
		doc.Body.FormData = NewTable[FormDataValue]()
		for _, k := range bodyTable.keys {
			entry := formEntries[k]
			if entry.isFile {
				doc.Body.FormData.Set(k, FileValue(entry.file))
				continue
			}
			arr, err := toPrimitiveArray(fieldFormData, entry.text)
			if err != nil {
				return nil, err
			}
			doc.Body.FormData.Set(k, TextValue(arr))
		}
	case BodyXFormURLEncoded:
		doc.Body.URLEncoded = NewTable[PrimitiveArray]()
		if err := fillPrimitives(bodyTable, doc.Body.URLEncoded); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func decodeHTTP(v any, h *HTTP) error {
	tbl, ok := v.(map[string]any)
	if !ok {
		return deserializationf("invalid type for `http`: expected a table, found %s", describe(v))
	}
	fields, err := canonicalize(tbl, httpFields, false, fieldHTTP)
	if err != nil {
		return err
	}

	urlField, ok := fields[fieldURL]
	if !ok {
		return &MissingFieldError{Field: fieldURL}
	}
	if h.URL, ok = urlField.value.(string); !ok {
		return deserializationf("invalid type for `http.url`: expected a string, found %s", describe(urlField.value))
	}

	if f, ok := fields[fieldMethod]; ok {
		s, ok := f.value.(string)
		if !ok {
			return deserializationf("invalid type for `http.method`: expected a string, found %s", describe(f.value))
		}
		if h.Method, err = ParseMethod(s); err != nil {
			return &DeserializationError{Message: err.Error()}
		}
	}

	if f, ok := fields[fieldVersion]; ok {
		s, ok := f.value.(string)
		if !ok {
			return deserializationf("invalid type for `http.version`: expected a string, found %s", describe(f.value))
		}
		if h.Version, err = ParseVersion(s); err != nil {
			return &DeserializationError{Message: err.Error()}
		}
	}
	return nil
}

func decodeHeaders(t *freeTable, headers *Table[string]) error {
	for _, name := range t.keys {
		v, ok := t.values[name].(string)
		if !ok {
			return deserializationf("invalid type for header `%s`: expected a string, found %s", name, describe(t.values[name]))
		}
		if !httpguts.ValidHeaderFieldName(name) {
			return deserializationf("invalid header name `%s`", name)
		}
		if !httpguts.ValidHeaderFieldValue(v) {
			return deserializationf("invalid value for header `%s`", name)
		}
		headers.Set(name, v)
	}
	return nil
}

func decodeInputParams(t *freeTable, params *Table[InputParam]) error {
	for _, k := range t.keys {
		switch v := t.values[k].(type) {
		case string:
			params.Set(k, InputParam{Hint: v})
		case map[string]any:
			var p InputParam
			if hint, ok := v[fieldHint]; ok {
				s, ok := hint.(string)
				if !ok {
					return deserializationf("invalid type for `input_params.%s.hint`: expected a string, found %s", k, describe(hint))
				}
				p.Hint = s
			}
			params.Set(k, p)
		default:
			return deserializationf("invalid type for `input_params.%s`: expected a table, found %s", k, describe(v))
		}
	}
	return nil
}

func fillPrimitives(t *freeTable, dst *Table[PrimitiveArray]) error {
	if t == nil {
		return nil
	}
	for _, k := range t.keys {
		arr, err := toPrimitiveArray(t.name, t.values[k])
		if err != nil {
			return err
		}
		dst.Set(k, arr)
	}
	return nil
}

func toPrimitiveArray(table string, v any) (PrimitiveArray, error) {
	if items, ok := v.([]any); ok {
		values := make([]Primitive, 0, len(items))
		for _, item := range items {
			if _, nested := item.([]any); nested {
				return PrimitiveArray{}, deserializationf("nested arrays are not supported in [%s]", table)
			}
			p, err := toPrimitive(table, item)
			if err != nil {
				return PrimitiveArray{}, err
			}
			values = append(values, p)
		}
		return Multiple(values...), nil
	}
	p, err := toPrimitive(table, v)
	if err != nil {
		return PrimitiveArray{}, err
	}
	return Single(p), nil
}

func toPrimitive(table string, v any) (Primitive, error) {
	switch val := v.(type) {
	case string:
		return NewString(val), nil
	case int64:
		return NewInt(val), nil
	case float64:
		return NewFloat(val), nil
	case bool:
		return NewBool(val), nil
	default:
		return Primitive{}, deserializationf("unsupported value in [%s]: %s", table, describe(v))
	}
}
