package parser

import (
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Canonical field names.
const (
	fieldHTTP        = "http"
	fieldMetadata    = "metadata"
	fieldHeaders     = "headers"
	fieldQueryParams = "query_params"
	fieldBody        = "body"
	fieldVariables   = "variables"
	fieldInputParams = "input_params"

	fieldURL     = "url"
	fieldMethod  = "method"
	fieldVersion = "version"

	fieldRaw        = "raw"
	fieldBinary     = "binary"
	fieldFormData   = "form_data"
	fieldURLEncoded = "x_www_form_urlencoded"

	fieldText = "text"
	fieldFile = "file"
	fieldHint = "hint"
)

// aliases lists the alternative spellings accepted for a canonical field.
var aliases = map[string][]string{
	fieldQueryParams: {"queryparams", "query-params"},
	fieldInputParams: {"inputparams", "input-params"},
	fieldRaw:         {"text"},
	fieldBinary:      {"file"},
	fieldFormData:    {"form-data", "multipart_form_data", "multipart-form-data"},
	fieldURLEncoded:  {"x-www-form-urlencoded", "form_urlencoded", "form-urlencoded"},
}

var (
	topLevelFields = []string{
		fieldHTTP, fieldMetadata, fieldHeaders, fieldQueryParams,
		fieldBody, fieldVariables, fieldInputParams,
	}
	httpFields     = []string{fieldURL, fieldMethod, fieldVersion}
	bodyFields     = []string{fieldRaw, fieldBinary, fieldFormData, fieldURLEncoded}
	formDataFields = []string{fieldText, fieldFile}
)

// field is a value found under a canonical name, together with the
// spelling used in the document.
type field struct {
	key   string
	value any
}

// canonicalize maps every key of m onto one of the canonical names in
// fields. A key that matches nothing is ignored, or reported when strict is
// set. Two spellings of one canonical name are a duplicate key.
func canonicalize(m map[string]any, fields []string, strict bool, where string) (map[string]field, error) {
	lookup := make(map[string]string, len(fields))
	for _, f := range fields {
		lookup[f] = f
		for _, alias := range aliases[f] {
			lookup[alias] = f
		}
	}

	out := make(map[string]field, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		canonical, ok := lookup[key]
		if !ok {
			if strict {
				return nil, deserializationf("unknown field `%s` in [%s], expected one of %s", key, where, quoteList(fields))
			}
			continue
		}
		if prev, dup := out[canonical]; dup {
			return nil, deserializationf("duplicate field `%s`: both `%s` and `%s` are set", canonical, prev.key, key)
		}
		out[canonical] = field{key: key, value: m[key]}
	}
	return out, nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

// keyOrder remembers where every key path first appears in the document.
type keyOrder map[string]int

func newKeyOrder(md toml.MetaData) keyOrder {
	order := make(keyOrder)
	for i, k := range md.Keys() {
		p := strings.Join(k, "\x00")
		if _, ok := order[p]; !ok {
			order[p] = i
		}
	}
	return order
}

// sortedKeys returns the keys of the table at path in document order. Keys
// the metadata does not know about go last, alphabetically.
func (o keyOrder) sortedKeys(path []string, m map[string]any) []string {
	keys := slices.Sorted(maps.Keys(m))
	prefix := strings.Join(path, "\x00")
	pos := func(k string) int {
		p := k
		if prefix != "" {
			p = prefix + "\x00" + k
		}
		if i, ok := o[p]; ok {
			return i
		}
		return len(o) + 1
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		return pos(a) - pos(b)
	})
	return keys
}
