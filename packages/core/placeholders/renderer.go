package placeholders

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/abdul-hamid-achik/reqspec/packages/http"
)

// RenderError reports a substitution that produced an invalid request.
type RenderError struct {
	Key      string
	Location Location
	Value    string
	Reason   string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering {{%s}} into %s: %s", e.Key, e.Location, e.Reason)
}

// UnresolvedError lists placeholders no source could provide.
type UnresolvedError struct {
	Keys []string
}

func (e *UnresolvedError) Error() string {
	return "unresolved placeholders: " + strings.Join(e.Keys, ", ")
}

// Render returns a copy of req with every resolved placeholder replaced at
// the locations Scan recorded for it. Unresolved tokens are left as they
// are. Each field is rewritten in one pass, so substituted values are never
// scanned again.
func Render(req *http.Request, ph *Placeholders, values *PlaceholderValues) (*http.Request, error) {
	out := req.Clone()

	byLocation := make(map[Location]map[string]string)
	for _, key := range ph.Keys() {
		v, ok := values.Get(key)
		if !ok {
			continue
		}
		for _, loc := range ph.Locations(key) {
			if byLocation[loc] == nil {
				byLocation[loc] = make(map[string]string)
			}
			byLocation[loc][key] = v
		}
	}

	locs := slices.SortedFunc(maps.Keys(byLocation), compareLocations)

	var errs []error
	for _, loc := range locs {
		if err := renderLocation(out, loc, byLocation[loc]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func renderLocation(req *http.Request, loc Location, repl map[string]string) error {
	switch loc.Kind {
	case LocationURL:
		req.URL = substitute(req.URL, repl)

	case LocationHeaders:
		return req.Headers.Update(loc.Name, func(v string) (string, error) {
			rendered := substitute(v, repl)
			if !httpguts.ValidHeaderFieldValue(rendered) {
				return "", &RenderError{
					Key:      firstKey(v, repl),
					Location: loc,
					Value:    rendered,
					Reason:   "not a valid header value",
				}
			}
			return rendered, nil
		})

	case LocationQueryParams:
		for i := range req.QueryParams {
			if req.QueryParams[i].Key == loc.Name {
				req.QueryParams[i].Value = substitute(req.QueryParams[i].Value, repl)
			}
		}

	case LocationBody:
		req.Body.Content = substitute(req.Body.Content, repl)
		req.Body.Path = substitute(req.Body.Path, repl)

	case LocationBodyForm:
		for i := range req.Body.Fields {
			if req.Body.Fields[i].Name == loc.Name {
				req.Body.Fields[i].Value = substitute(req.Body.Fields[i].Value, repl)
			}
		}
	}
	return nil
}

func substitute(s string, repl map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := repl[key]; ok {
			return v
		}
		return token
	})
}

// firstKey names the key blamed for an invalid header value.
func firstKey(s string, repl map[string]string) string {
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		v, ok := repl[m[1]]
		if ok && !httpguts.ValidHeaderFieldValue(v) {
			return m[1]
		}
	}
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := repl[m[1]]; ok {
			return m[1]
		}
	}
	return ""
}
