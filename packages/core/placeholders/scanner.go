package placeholders

import (
	"cmp"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/abdul-hamid-achik/reqspec/packages/http"
)

var tokenPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_.\-]*)\}\}`)

// Token returns the placeholder token for key.
func Token(key string) string {
	return "{{" + key + "}}"
}

// LocationKind names the request surface a placeholder was found in.
type LocationKind int

const (
	LocationURL LocationKind = iota
	LocationHeaders
	LocationQueryParams
	LocationBody
	LocationBodyForm
)

func (k LocationKind) String() string {
	switch k {
	case LocationURL:
		return "url"
	case LocationHeaders:
		return "headers"
	case LocationQueryParams:
		return "query_params"
	case LocationBody:
		return "body"
	case LocationBodyForm:
		return "body_form"
	default:
		return "unknown"
	}
}

// Location is where a placeholder occurs. Name is the header name, query
// key or form field name; it is empty for the URL and the body.
type Location struct {
	Kind LocationKind
	Name string
}

func URLLocation() Location { return Location{Kind: LocationURL} }

func HeaderLocation(name string) Location { return Location{Kind: LocationHeaders, Name: name} }

func QueryLocation(key string) Location { return Location{Kind: LocationQueryParams, Name: key} }

func BodyLocation() Location { return Location{Kind: LocationBody} }

func BodyFormLocation(name string) Location { return Location{Kind: LocationBodyForm, Name: name} }

func (l Location) String() string {
	if l.Name == "" {
		return l.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", l.Kind, l.Name)
}

func compareLocations(a, b Location) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// Placeholders maps each key to the set of locations it occurs in.
type Placeholders struct {
	entries map[string]map[Location]struct{}
}

func NewPlaceholders() *Placeholders {
	return &Placeholders{entries: make(map[string]map[Location]struct{})}
}

// Add records key at loc. Adding the same pair twice has no effect.
func (p *Placeholders) Add(key string, loc Location) {
	locs, ok := p.entries[key]
	if !ok {
		locs = make(map[Location]struct{})
		p.entries[key] = locs
	}
	locs[loc] = struct{}{}
}

// Keys returns the placeholder keys in sorted order.
func (p *Placeholders) Keys() []string {
	return slices.Sorted(maps.Keys(p.entries))
}

// Locations returns the locations of key, URL first and body last.
func (p *Placeholders) Locations(key string) []Location {
	locs := slices.Collect(maps.Keys(p.entries[key]))
	slices.SortFunc(locs, compareLocations)
	return locs
}

func (p *Placeholders) Has(key string) bool {
	_, ok := p.entries[key]
	return ok
}

func (p *Placeholders) Len() int { return len(p.entries) }

// Filter returns the placeholders whose key satisfies keep.
func (p *Placeholders) Filter(keep func(key string) bool) *Placeholders {
	out := NewPlaceholders()
	for key, locs := range p.entries {
		if keep(key) {
			out.entries[key] = maps.Clone(locs)
		}
	}
	return out
}

// Merge adds every key and location of other to p.
func (p *Placeholders) Merge(other *Placeholders) {
	for key, locs := range other.entries {
		for loc := range locs {
			p.Add(key, loc)
		}
	}
}

// Scan collects every placeholder in the request together with where it
// was found.
func Scan(req *http.Request) *Placeholders {
	p := NewPlaceholders()

	p.scan(req.URL, URLLocation())

	for _, h := range req.Headers.Fields() {
		p.scan(h.Value, HeaderLocation(h.Name))
	}

	for _, qp := range req.QueryParams {
		p.scan(qp.Value, QueryLocation(qp.Key))
	}

	p.scan(req.Body.Content, BodyLocation())
	p.scan(req.Body.Path, BodyLocation())
	for _, f := range req.Body.Fields {
		p.scan(f.Value, BodyFormLocation(f.Name))
	}

	return p
}

func (p *Placeholders) scan(s string, loc Location) {
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		p.Add(m[1], loc)
	}
}
