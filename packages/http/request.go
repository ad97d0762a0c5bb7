package http

import (
	"maps"
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
)

// Request is the canonical, flattened form of a request document. It is
// what placeholders are scanned in and rendered into.
type Request struct {
	Method      string
	URL         string
	Version     string
	Metadata    map[string]string
	Headers     Header
	QueryParams []QueryParam
	Body        Body
	Variables   map[string]string
	InputParams map[string]parser.InputParam
}

type QueryParam struct {
	Key   string
	Value string
}

// Body is the canonical request body. Content is set for raw bodies, Path
// for binary bodies and Fields for both form kinds.
type Body struct {
	Kind    parser.BodyKind
	Content string
	Path    string
	MIME    string
	Fields  []FormField
}

// FormField is one form entry. When File is set, Value holds a file path.
type FormField struct {
	Name  string
	Value string
	File  bool
}

func (b Body) IsEmpty() bool { return b.Kind == parser.BodyNone }

// ContentType returns the explicit Content-Type header, falling back to the
// body MIME type.
func (r *Request) ContentType() string {
	if ct := r.Headers.Get("Content-Type"); ct != "" {
		return ct
	}
	return r.Body.MIME
}

// FullURL returns the URL with the query pairs appended in order.
func (r *Request) FullURL() string {
	if len(r.QueryParams) == 0 {
		return r.URL
	}
	var b strings.Builder
	for i, qp := range r.QueryParams {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(qp.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(qp.Value))
	}

	base, fragment, hasFragment := strings.Cut(r.URL, "#")
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
		if strings.HasSuffix(base, "?") || strings.HasSuffix(base, "&") {
			sep = ""
		}
	}
	full := base + sep + b.String()
	if hasFragment {
		full += "#" + fragment
	}
	return full
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	c := *r
	c.Metadata = maps.Clone(r.Metadata)
	c.Variables = maps.Clone(r.Variables)
	c.InputParams = maps.Clone(r.InputParams)
	c.Headers = r.Headers.Clone()
	c.QueryParams = append([]QueryParam(nil), r.QueryParams...)
	c.Body.Fields = append([]FormField(nil), r.Body.Fields...)
	return &c
}

// HeaderField is a single header line.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered header multimap. Names compare case-insensitively.
type Header struct {
	fields []HeaderField
}

func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, HeaderField{Name: name, Value: value})
}

// Get returns the first value for name.
func (h Header) Get(name string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

func (h Header) Values(name string) []string {
	var values []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

func (h Header) Has(name string) bool {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

func (h Header) Len() int { return len(h.fields) }

// Fields returns a copy of the header lines in order.
func (h Header) Fields() []HeaderField {
	return append([]HeaderField(nil), h.fields...)
}

func (h Header) Clone() Header {
	return Header{fields: append([]HeaderField(nil), h.fields...)}
}

// Update rewrites the value of every line named name. It stops at the first
// error returned by fn.
func (h *Header) Update(name string, fn func(string) (string, error)) error {
	for i, f := range h.fields {
		if !strings.EqualFold(f.Name, name) {
			continue
		}
		v, err := fn(f.Value)
		if err != nil {
			return err
		}
		h.fields[i].Value = v
	}
	return nil
}
