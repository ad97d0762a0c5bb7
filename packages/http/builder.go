package http

import (
	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
)

// Default MIME types for each body kind.
const (
	MIMEText       = "text/plain; charset=utf-8"
	MIMEBinary     = "application/octet-stream"
	MIMEFormData   = "multipart/form-data"
	MIMEURLEncoded = "application/x-www-form-urlencoded"
)

// BuildRequest flattens a parsed document into a canonical Request. Every
// multi-valued query parameter becomes one pair per value; everything else
// is flattened to a single string.
func BuildRequest(doc *parser.Document) *Request {
	r := &Request{
		Method:      string(doc.HTTP.Method),
		URL:         doc.HTTP.URL,
		Version:     string(doc.HTTP.Version),
		Metadata:    flattenTable(doc.Metadata),
		Variables:   flattenTable(doc.Variables),
		InputParams: make(map[string]parser.InputParam),
	}

	if doc.Headers != nil {
		for name, value := range doc.Headers.All() {
			r.Headers.Add(name, value)
		}
	}

	if doc.QueryParams != nil {
		for key, arr := range doc.QueryParams.All() {
			if !arr.IsMultiple() {
				r.QueryParams = append(r.QueryParams, QueryParam{Key: key, Value: arr.Flatten()})
				continue
			}
			for _, v := range arr.Values() {
				r.QueryParams = append(r.QueryParams, QueryParam{Key: key, Value: v.String()})
			}
		}
	}

	if doc.InputParams != nil {
		for key, p := range doc.InputParams.All() {
			r.InputParams[key] = p
		}
	}

	r.Body = buildBody(doc.Body)
	return r
}

func buildBody(b parser.Body) Body {
	switch b.Kind {
	case parser.BodyRaw:
		return Body{Kind: b.Kind, Content: b.Raw, MIME: MIMEText}
	case parser.BodyBinary:
		return Body{Kind: b.Kind, Path: b.Binary, MIME: MIMEBinary}
	case parser.BodyFormData:
		body := Body{Kind: b.Kind, MIME: MIMEFormData}
		if b.FormData != nil {
			for name, v := range b.FormData.All() {
				if v.IsFile {
					body.Fields = append(body.Fields, FormField{Name: name, Value: v.File, File: true})
					continue
				}
				body.Fields = append(body.Fields, FormField{Name: name, Value: v.Text.Flatten()})
			}
		}
		return body
	case parser.BodyXFormURLEncoded:
		body := Body{Kind: b.Kind, MIME: MIMEURLEncoded}
		if b.URLEncoded != nil {
			for name, v := range b.URLEncoded.All() {
				body.Fields = append(body.Fields, FormField{Name: name, Value: v.Flatten()})
			}
		}
		return body
	default:
		return Body{Kind: parser.BodyNone}
	}
}

func flattenTable(t *parser.Table[parser.PrimitiveArray]) map[string]string {
	out := make(map[string]string)
	if t == nil {
		return out
	}
	for k, v := range t.All() {
		out[k] = v.Flatten()
	}
	return out
}
