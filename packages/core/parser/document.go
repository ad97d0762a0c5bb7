package parser

import (
	"fmt"
	"strings"
)

// Document is the typed form of a request document.
type Document struct {
	HTTP        HTTP
	Metadata    *Table[PrimitiveArray]
	Headers     *Table[string]
	QueryParams *Table[PrimitiveArray]
	Body        Body
	Variables   *Table[PrimitiveArray]
	InputParams *Table[InputParam]
}

func newDocument() *Document {
	return &Document{
		HTTP:        HTTP{Method: MethodGet, Version: DefaultVersion},
		Metadata:    NewTable[PrimitiveArray](),
		Headers:     NewTable[string](),
		QueryParams: NewTable[PrimitiveArray](),
		Body:        Body{Kind: BodyNone},
		Variables:   NewTable[PrimitiveArray](),
		InputParams: NewTable[InputParam](),
	}
}

type HTTP struct {
	URL     string
	Method  Method
	Version Version
}

// InputParam describes a value the user may be asked for interactively.
type InputParam struct {
	Hint string
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
	MethodQuery   Method = "QUERY"
)

var methods = []Method{
	MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete,
	MethodHead, MethodOptions, MethodConnect, MethodTrace, MethodQuery,
}

// ParseMethod matches s against the known methods ignoring case.
func ParseMethod(s string) (Method, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, m := range methods {
		if string(m) == upper {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown HTTP method %q", s)
}

type Version string

const (
	HTTP09 Version = "HTTP/0.9"
	HTTP10 Version = "HTTP/1.0"
	HTTP11 Version = "HTTP/1.1"
	HTTP2  Version = "HTTP/2"
	HTTP3  Version = "HTTP/3"

	DefaultVersion = HTTP11
)

var versionSpellings = map[string]Version{
	"0.9": HTTP09,
	"1.0": HTTP10,
	"1":   HTTP10,
	"1.1": HTTP11,
	"2":   HTTP2,
	"2.0": HTTP2,
	"3":   HTTP3,
	"3.0": HTTP3,
}

// ParseVersion accepts "HTTP/1.1", "http/2.0", "1.1", "2" and similar.
func ParseVersion(s string) (Version, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "HTTP/")
	if version, ok := versionSpellings[v]; ok {
		return version, nil
	}
	return "", fmt.Errorf("unknown HTTP version %q", s)
}

type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyRaw
	BodyBinary
	BodyFormData
	BodyXFormURLEncoded
)

func (k BodyKind) String() string {
	switch k {
	case BodyRaw:
		return "raw"
	case BodyBinary:
		return "binary"
	case BodyFormData:
		return "form_data"
	case BodyXFormURLEncoded:
		return "x_www_form_urlencoded"
	default:
		return "none"
	}
}

// Body is the document body. Only the field matching Kind is set.
type Body struct {
	Kind       BodyKind
	Raw        string
	Binary     string
	FormData   *Table[FormDataValue]
	URLEncoded *Table[PrimitiveArray]
}

// FormDataValue is either text or a file path.
type FormDataValue struct {
	Text   PrimitiveArray
	File   string
	IsFile bool
}

func TextValue(v PrimitiveArray) FormDataValue { return FormDataValue{Text: v} }

func FileValue(path string) FormDataValue { return FormDataValue{File: path, IsFile: true} }
