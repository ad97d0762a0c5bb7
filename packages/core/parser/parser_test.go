package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Minimal(t *testing.T) {
	doc, err := Parse(`
[http]
url = "https://example.com"
`)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", doc.HTTP.URL)
	assert.Equal(t, MethodGet, doc.HTTP.Method)
	assert.Equal(t, HTTP11, doc.HTTP.Version)
	assert.Equal(t, BodyNone, doc.Body.Kind)
	assert.Zero(t, doc.Headers.Len())
	assert.Zero(t, doc.QueryParams.Len())
	assert.Zero(t, doc.Metadata.Len())
	assert.Zero(t, doc.Variables.Len())
	assert.Zero(t, doc.InputParams.Len())
}

func TestParse_FullDocument(t *testing.T) {
	doc, err := Parse(`
[http]
url = "https://api.example.com/{{version}}/notes"
method = "post"
version = "2"

[metadata]
name = "Create note"
tags = ["a", "b"]

[headers]
X-Second = "2"
Authorization = "Bearer {{token}}"
Accept = "application/json"

[query_params]
page = 1
ratio = 2.5
tags = ["work", "urgent"]

[body]
raw = '{"title": "{{title}}"}'

[variables]
version = "v1"

[input_params]
token = { hint = "API token" }
title = "Note title"
`)
	require.NoError(t, err)

	assert.Equal(t, MethodPost, doc.HTTP.Method)
	assert.Equal(t, HTTP2, doc.HTTP.Version)
	assert.Equal(t, []string{"X-Second", "Authorization", "Accept"}, doc.Headers.Keys())
	assert.Equal(t, []string{"page", "ratio", "tags"}, doc.QueryParams.Keys())

	tags, ok := doc.QueryParams.Get("tags")
	require.True(t, ok)
	assert.True(t, tags.IsMultiple())
	assert.Equal(t, "work,urgent", tags.Flatten())

	ratio, _ := doc.QueryParams.Get("ratio")
	assert.Equal(t, "2.5", ratio.Flatten())

	assert.Equal(t, BodyRaw, doc.Body.Kind)
	assert.Equal(t, `{"title": "{{title}}"}`, doc.Body.Raw)

	token, ok := doc.InputParams.Get("token")
	require.True(t, ok)
	assert.Equal(t, "API token", token.Hint)
	title, _ := doc.InputParams.Get("title")
	assert.Equal(t, "Note title", title.Hint)
}

func TestParse_Aliases(t *testing.T) {
	doc, err := Parse(`
[http]
url = "https://example.com"

[query-params]
q = "search"

[inputparams]
q = {}

[body]
form-urlencoded = { a = 1, b = [true, false] }
`)
	require.NoError(t, err)

	q, ok := doc.QueryParams.Get("q")
	require.True(t, ok)
	assert.Equal(t, "search", q.Flatten())
	_, ok = doc.InputParams.Get("q")
	assert.True(t, ok)

	require.Equal(t, BodyXFormURLEncoded, doc.Body.Kind)
	b, ok := doc.Body.URLEncoded.Get("b")
	require.True(t, ok)
	assert.Equal(t, "true,false", b.Flatten())
}

func TestParse_DuplicateAlias(t *testing.T) {
	_, err := Parse(`
[http]
url = "https://example.com"

[query_params]
a = 1

[queryparams]
b = 2
`)
	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "duplicate")
}

func TestParse_UnknownTopLevelIgnored(t *testing.T) {
	doc, err := Parse(`
[http]
url = "https://example.com"

[extras]
anything = 1
`)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", doc.HTTP.URL)
}

func TestParse_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no http", `[headers]
a = "b"`, "missing field `http`"},
		{"no url", `[http]
method = "GET"`, "missing field `url`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var merr *MissingFieldError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("[http\nurl = \"x\"")

	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	require.NotNil(t, derr.Span)
	assert.GreaterOrEqual(t, derr.Span.Line, 1)
}

func TestParse_DuplicateKey(t *testing.T) {
	_, err := Parse(`
[http]
url = "a"
url = "b"
`)
	var derr *DeserializationError
	assert.ErrorAs(t, err, &derr)
}

func TestParse_InvalidMethodAndVersion(t *testing.T) {
	_, err := Parse(`
[http]
url = "https://example.com"
method = "FETCH"
`)
	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "FETCH")

	_, err = Parse(`
[http]
url = "https://example.com"
version = "HTTP/4"
`)
	require.ErrorAs(t, err, &derr)
}

func TestParse_Headers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non string value", `Accept = 1`},
		{"invalid name", `"Bad Header" = "x"`},
		{"invalid value", `X-Test = "line\nbreak"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("[http]\nurl = \"https://example.com\"\n\n[headers]\n" + tt.input)
			var derr *DeserializationError
			assert.ErrorAs(t, err, &derr)
		})
	}
}

func TestParse_NestedArray(t *testing.T) {
	_, err := Parse(`
[http]
url = "https://example.com"

[query_params]
matrix = [[1, 2], [3]]
`)
	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "nested arrays")
}

func TestParseVersion(t *testing.T) {
	tests := map[string]Version{
		"HTTP/0.9": HTTP09,
		"1.0":      HTTP10,
		"1.1":      HTTP11,
		"http/1.1": HTTP11,
		"HTTP/2.0": HTTP2,
		"2":        HTTP2,
		"HTTP/3":   HTTP3,
	}
	for in, want := range tests {
		got, err := ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseVersion("spdy")
	assert.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("query")
	require.NoError(t, err)
	assert.Equal(t, MethodQuery, m)

	_, err = ParseMethod("")
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http]\nurl = \"https://example.com\"\n"), 0644))

	doc, err := ParseFile(filepath.Join(dir, "request"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", doc.HTTP.URL)

	doc, err = ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", doc.HTTP.URL)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing"))

	var ferr *InvalidFileError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, ".toml", filepath.Ext(ferr.Path))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "req.toml", ResolvePath("req"))
	assert.Equal(t, "req.txt", ResolvePath("req.txt"))
	assert.Equal(t, "-", ResolvePath("-"))
}
