package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	var h Header
	h.Add("Accept", "text/plain")
	h.Add("X-Tag", "a")
	h.Add("x-tag", "b")

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "a", h.Get("X-TAG"))
	assert.Equal(t, []string{"a", "b"}, h.Values("x-Tag"))
	assert.True(t, h.Has("accept"))
	assert.False(t, h.Has("Authorization"))

	err := h.Update("X-Tag", func(v string) (string, error) { return v + "!", nil })
	require.NoError(t, err)
	assert.Equal(t, []string{"a!", "b!"}, h.Values("X-Tag"))

	boom := errors.New("boom")
	err = h.Update("Accept", func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "text/plain", h.Get("Accept"))
}

func TestRequest_Clone(t *testing.T) {
	orig := &Request{
		URL:         "https://example.com",
		Metadata:    map[string]string{"a": "1"},
		QueryParams: []QueryParam{{"q", "1"}},
		Body:        Body{Fields: []FormField{{Name: "f", Value: "v"}}},
	}
	orig.Headers.Add("X", "1")

	c := orig.Clone()
	c.Metadata["a"] = "2"
	c.QueryParams[0].Value = "2"
	c.Body.Fields[0].Value = "changed"
	_ = c.Headers.Update("X", func(string) (string, error) { return "2", nil })

	assert.Equal(t, "1", orig.Metadata["a"])
	assert.Equal(t, "1", orig.QueryParams[0].Value)
	assert.Equal(t, "v", orig.Body.Fields[0].Value)
	assert.Equal(t, "1", orig.Headers.Get("X"))
}

func TestRequest_FullURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		qp   []QueryParam
		want string
	}{
		{"no params", "https://e.com/a", nil, "https://e.com/a"},
		{"params", "https://e.com/a", []QueryParam{{"q", "a b"}, {"q", "c"}}, "https://e.com/a?q=a+b&q=c"},
		{"existing query", "https://e.com/a?x=1", []QueryParam{{"y", "2"}}, "https://e.com/a?x=1&y=2"},
		{"fragment", "https://e.com/a#top", []QueryParam{{"y", "2"}}, "https://e.com/a?y=2#top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Request{URL: tt.url, QueryParams: tt.qp}
			assert.Equal(t, tt.want, r.FullURL())
		})
	}
}

func TestRequest_ContentType(t *testing.T) {
	r := &Request{Body: Body{MIME: MIMEText}}
	assert.Equal(t, MIMEText, r.ContentType())

	r.Headers.Add("Content-Type", "application/json")
	assert.Equal(t, "application/json", r.ContentType())
}
