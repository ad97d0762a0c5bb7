package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
)

func newRequest(method, url string) *Request {
	return &Request{Method: method, URL: url, Version: string(parser.HTTP11)}
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		assert.Equal(t, "a=1&tag=x&tag=y", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	req := newRequest("GET", server.URL+"/test")
	req.QueryParams = []QueryParam{{"a", "1"}, {"tag", "x"}, {"tag", "y"}}

	resp, err := NewClient().Do(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.True(t, resp.IsJSON())
	assert.True(t, resp.IsSuccess())
	assert.Contains(t, resp.BodyString(), "hello")
}

func TestClient_RawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, MIMEText, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "hello", string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	req := newRequest("POST", server.URL)
	req.Body = Body{Kind: parser.BodyRaw, Content: "hello", MIME: MIMEText}

	resp, err := NewClient().Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestClient_ExplicitContentTypeWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := newRequest("POST", server.URL)
	req.Headers.Add("content-type", "application/json")
	req.Body = Body{Kind: parser.BodyRaw, Content: `{}`, MIME: MIMEText}

	_, err := NewClient().Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_RepeatedHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"a", "b"}, r.Header.Values("X-Tag"))
		assert.Equal(t, "override", r.Header.Get("Authorization"))
		assert.Equal(t, "kept", r.Header.Get("X-Default"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := newRequest("GET", server.URL)
	req.Headers.Add("X-Tag", "a")
	req.Headers.Add("X-Tag", "b")
	req.Headers.Add("Authorization", "override")

	client := NewClient(WithDefaultHeaders(map[string]string{
		"Authorization": "default",
		"X-Default":     "kept",
	}))
	_, err := client.Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_URLEncodedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MIMEURLEncoded, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "b=2&a=hello+world", string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := newRequest("POST", server.URL)
	req.Body = Body{
		Kind:   parser.BodyXFormURLEncoded,
		MIME:   MIMEURLEncoded,
		Fields: []FormField{{Name: "b", Value: "2"}, {Name: "a", Value: "hello world"}},
	}

	_, err := NewClient().Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_MultipartBody(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("file content"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "alice", r.FormValue("name"))

		file, header, err := r.FormFile("upload")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "note.txt", header.Filename)
		assert.Equal(t, "file content", string(content))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := newRequest("POST", server.URL)
	req.Headers.Add("Content-Type", "multipart/form-data")
	req.Body = Body{
		Kind: parser.BodyFormData,
		MIME: MIMEFormData,
		Fields: []FormField{
			{Name: "name", Value: "alice"},
			{Name: "upload", Value: "note.txt", File: true},
		},
	}

	_, err := NewClient(WithBaseDir(dir)).Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_BinaryBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, MIMEBinary, r.Header.Get("Content-Type"))
		assert.Equal(t, int64(3), r.ContentLength)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte{0x01, 0x02, 0x03}, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req := newRequest("PUT", server.URL)
	req.Body = Body{Kind: parser.BodyBinary, Path: path, MIME: MIMEBinary}

	_, err := NewClient().Do(context.Background(), req)
	require.NoError(t, err)
}

func TestClient_MissingBinaryFile(t *testing.T) {
	req := newRequest("PUT", "http://localhost")
	req.Body = Body{Kind: parser.BodyBinary, Path: filepath.Join(t.TempDir(), "missing.bin"), MIME: MIMEBinary}

	_, err := NewClient().Do(context.Background(), req)

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrInvalidFile, rerr.Kind)
}

func TestClient_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	_, err := client.Do(context.Background(), newRequest("GET", server.URL))

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrTimeout, rerr.Kind)
}

func TestClient_Redirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/final" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, server.URL+"/final", http.StatusFound)
	}))
	defer server.Close()

	t.Run("follows by default", func(t *testing.T) {
		resp, err := NewClient().Do(context.Background(), newRequest("GET", server.URL+"/start"))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("no redirect returns the redirect", func(t *testing.T) {
		resp, err := NewClient(WithFollowRedirects(false)).Do(context.Background(), newRequest("GET", server.URL+"/start"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.True(t, resp.IsRedirect())
	})

	t.Run("max redirects exceeded", func(t *testing.T) {
		_, err := NewClient(WithMaxRedirects(0)).Do(context.Background(), newRequest("GET", server.URL+"/start"))
		var rerr *RequestError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, ErrRedirect, rerr.Kind)
	})
}

func TestClient_InvalidURL(t *testing.T) {
	tests := []string{"ftp://example.com", "not a url", "http://"}
	for _, u := range tests {
		_, err := NewClient().Do(context.Background(), newRequest("GET", u))
		var rerr *RequestError
		require.ErrorAs(t, err, &rerr, u)
		assert.Equal(t, ErrInvalidURL, rerr.Kind, u)
	}
}

func TestClient_UnsupportedVersion(t *testing.T) {
	req := newRequest("GET", "http://localhost")
	req.Version = string(parser.HTTP3)

	_, err := NewClient().Do(context.Background(), req)

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrUnsupportedVersion, rerr.Kind)
}

func TestClient_FailedConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient().Do(context.Background(), newRequest("GET", url))

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrFailedConnection, rerr.Kind)
}

func TestEncodeForm(t *testing.T) {
	got := EncodeForm([]FormField{{Name: "q", Value: "a&b"}, {Name: "x y", Value: "1"}})
	assert.Equal(t, "q=a%26b&x+y=1", got)
}
