package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client executes rendered requests.
type Client struct {
	h1             *http.Client
	h2             *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	baseDir        string
	defaultHeaders map[string]string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.h1 = c.newHTTPClient(false)
	c.h2 = c.newHTTPClient(true)
	return c
}

func (c *Client) newHTTPClient(http2 bool) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		ForceAttemptHTTP2:   http2,
	}
	if !http2 {
		// A non-nil empty map turns off the automatic h2 upgrade.
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) > c.maxRedirects {
			return fmt.Errorf("stopped after %d redirects: %w", c.maxRedirects, errTooManyRedirects)
		}
		return nil
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithDefaultHeaders sets headers sent with every request unless the
// request sets them itself.
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithBaseDir sets the directory relative body file paths are resolved
// against.
func WithBaseDir(dir string) ClientOption {
	return func(c *Client) {
		c.baseDir = dir
	}
}

// Do sends the request and reads the whole response body.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := req.FullURL()
	if err := ValidateURL(fullURL); err != nil {
		return nil, &RequestError{Kind: ErrInvalidURL, URL: fullURL, Err: err}
	}

	client, err := c.clientFor(req.Version)
	if err != nil {
		return nil, &RequestError{Kind: ErrUnsupportedVersion, URL: fullURL, Err: err}
	}

	body, contentType, err := c.encodeBody(req.Body)
	if err != nil {
		return nil, &RequestError{Kind: ErrInvalidFile, URL: fullURL, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, body)
	if err != nil {
		if body != nil {
			body.Close()
		}
		return nil, &RequestError{Kind: ErrInvalidURL, URL: fullURL, Err: err}
	}
	if f, ok := body.(*os.File); ok {
		if info, statErr := f.Stat(); statErr == nil {
			httpReq.ContentLength = info.Size()
		}
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}

	seen := make(map[string]bool)
	for _, f := range req.Headers.Fields() {
		if strings.EqualFold(f.Name, "Host") {
			httpReq.Host = f.Value
			continue
		}
		key := http.CanonicalHeaderKey(f.Name)
		if !seen[key] {
			httpReq.Header.Del(key)
			seen[key] = true
		}
		httpReq.Header.Add(key, f.Value)
	}

	switch {
	case req.Body.Kind == parser.BodyFormData && isMultipart(httpReq.Header.Get("Content-Type")):
		// the boundary is only known once the body is encoded
		httpReq.Header.Set("Content-Type", contentType)
	case contentType != "" && !req.Headers.Has("Content-Type"):
		httpReq.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, classify(fullURL, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classify(fullURL, err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Proto:      httpResp.Proto,
		Headers:    httpResp.Header,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

func (c *Client) clientFor(version string) (*http.Client, error) {
	switch parser.Version(version) {
	case "", parser.HTTP10, parser.HTTP11:
		return c.h1, nil
	case parser.HTTP2:
		return c.h2, nil
	default:
		return nil, fmt.Errorf("%s is not supported by this client", version)
	}
}

// encodeBody returns the request body reader and its content type.
func (c *Client) encodeBody(b Body) (io.ReadCloser, string, error) {
	switch b.Kind {
	case parser.BodyRaw:
		return io.NopCloser(strings.NewReader(b.Content)), b.MIME, nil
	case parser.BodyBinary:
		f, err := os.Open(c.resolvePath(b.Path))
		if err != nil {
			return nil, "", err
		}
		return f, b.MIME, nil
	case parser.BodyFormData:
		buf, ct, err := BuildMultipartBody(b.Fields, c.baseDir)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(buf), ct, nil
	case parser.BodyXFormURLEncoded:
		return io.NopCloser(strings.NewReader(EncodeForm(b.Fields))), b.MIME, nil
	default:
		return nil, "", nil
	}
}

func (c *Client) resolvePath(path string) string {
	if filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), MIMEFormData) &&
		!strings.Contains(strings.ToLower(contentType), "boundary=")
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}

// EncodeForm encodes fields as application/x-www-form-urlencoded, keeping
// their order.
func EncodeForm(fields []FormField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(neturl.QueryEscape(f.Name))
		b.WriteByte('=')
		b.WriteString(neturl.QueryEscape(f.Value))
	}
	return b.String()
}

// BuildMultipartBody creates a multipart form data body from form fields
func BuildMultipartBody(fields []FormField, baseDir string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range fields {
		if !field.File {
			if err := writer.WriteField(field.Name, field.Value); err != nil {
				return nil, "", err
			}
			continue
		}

		filePath := field.Value
		if !filepath.IsAbs(filePath) && baseDir != "" {
			filePath = filepath.Join(baseDir, filePath)
		}

		file, err := os.Open(filePath)
		if err != nil {
			return nil, "", err
		}

		part, err := writer.CreateFormFile(field.Name, filepath.Base(filePath))
		if err != nil {
			file.Close()
			return nil, "", err
		}

		_, err = io.Copy(part, file)
		file.Close()
		if err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
