package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/reqspec/packages/core/runner"
	"github.com/abdul-hamid-achik/reqspec/packages/http"
)

// JSONFormatter collects one run and writes it as a single JSON object on
// Flush.
type JSONFormatter struct {
	writer io.Writer
	result JSONResult
}

type JSONOption func(*JSONFormatter)

type JSONResult struct {
	Version      string            `json:"version,omitempty"`
	File         string            `json:"file,omitempty"`
	Request      *JSONRequest      `json:"request,omitempty"`
	Replacements []JSONReplacement `json:"replacements,omitempty"`
	Response     *JSONResponse     `json:"response,omitempty"`
	Executed     bool              `json:"executed"`
	Error        string            `json:"error,omitempty"`
}

type JSONRequest struct {
	Method  string           `json:"method"`
	URL     string           `json:"url"`
	Version string           `json:"version"`
	Headers []JSONHeader     `json:"headers,omitempty"`
	Body    *JSONRequestBody `json:"body,omitempty"`
}

type JSONHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type JSONRequestBody struct {
	Kind    string          `json:"kind"`
	MIME    string          `json:"mime"`
	Content string          `json:"content,omitempty"`
	Path    string          `json:"path,omitempty"`
	Fields  []JSONFormField `json:"fields,omitempty"`
}

type JSONFormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	File  bool   `json:"file,omitempty"`
}

type JSONReplacement struct {
	Key       string   `json:"key"`
	Value     string   `json:"value,omitempty"`
	Resolved  bool     `json:"resolved"`
	Locations []string `json:"locations"`
}

type JSONResponse struct {
	StatusCode int                 `json:"statusCode"`
	Status     string              `json:"status"`
	Proto      string              `json:"proto"`
	Headers    map[string][]string `json:"headers,omitempty"`
	Body       any                 `json:"body,omitempty"`
	DurationMs int64               `json:"durationMs"`
}

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	f.result.Version = version
}

func (f *JSONFormatter) FormatResult(result *runner.Result) {
	if result == nil || result.Prepared == nil {
		return
	}
	f.result.File = result.Path
	f.result.Request = jsonRequest(result.Request)
	f.result.Replacements = jsonReplacements(result.Prepared)
	f.result.Executed = result.Executed
	if result.Response != nil {
		f.result.Response = jsonResponse(result.Response)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	if err != nil {
		f.result.Error = err.Error()
	}
}

func jsonRequest(req *http.Request) *JSONRequest {
	jr := &JSONRequest{
		Method:  req.Method,
		URL:     req.FullURL(),
		Version: req.Version,
	}
	for _, h := range req.Headers.Fields() {
		jr.Headers = append(jr.Headers, JSONHeader{Name: h.Name, Value: h.Value})
	}
	if !req.Body.IsEmpty() {
		jr.Body = &JSONRequestBody{
			Kind:    req.Body.Kind.String(),
			MIME:    req.ContentType(),
			Content: req.Body.Content,
			Path:    req.Body.Path,
		}
		for _, field := range req.Body.Fields {
			jr.Body.Fields = append(jr.Body.Fields, JSONFormField(field))
		}
	}
	return jr
}

func jsonReplacements(p *runner.Prepared) []JSONReplacement {
	if p.Placeholders == nil {
		return nil
	}
	var out []JSONReplacement
	for _, key := range p.Placeholders.Keys() {
		r := JSONReplacement{Key: key, Locations: make([]string, 0)}
		for _, loc := range p.Placeholders.Locations(key) {
			r.Locations = append(r.Locations, loc.String())
		}
		if p.Values != nil {
			r.Value, r.Resolved = p.Values.Get(key)
		}
		out = append(out, r)
	}
	return out
}

func jsonResponse(resp *http.Response) *JSONResponse {
	jr := &JSONResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Proto:      resp.Proto,
		Headers:    resp.Headers,
		DurationMs: resp.DurationMs(),
	}
	if len(resp.Body) > 0 {
		if gjson.ValidBytes(resp.Body) {
			jr.Body = json.RawMessage(resp.Body)
		} else {
			jr.Body = resp.BodyString()
		}
	}
	return jr
}

func (f *JSONFormatter) Flush() error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.result)
}
