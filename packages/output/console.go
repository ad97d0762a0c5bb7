package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/abdul-hamid-achik/reqspec/packages/core/placeholders"
	"github.com/abdul-hamid-achik/reqspec/packages/core/runner"
	"github.com/abdul-hamid-achik/reqspec/packages/http"
)

// maxBodyPreview bounds how much of a request body verbose output shows.
const maxBodyPreview = 2048

// formatValue truncates long values for display
func formatValue(v string, maxLen int) string {
	if len(v) > maxLen {
		return v[:maxLen] + "..."
	}
	return v
}

type ConsoleFormatter struct {
	writer      io.Writer
	verbose     bool
	quiet       bool
	noColor     bool
	prettyPrint bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

// WithQuiet prints only the response body.
func WithQuiet(q bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.quiet = q
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithPrettyPrint indents JSON response bodies.
func WithPrettyPrint(p bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.prettyPrint = p
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	if f.quiet {
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("reqspec"), version)
}

func (f *ConsoleFormatter) FormatResult(result *runner.Result) {
	if result == nil || result.Prepared == nil {
		return
	}

	if !f.quiet {
		f.FormatRequest(result.Request)
		if f.verbose {
			f.FormatReplacements(result.Placeholders, result.Values)
		}
		if !result.Executed {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(f.writer, "\n%s\n", yellow("Request not sent (dry run)"))
			return
		}
	}

	if result.Response != nil {
		f.FormatResponse(result.Response)
	}
}

// FormatRequest prints the request line, and with verbose output the
// headers and body too.
func (f *ConsoleFormatter) FormatRequest(req *http.Request) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s %s %s\n", bold(req.Method), req.FullURL(), faint(req.Version))
	if !f.verbose {
		return
	}

	for _, h := range req.Headers.Fields() {
		fmt.Fprintf(f.writer, "%s: %s\n", cyan(h.Name), h.Value)
	}

	switch req.Body.Kind {
	case parser.BodyRaw:
		fmt.Fprintf(f.writer, "%s\n%s\n", faint("body ("+req.ContentType()+")"), formatValue(req.Body.Content, maxBodyPreview))
	case parser.BodyBinary:
		fmt.Fprintf(f.writer, "%s %s\n", faint("body ("+req.ContentType()+") from"), req.Body.Path)
	case parser.BodyFormData, parser.BodyXFormURLEncoded:
		fmt.Fprintf(f.writer, "%s\n", faint("body ("+req.ContentType()+")"))
		for _, field := range req.Body.Fields {
			if field.File {
				fmt.Fprintf(f.writer, "  %s = @%s\n", field.Name, field.Value)
				continue
			}
			fmt.Fprintf(f.writer, "  %s = %s\n", field.Name, formatValue(field.Value, 100))
		}
	}
}

// FormatReplacements lists every placeholder with its value and the
// locations it was found in.
func (f *ConsoleFormatter) FormatReplacements(ph *placeholders.Placeholders, values *placeholders.PlaceholderValues) {
	if ph == nil || ph.Len() == 0 {
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Placeholders:"))
	for _, key := range ph.Keys() {
		locs := make([]string, 0)
		for _, loc := range ph.Locations(key) {
			locs = append(locs, loc.String())
		}
		where := strings.Join(locs, ", ")

		if values != nil {
			if v, ok := values.Get(key); ok {
				fmt.Fprintf(f.writer, "  %s %s = %s  (%s)\n", green("✓"), key, formatValue(v, 100), where)
				continue
			}
		}
		fmt.Fprintf(f.writer, "  %s %s %s  (%s)\n", red("✗"), key, red("unresolved"), where)
	}
}

func (f *ConsoleFormatter) FormatResponse(resp *http.Response) {
	if f.quiet {
		fmt.Fprintln(f.writer, f.body(resp))
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s %s %s\n", resp.Proto, statusColor(resp)(resp.Status), faint(fmt.Sprintf("(%dms)", resp.DurationMs())))
	if f.verbose {
		for name, values := range resp.Headers {
			for _, v := range values {
				fmt.Fprintf(f.writer, "%s: %s\n", cyan(name), v)
			}
		}
	}
	if len(resp.Body) > 0 {
		fmt.Fprintf(f.writer, "\n%s\n", f.body(resp))
	}
}

func (f *ConsoleFormatter) body(resp *http.Response) string {
	if !f.prettyPrint || !gjson.ValidBytes(resp.Body) {
		return resp.BodyString()
	}
	out := pretty.Pretty(resp.Body)
	if !color.NoColor {
		out = pretty.Color(out, nil)
	}
	return strings.TrimRight(string(out), "\n")
}

func statusColor(resp *http.Response) func(a ...any) string {
	switch {
	case resp.IsSuccess():
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case resp.IsRedirect():
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
