package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/reqspec/packages/builtin"
	"github.com/abdul-hamid-achik/reqspec/packages/core/env"
	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/abdul-hamid-achik/reqspec/packages/core/placeholders"
	"github.com/abdul-hamid-achik/reqspec/packages/http"
	"github.com/abdul-hamid-achik/reqspec/packages/prompt"
)

// DefaultMaxPasses is the number of scan, resolve and render passes made
// when Config.MaxPasses is not set.
const DefaultMaxPasses = 1

type Runner struct {
	client   *http.Client
	config   *Config
	logger   *slog.Logger
	prompter prompt.Prompter
	lookup   env.LookupFunc
}

type Config struct {
	Environment     string
	EnvFile         string
	Environments    map[string]map[string]any
	NoInput         bool
	AllowUnresolved bool
	DryRun          bool
	MaxPasses       int
	Timeout         time.Duration
	NoRedirect      bool
	MaxRedirects    int
	Insecure        bool
	Proxy           string
	DefaultHeaders  map[string]string
}

type Option func(*Runner)

// WithLogger sets the logger stages report to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithPrompter sets how declared input params are asked for. Without one
// no prompting happens.
func WithPrompter(p prompt.Prompter) Option {
	return func(r *Runner) {
		r.prompter = p
	}
}

// WithClient replaces the HTTP client built from Config.
func WithClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

// WithLookup replaces the process environment lookup.
func WithLookup(lookup env.LookupFunc) Option {
	return func(r *Runner) {
		r.lookup = lookup
	}
}

func NewRunner(cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Runner{
		config: cfg,
		logger: slog.New(slog.DiscardHandler),
		lookup: env.OSLookup,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prepared is a request that went through the templating pipeline but was
// not sent.
type Prepared struct {
	Path         string
	Document     *parser.Document
	Original     *http.Request
	Request      *http.Request
	Placeholders *placeholders.Placeholders
	Values       *placeholders.PlaceholderValues
	Passes       int
}

type Result struct {
	*Prepared
	Response *http.Response
	Executed bool
}

// Load parses the document at path; "-" reads standard input.
func (r *Runner) Load(path string) (*parser.Document, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", parser.ResolvePath(path), err)
	}
	r.logger.Debug("parsed document",
		"path", parser.ResolvePath(path),
		"method", doc.HTTP.Method,
		"url", doc.HTTP.URL,
		"body", doc.Body.Kind.String(),
	)
	return doc, nil
}

// Prepare parses, builds and renders the document at path. When
// placeholders stay unresolved and that is not allowed, the partly
// rendered request is returned together with a
// *placeholders.UnresolvedError.
func (r *Runner) Prepare(ctx context.Context, path string) (*Prepared, error) {
	doc, err := r.Load(path)
	if err != nil {
		return nil, err
	}

	req := http.BuildRequest(doc)
	sources, err := r.Sources(req, path)
	if err != nil {
		return nil, err
	}

	p, err := r.PrepareRequest(ctx, req, placeholders.NewResolver(sources...))
	if p != nil {
		p.Path = path
		p.Document = doc
	}
	return p, err
}

// Sources returns the default value source chain for req: process
// environment, .env file, configured environment, interactive input,
// declared variables and built-in generators.
func (r *Runner) Sources(req *http.Request, path string) ([]placeholders.ValueSource, error) {
	sources := []placeholders.ValueSource{env.NewEnvSource(r.lookup)}

	if r.config.EnvFile != "" {
		dotenv, err := env.NewDotEnvSource(r.config.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
		sources = append(sources, dotenv)
	}

	if r.config.Environment != "" {
		environment, err := env.LoadEnvironment(r.config.Environment, r.config.Environments)
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		sources = append(sources, env.NewEnvironmentSource(environment))
	}

	if r.promptingEnabled(path) {
		sources = append(sources, prompt.NewInputSource(req.InputParams, r.prompter))
	}

	sources = append(sources, env.NewVariablesSource(req.Variables), builtin.NewSource())
	return sources, nil
}

func (r *Runner) promptingEnabled(path string) bool {
	return !r.config.NoInput && r.prompter != nil && path != parser.StdinPath
}

// PrepareRequest runs scan, resolve and render passes over req. Every pass
// only resolves keys not looked at before, so a value is asked for at most
// once. Passes stop early when nothing new resolves.
func (r *Runner) PrepareRequest(ctx context.Context, req *http.Request, resolver *placeholders.Resolver) (*Prepared, error) {
	maxPasses := r.config.MaxPasses
	if maxPasses < 1 {
		maxPasses = DefaultMaxPasses
	}

	p := &Prepared{
		Original:     req,
		Request:      req,
		Placeholders: placeholders.NewPlaceholders(),
		Values:       placeholders.NewPlaceholderValues(),
	}

	for p.Passes < maxPasses {
		pending := placeholders.Scan(p.Request).Filter(func(key string) bool {
			return !p.Values.Has(key)
		})
		if pending.Len() == 0 {
			break
		}
		p.Passes++
		p.Placeholders.Merge(pending)

		values := resolver.Resolve(ctx, pending)
		p.Values.Merge(values)
		r.logger.Debug("resolved placeholders",
			"pass", p.Passes,
			"found", pending.Len(),
			"resolved", len(values.Resolved()),
		)

		rendered, err := placeholders.Render(p.Request, pending, values)
		if err != nil {
			return p, fmt.Errorf("rendering request: %w", err)
		}
		p.Request = rendered

		if len(values.Resolved()) == 0 {
			break
		}
	}

	if unresolved := p.Values.Unresolved(); len(unresolved) > 0 {
		if !r.config.AllowUnresolved {
			return p, &placeholders.UnresolvedError{Keys: unresolved}
		}
		r.logger.Warn("sending request with unresolved placeholders", "keys", unresolved)
	}
	return p, nil
}

// Run prepares the document at path and sends it, unless DryRun is set.
// The returned Result is non-nil whenever preparation got far enough to
// build a request.
func (r *Runner) Run(ctx context.Context, path string) (*Result, error) {
	p, err := r.Prepare(ctx, path)
	if p == nil {
		return nil, err
	}
	result := &Result{Prepared: p}
	if err != nil {
		return result, err
	}

	if r.config.DryRun {
		r.logger.Debug("dry run, request not sent", "url", p.Request.FullURL())
		return result, nil
	}

	client := r.clientFor(path)
	r.logger.Debug("sending request", "method", p.Request.Method, "url", p.Request.FullURL(), "version", p.Request.Version)
	resp, err := client.Do(ctx, p.Request)
	if err != nil {
		return result, fmt.Errorf("executing request: %w", err)
	}
	r.logger.Debug("received response", "status", resp.StatusCode, "duration", resp.Duration)

	result.Response = resp
	result.Executed = true
	return result, nil
}

// clientFor returns the configured client, resolving body file paths
// against the directory of the document.
func (r *Runner) clientFor(path string) *http.Client {
	if r.client != nil {
		return r.client
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(!r.config.NoRedirect),
		http.WithValidateSSL(!r.config.Insecure),
	}
	if r.config.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(r.config.Timeout))
	}
	if r.config.MaxRedirects > 0 {
		clientOpts = append(clientOpts, http.WithMaxRedirects(r.config.MaxRedirects))
	}
	if r.config.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(r.config.Proxy))
	}
	if len(r.config.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(r.config.DefaultHeaders))
	}
	if path != parser.StdinPath {
		clientOpts = append(clientOpts, http.WithBaseDir(filepath.Dir(parser.ResolvePath(path))))
	}
	return http.NewClient(clientOpts...)
}
