package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/reqspec/packages/core/config"
	"github.com/abdul-hamid-achik/reqspec/packages/core/env"
	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/abdul-hamid-achik/reqspec/packages/core/runner"
	"github.com/abdul-hamid-achik/reqspec/packages/output"
	"github.com/abdul-hamid-achik/reqspec/packages/prompt"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file|-]",
	Short: "Render and send the request described by a TOML document",
	Long: `Render the placeholders of a request document and send it.

Without a file, or with "-", the document is read from standard input.
The .toml extension may be omitted.

Examples:
  reqspec run create-user.toml
  reqspec run create-user --env staging
  reqspec run api.toml --env-file .env.local --no-input
  cat api.toml | reqspec run - --dry-run -v
  reqspec run api.toml --output json --pretty-print`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	envFlag             string
	envFileFlag         string
	noInputFlag         bool
	allowUnresolvedFlag bool
	timeoutFlag         string
	noRedirectFlag      bool
	maxRedirectsFlag    int
	insecureFlag        bool
	proxyFlag           string
	prettyPrintFlag     bool
	dryRunFlag          bool
	outputFlag          string
	maxPassesFlag       int
	watchFlag           bool
)

func init() {
	// Value source flags
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("REQSPEC_ENV", ""), "Environment from the config file to use (env: REQSPEC_ENV)")
	runCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("REQSPEC_ENV_FILE", ""), "Path to .env file for placeholder values (env: REQSPEC_ENV_FILE)")
	runCmd.Flags().BoolVar(&noInputFlag, "no-input", getEnvBool("REQSPEC_NO_INPUT", false), "Never prompt for input params (env: REQSPEC_NO_INPUT)")
	runCmd.Flags().BoolVar(&allowUnresolvedFlag, "allow-unresolved", getEnvBool("REQSPEC_ALLOW_UNRESOLVED", false), "Send the request even if placeholders stay unresolved (env: REQSPEC_ALLOW_UNRESOLVED)")
	runCmd.Flags().IntVar(&maxPassesFlag, "max-passes", getEnvInt("REQSPEC_MAX_PASSES", runner.DefaultMaxPasses), "Number of render passes, for values that contain placeholders (env: REQSPEC_MAX_PASSES)")

	// Output flags
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("REQSPEC_OUTPUT", "console"), "Output format: console, json (env: REQSPEC_OUTPUT)")
	runCmd.Flags().BoolVar(&prettyPrintFlag, "pretty-print", getEnvBool("REQSPEC_PRETTY_PRINT", false), "Pretty print JSON response bodies (env: REQSPEC_PRETTY_PRINT)")

	// Execution flags
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("REQSPEC_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: REQSPEC_TIMEOUT)")
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Render the request without sending it")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the document for changes and re-run it")

	// Network flags
	runCmd.Flags().BoolVar(&noRedirectFlag, "no-redirect", getEnvBool("REQSPEC_NO_REDIRECT", false), "Do not follow redirects (env: REQSPEC_NO_REDIRECT)")
	runCmd.Flags().IntVar(&maxRedirectsFlag, "max-redirects", getEnvInt("REQSPEC_MAX_REDIRECTS", 0), "Maximum redirects to follow (env: REQSPEC_MAX_REDIRECTS)")
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("REQSPEC_PROXY", ""), "Proxy URL for HTTP requests (env: REQSPEC_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("REQSPEC_INSECURE", false), "Disable SSL certificate validation (env: REQSPEC_INSECURE)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.Result)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

func newFormatter(cmd *cobra.Command, prettyPrint bool) (Formatter, error) {
	switch strings.ToLower(outputFlag) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout())), nil
	case "console", "":
		return output.NewConsoleFormatter(
			output.WithWriter(cmd.OutOrStdout()),
			output.WithVerbose(verboseFlag > 0),
			output.WithQuiet(quietFlag),
			output.WithNoColor(noColorFlag),
			output.WithPrettyPrint(prettyPrint),
		), nil
	default:
		return nil, usageError(fmt.Errorf("unknown output format %q (use console or json)", outputFlag))
	}
}

// runnerConfig merges the config file with the command line. Flags win
// over the file, the file wins over built-in defaults.
func runnerConfig(fileConfig *config.Config) (*runner.Config, error) {
	timeoutCfg := fileConfig
	if timeoutFlag != "" {
		timeoutCfg = &config.Config{Timeout: timeoutFlag}
	}
	timeout, err := timeoutCfg.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid timeout value: %w (use format like 30s, 1m, 500ms)", err)
	}

	environment := envFlag
	if environment == "" {
		environment = fileConfig.DefaultEnvironment
	}

	proxy := fileConfig.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}

	maxRedirects := fileConfig.MaxRedirects
	if maxRedirectsFlag > 0 {
		maxRedirects = maxRedirectsFlag
	}

	return &runner.Config{
		Environment:     environment,
		EnvFile:         envFileFlag,
		Environments:    fileConfig.Environments,
		NoInput:         noInputFlag || fileConfig.GetNoInput(),
		AllowUnresolved: allowUnresolvedFlag || fileConfig.GetAllowUnresolved(),
		DryRun:          dryRunFlag,
		MaxPasses:       maxPassesFlag,
		Timeout:         timeout,
		NoRedirect:      noRedirectFlag || !fileConfig.GetFollowRedirects(),
		MaxRedirects:    maxRedirects,
		Insecure:        insecureFlag || !fileConfig.GetValidateSSL(),
		Proxy:           proxy,
		DefaultHeaders:  fileConfig.Headers,
	}, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	path := parser.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return configError(err)
	}

	cfg, err := runnerConfig(fileConfig)
	if err != nil {
		return configError(err)
	}
	if cfg.Environment != "" {
		if _, err := env.LoadEnvironment(cfg.Environment, cfg.Environments); err != nil {
			return configError(err)
		}
	}
	if cfg.EnvFile != "" {
		if _, err := env.LoadDotEnv(cfg.EnvFile); err != nil {
			return configError(fmt.Errorf("loading env file: %w", err))
		}
	}
	prettyPrint := prettyPrintFlag || fileConfig.GetPrettyPrint()

	// Validate the output format before anything is sent.
	if _, err := newFormatter(cmd, prettyPrint); err != nil {
		return err
	}

	opts := []runner.Option{runner.WithLogger(logger)}
	if prompt.IsInteractive() {
		opts = append(opts, runner.WithPrompter(prompt.NewTerminalPrompter(os.Stdin, cmd.ErrOrStderr())))
	}
	r := runner.NewRunner(cfg, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runOnce := func() error {
		formatter, _ := newFormatter(cmd, prettyPrint)
		formatter.FormatHeader(version)

		result, err := r.Run(ctx, path)
		if result != nil {
			formatter.FormatResult(result)
		}
		if err != nil {
			formatter.FormatError(err)
		}

		if flushable, ok := formatter.(Flushable); ok {
			if ferr := flushable.Flush(); ferr != nil {
				return fmt.Errorf("error writing output: %w", ferr)
			}
		}
		return err
	}

	err = runOnce()
	if !watchFlag {
		return err
	}
	if path == parser.StdinPath {
		return usageError(fmt.Errorf("--watch needs a file, not standard input"))
	}

	return watch(ctx, cmd, path, runOnce)
}

// watch re-runs the document whenever it or the env file changes, until
// ctx is cancelled.
func watch(ctx context.Context, cmd *cobra.Command, path string, runOnce func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	targets := map[string]bool{filepath.Clean(parser.ResolvePath(path)): true}
	if envFileFlag != "" {
		targets[filepath.Clean(envFileFlag)] = true
	}

	watchedDirs := make(map[string]bool)
	for target := range targets {
		dir := filepath.Dir(target)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watchedDirs[dir] = true
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var (
		mu            sync.Mutex
		runMu         sync.Mutex
		debounceTimer *time.Timer
	)
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Editors often replace files instead of writing them in place.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}

			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				runMu.Lock()
				defer runMu.Unlock()

				fmt.Fprintf(cmd.ErrOrStderr(), "\n\nFile changed: %s\nRe-running...\n", name)
				if err := runOnce(); err != nil {
					logger.Debug("watch run failed", "error", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
