package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	verboseFlag int // 0=off, 1=-v, 2=-vv
	quietFlag   bool
	noColorFlag bool
	configFlag  string

	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "reqspec",
	Short: "HTTP requests as TOML documents.",
	Long: `reqspec sends HTTP requests described in TOML files. Documents may
contain {{placeholders}} that are filled in from the environment, .env
files, configured environments, interactive input, declared variables
and built-in generators.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v, -vv for debug logs)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("REQSPEC_QUIET", false), "Only print the response body (env: REQSPEC_QUIET)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("REQSPEC_NO_COLOR", false), "Disable colored output (env: REQSPEC_NO_COLOR)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("REQSPEC_CONFIG", ""), "Path to config file (env: REQSPEC_CONFIG)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(placeholdersCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupLogging routes slog to stderr. Warnings are always shown, -v adds
// info and -vv debug records.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	switch {
	case verboseFlag >= 2:
		level = slog.LevelDebug
	case verboseFlag == 1:
		level = slog.LevelInfo
	}
	if quietFlag {
		level = slog.LevelError
	}

	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}
