package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file...>",
	Short: "Validate request documents without sending them",
	Long: `Parse request documents and report syntax, type and shape errors
without resolving placeholders or sending anything.

Examples:
  reqspec validate api.toml
  reqspec validate requests/*.toml`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	var errs []error
	for _, file := range args {
		name := parser.ResolvePath(file)
		if _, err := parser.ParseFile(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", name)
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}
