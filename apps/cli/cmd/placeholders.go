package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/reqspec/packages/builtin"
	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
	"github.com/abdul-hamid-achik/reqspec/packages/core/placeholders"
	"github.com/abdul-hamid-achik/reqspec/packages/http"
	"github.com/spf13/cobra"
)

var placeholdersCmd = &cobra.Command{
	Use:   "placeholders [file|-]",
	Short: "List the placeholders of a request document",
	Long: `List every {{placeholder}} in a request document together with
the places it appears in and any default the document declares.

Examples:
  reqspec placeholders api.toml`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: placeholdersCommand,
}

func placeholdersCommand(cmd *cobra.Command, args []string) error {
	path := parser.StdinPath
	if len(args) == 1 {
		path = args[0]
	}

	doc, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", parser.ResolvePath(path), err)
	}

	req := http.BuildRequest(doc)
	ph := placeholders.Scan(req)
	out := cmd.OutOrStdout()

	if ph.Len() == 0 {
		fmt.Fprintln(out, "No placeholders found")
		return nil
	}

	for _, key := range ph.Keys() {
		fmt.Fprintf(out, "%s\n", key)

		locs := make([]string, 0)
		for _, loc := range ph.Locations(key) {
			locs = append(locs, loc.String())
		}
		fmt.Fprintf(out, "  in: %s\n", strings.Join(locs, ", "))

		if v, ok := req.Variables[key]; ok {
			fmt.Fprintf(out, "  variable: %q\n", v)
		}
		if p, ok := req.InputParams[key]; ok {
			hint := p.Hint
			if hint == "" {
				hint = "-"
			}
			fmt.Fprintf(out, "  input: %s\n", hint)
		}
		if strings.HasPrefix(key, builtin.Prefix) {
			fmt.Fprintln(out, "  builtin")
		}
	}
	return nil
}
