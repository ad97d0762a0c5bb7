package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/reqspec/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	forceExample      bool
	exampleWithConfig bool
)

var exampleCmd = &cobra.Command{
	Use:   "example [dir]",
	Short: "Write an example request document",
	Long: `Write example.toml, a request document showing headers, query
params, a body, variables, input params and built-in generators.

With --with-config a .reqspec.yaml with two environments is written too.

Examples:
  reqspec example
  reqspec example ./requests --with-config
  reqspec example --force`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: exampleCommand,
}

func init() {
	exampleCmd.Flags().BoolVarP(&forceExample, "force", "f", false, "Overwrite existing files")
	exampleCmd.Flags().BoolVar(&exampleWithConfig, "with-config", false, "Also write a .reqspec.yaml config file")
}

const exampleDocument = `# Send it with: reqspec run example.toml --env dev

[http]
method = "POST"
url = "{{baseUrl}}/notes"
version = "HTTP/1.1"

[metadata]
description = "Create a note"

[headers]
Accept = "application/json"
Content-Type = "application/json"
X-Request-Id = "{{fn.uuid}}"

[query_params]
draft = false
tags = ["work", "{{tag}}"]

[body]
raw = '''
{
  "title": "{{title}}",
  "author": "{{USER}}",
  "createdAt": "{{fn.timestamp}}"
}
'''

[variables]
tag = "reqspec"

[input_params]
title = "Title of the note"
`

func exampleCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	exampleFile := filepath.Join(dir, "example.toml")
	configFile := filepath.Join(dir, config.ConfigFilenames[0])

	targets := []string{exampleFile}
	if exampleWithConfig {
		targets = append(targets, configFile)
	}
	if !forceExample {
		for _, f := range targets {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	if err := os.WriteFile(exampleFile, []byte(exampleDocument), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	if exampleWithConfig {
		cfg := config.DefaultConfig()
		cfg.DefaultEnvironment = "dev"
		cfg.Headers = map[string]string{
			"User-Agent": "reqspec/" + version,
		}
		cfg.Environments = map[string]map[string]any{
			"dev": {
				"baseUrl": "http://localhost:3000",
			},
			"staging": {
				"baseUrl": "https://staging.api.example.com",
			},
		}
		if err := cfg.SaveConfig(configFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'reqspec run %s' to send it.\n", exampleFile)
	return nil
}
