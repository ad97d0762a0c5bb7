// Package cmd implements the reqspec CLI commands using Cobra.
//
// Available commands:
//   - run: Render a request document and send it
//   - validate: Check documents for errors without sending them
//   - placeholders: List the placeholders of a document
//   - example: Write an example document and config file
//   - version: Show reqspec version information
//   - completion: Generate shell completion scripts
//
// Flags can also be set through REQSPEC_* environment variables, and a
// .reqspec.yaml file supplies defaults and named environments.
package cmd
