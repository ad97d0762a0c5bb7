// Package output provides formatters for displaying run results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//
// Both formatters show the rendered request, the placeholder replacements
// and the response. JSON response bodies can be pretty printed.
package output
