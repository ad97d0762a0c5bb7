// Package env provides the value sources placeholders are resolved from.
//
// It provides:
//   - The process environment, behind an injectable LookupFunc
//   - Values from .env files
//   - Named environments from the configuration file
//   - The variables declared in the request document
package env
