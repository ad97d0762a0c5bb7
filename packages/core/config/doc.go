// Package config handles configuration loading and management for reqspec.
//
// It provides functionality for:
//   - Loading configuration from .reqspec.yaml, .reqspec.yml or reqspec.yaml
//   - Default configuration values
//   - Named environments that feed placeholder values
package config
