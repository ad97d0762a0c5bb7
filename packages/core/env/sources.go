package env

import (
	"context"
	"os"
)

// LookupFunc reads a variable from an environment. It has the signature of
// os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads the process environment.
var OSLookup LookupFunc = os.LookupEnv

// MapLookup serves lookups from a fixed map.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// EnvSource resolves placeholders from environment variables.
type EnvSource struct {
	lookup LookupFunc
}

// NewEnvSource returns a source backed by lookup, or by the process
// environment when lookup is nil.
func NewEnvSource(lookup LookupFunc) *EnvSource {
	if lookup == nil {
		lookup = OSLookup
	}
	return &EnvSource{lookup: lookup}
}

func (s *EnvSource) Pick(_ context.Context, key string) (string, bool) {
	return s.lookup(key)
}

func (s *EnvSource) Name() string { return "env" }

// MapSource resolves placeholders from a fixed set of values.
type MapSource struct {
	name   string
	values map[string]string
}

func NewMapSource(name string, values map[string]string) *MapSource {
	if values == nil {
		values = make(map[string]string)
	}
	return &MapSource{name: name, values: values}
}

// NewVariablesSource serves the variables declared in a request document.
func NewVariablesSource(vars map[string]string) *MapSource {
	return NewMapSource("variables", vars)
}

// NewDotEnvSource serves the values of the .env file at path.
func NewDotEnvSource(path string) (*MapSource, error) {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	return NewMapSource("dotenv", vars), nil
}

func (s *MapSource) Pick(_ context.Context, key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MapSource) Name() string { return s.name }

func (s *MapSource) Len() int { return len(s.values) }
