package env

import (
	"fmt"
	"maps"
	"slices"
)

// Environment is a named set of values from the configuration file.
type Environment struct {
	Name      string
	Variables map[string]any
}

// LoadEnvironment picks envName out of the configured environments.
func LoadEnvironment(envName string, configEnvs map[string]map[string]any) (*Environment, error) {
	vars, ok := configEnvs[envName]
	if !ok {
		return nil, fmt.Errorf("environment %q not found (available: %v)", envName, slices.Sorted(maps.Keys(configEnvs)))
	}

	env := &Environment{
		Name:      envName,
		Variables: make(map[string]any, len(vars)),
	}
	for k, v := range vars {
		env.Variables[k] = v
	}
	return env, nil
}

// NewEnvironmentSource serves the values of a configured environment as
// strings.
func NewEnvironmentSource(env *Environment) *MapSource {
	values := make(map[string]string, len(env.Variables))
	for k, v := range env.Variables {
		values[k] = stringify(v)
	}
	return NewMapSource("environment:"+env.Name, values)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
