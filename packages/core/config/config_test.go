package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.IsDefault())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetNoInput())

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)
}

func TestFindAndLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `
defaultEnvironment: staging
timeout: 5s
followRedirects: false
maxRedirects: 3
noInput: true
prettyPrint: true
headers:
  User-Agent: reqspec-test
environments:
  staging:
    host: staging.example.com
    port: 8443
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reqspec.yaml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.DefaultEnvironment)
	assert.False(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL(), "unset values keep their defaults")
	assert.Equal(t, 3, cfg.MaxRedirects)
	assert.True(t, cfg.GetNoInput())
	assert.True(t, cfg.GetPrettyPrint())
	assert.Equal(t, "reqspec-test", cfg.Headers["User-Agent"])
	assert.Equal(t, "staging.example.com", cfg.Environments["staging"]["host"])
	assert.Equal(t, 8443, cfg.Environments["staging"]["port"])
	assert.False(t, cfg.IsDefault())

	timeout, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("timeout: [1, 2"), 0644))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	badTimeout := filepath.Join(dir, "timeout.yaml")
	require.NoError(t, os.WriteFile(badTimeout, []byte("timeout: soon"), 0644))
	_, err = LoadConfig(badTimeout)
	assert.ErrorContains(t, err, "invalid timeout")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestTimeoutDuration_Milliseconds(t *testing.T) {
	cfg := &Config{Timeout: "1500"}
	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "1"}

	merged := base.Merge(&Config{
		Timeout:     "10s",
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"B": "2"},
		Environments: map[string]map[string]any{
			"dev": {"host": "localhost"},
		},
	})

	assert.Equal(t, "10s", merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)
	assert.Equal(t, "1", base.Headers["B"], "merge must not modify the receiver")
	assert.Contains(t, merged.Environments, "dev")

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqspec.yaml")
	cfg := DefaultConfig()
	cfg.DefaultEnvironment = "dev"
	cfg.Environments = map[string]map[string]any{"dev": {"host": "localhost"}}

	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dev", loaded.DefaultEnvironment)
	assert.Equal(t, "localhost", loaded.Environments["dev"]["host"])
}
