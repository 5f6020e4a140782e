package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), Default(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout())
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	path := writeConfig(t, `
[api]
base_url = "https://todo.example.com/api/"
timeout_seconds = 3

[logging]
level = "debug"
file = "/tmp/tada.log"

[ui]
theme = "neon"
group = true
`)
	cfg, err := Load(path, Default(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "https://todo.example.com/api/", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/tada.log", cfg.Logging.File)
	assert.Equal(t, "neon", cfg.UI.Theme)
	assert.True(t, cfg.UI.Group)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "http://10.0.0.2:9000/api")
	path := writeConfig(t, "[api]\nbase_url = \"http://localhost/api\"\n")
	cfg, err := Load(path, Default(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.2:9000/api", cfg.API.BaseURL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cases := map[string]string{
		"bad toml":   "[api\n",
		"scheme":     "[api]\nbase_url = \"ftp://host/api\"\n",
		"no host":    "[api]\nbase_url = \"http:///api\"\n",
		"timeout":    "[api]\ntimeout_seconds = 0\n",
		"level":      "[logging]\nlevel = \"loud\"\n",
		"theme":      "[ui]\ntheme = \"plaid\"\n",
		"empty base": "[api]\nbase_url = \"  \"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), Default(), Overrides{})
			assert.Error(t, err)
		})
	}
}

func TestDefaultPathHonorsEnv(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/tada.toml")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/tada.toml", path)
}

func TestLoadOverridesWinOverBadLayers(t *testing.T) {
	t.Setenv(EnvAPIURL, "ftp://x")
	path := writeConfig(t, "[logging]\nlevel = \"verbose\"\n\n[ui]\ntheme = \"plaid\"\n")

	_, err := Load(path, Default(), Overrides{})
	require.Error(t, err)

	cfg, err := Load(path, Default(), Overrides{
		BaseURL:  "http://localhost/api",
		LogLevel: "debug",
		Theme:    "mono",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/api", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "mono", cfg.UI.Theme)
}
