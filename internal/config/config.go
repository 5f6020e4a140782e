// Package config loads the TOML settings file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	appDir         = "tada"
	configFileName = "config.toml"

	// EnvConfig overrides the config file path.
	EnvConfig = "TADA_CONFIG"
	// EnvAPIURL overrides api.base_url.
	EnvAPIURL = "TADA_API_URL"
)

var themes = []string{"classic", "neon", "mono"}

type Config struct {
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty: stderr for commands, discarded in the TUI
}

type UIConfig struct {
	Theme string `toml:"theme"`
	Group bool   `toml:"group"` // group `ls` output by pending/done
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme: "classic",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/tada/config.toml, or TADA_CONFIG when set.
func DefaultPath() (string, error) {
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return env, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appDir, configFileName), nil
}

// Overrides are command-line values. Empty fields leave the merged value alone.
type Overrides struct {
	BaseURL  string
	LogLevel string
	Theme    string
}

func (o Overrides) apply(cfg *Config) {
	if v := strings.TrimSpace(o.BaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(o.Theme); v != "" {
		cfg.UI.Theme = v
	}
}

// Load reads path over defaults, then applies TADA_API_URL and finally ov.
// A missing or empty file yields defaults. Validation runs once on the merged
// result, so a flag can replace a bad file or env value.
func Load(path string, defaults Config, ov Overrides) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		case len(content) > 0:
			if err := toml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode toml: %w", err)
			}
		}
	}
	if env := strings.TrimSpace(os.Getenv(EnvAPIURL)); env != "" {
		cfg.API.BaseURL = env
	}
	ov.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := ValidateBaseURL(c.API.BaseURL); err != nil {
		return err
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0, got %d", c.API.TimeoutSeconds)
	}
	if _, err := log.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	theme := strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if theme != "" && !slices.Contains(themes, theme) {
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	return nil
}

// ValidateBaseURL accepts absolute http(s) URLs only.
func ValidateBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("api.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api.base_url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api.base_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: missing host", raw)
	}
	return nil
}
