// Package config handles the configuration directory, file paths and settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName is the application directory name.
	AppName = "tasker"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides, e.g. TASKER_BASE_URL.
	EnvPrefix = "TASKER_"

	// DefaultBaseURL is the backend API root.
	DefaultBaseURL = "http://127.0.0.1:8000/api"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `koanf:"-"`

	// Debug enables debug logging.
	Debug bool `koanf:"-"`

	// Quiet suppresses informational output.
	Quiet bool `koanf:"-"`

	// BaseURL is the backend API root, without trailing slash.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each API call.
	Timeout time.Duration `koanf:"timeout"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// CoalesceRefresh makes concurrent 401s share a single token refresh.
	CoalesceRefresh bool `koanf:"coalesce_refresh"`
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasker or $HOME/.config/tasker.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:             dir,
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		LogFormat:       "text",
		CoalesceRefresh: true,
	}, nil
}

// Load creates a Config and applies, in increasing priority, the settings
// file in the config directory (if present) and TASKER_* environment variables.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if _, err := os.Stat(cfg.SettingsPath()); err == nil {
		if err := k.Load(file.Provider(cfg.SettingsPath()), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	// TASKER_BASE_URL -> base_url
	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the optional settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}
