// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultAPIURL         = "http://localhost:3000/api/todo"
	DefaultTimeoutSeconds = 10
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultTheme          = "default"

	projectFileName = "todo-tui.toml"
	userDirName     = ".todo-tui"
	userFileName    = "config.toml"
)

// Config holds the full client configuration.
type Config struct {
	// APIURL is the full task collection URL the client talks to.
	APIURL string `toml:"api_url"`

	// TimeoutSeconds bounds every individual HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Logging
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
	LogFormat string `toml:"log_format"` // text, json
	LogFile   string `toml:"log_file"`   // empty: stderr in CLI mode, discarded in TUI mode

	// Theme selects the lipgloss palette (default, mono).
	Theme string `toml:"theme"`
}

// Load builds configuration in priority order:
//  1. Defaults
//  2. User config file (~/.todo-tui/config.toml)
//  3. Project config file (todo-tui.toml or .todo-tui.toml in cwd)
//  4. Environment variables (TODO_*)
//
// CLI flags are applied afterwards by the caller and override everything.
func Load() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FlagOverrides carries the root-flag values that may override loaded
// configuration. Zero values mean "flag not set".
type FlagOverrides struct {
	APIURL         string
	TimeoutSeconds int
	LogLevel       string
	LogFile        string
	Theme          string
}

// ApplyFlags layers set flags on top of file and environment values.
func (c *Config) ApplyFlags(f FlagOverrides) {
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.TimeoutSeconds > 0 {
		c.TimeoutSeconds = f.TimeoutSeconds
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		c.LogFile = f.LogFile
	}
	if f.Theme != "" {
		c.Theme = f.Theme
	}
}

// Validate rejects values no component could act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	return nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Theme = DefaultTheme
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, userDirName, userFileName)
	if fileExists(p) {
		return p
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{projectFileName, "." + projectFileName} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func loadFromEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TODO_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_THEME")); v != "" {
		cfg.Theme = v
	}
}
