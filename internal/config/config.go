// Package config resolves cratestack settings from defaults, an optional
// config file, CRATESTACK_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CaptShanks/cratestack/internal/crane"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. CRATESTACK_THEME
	EnvPrefix = "CRATESTACK"
	// AppDir is the per-user directory under $HOME for history and caches
	AppDir = ".cratestack"

	DefaultLogLevel            = "warn"
	DefaultMaxHistory          = 50
	DefaultUpdateCheckInterval = 7
)

// Setting keys; flags with the same name override them
const (
	KeyMaxStacks           = "max-stacks"
	KeyTheme               = "theme"
	KeyHistory             = "history"
	KeyHistoryDir          = "history-dir"
	KeyMaxHistory          = "max-history"
	KeySkipUpdateCheck     = "skip-update-check"
	KeyUpdateCheckInterval = "update-check-interval"
	KeyLogLevel            = "log-level"
	KeyOutput              = "output"

	// FlagNoHistory inverts KeyHistory on the command line
	FlagNoHistory = "no-history"
)

// Theme values
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Config is the resolved configuration
type Config struct {
	MaxStacks           int
	Theme               string
	History             bool
	HistoryDir          string
	MaxHistory          int
	SkipUpdateCheck     bool
	UpdateCheckInterval int // days
	LogLevel            string
	Output              string

	// File is the config file that was read, empty if none
	File string
}

// Load resolves the configuration. flags may be nil. When explicitPath is
// set the file must exist; otherwise config.{yaml,json,toml} is looked up in
// the user config directories and silently skipped when absent.
func Load(flags *pflag.FlagSet, explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyMaxStacks, crane.DefaultMaxStacks)
	v.SetDefault(KeyTheme, ThemeAuto)
	v.SetDefault(KeyHistory, true)
	v.SetDefault(KeyHistoryDir, defaultHistoryDir())
	v.SetDefault(KeyMaxHistory, DefaultMaxHistory)
	v.SetDefault(KeySkipUpdateCheck, false)
	v.SetDefault(KeyUpdateCheckInterval, DefaultUpdateCheckInterval)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyOutput, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("config")
		for _, dir := range SearchDirs() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := &Config{
		MaxStacks:           v.GetInt(KeyMaxStacks),
		Theme:               strings.ToLower(strings.TrimSpace(v.GetString(KeyTheme))),
		History:             isTruthy(v.GetString(KeyHistory)),
		HistoryDir:          expandHome(v.GetString(KeyHistoryDir)),
		MaxHistory:          v.GetInt(KeyMaxHistory),
		SkipUpdateCheck:     isTruthy(v.GetString(KeySkipUpdateCheck)),
		UpdateCheckInterval: v.GetInt(KeyUpdateCheckInterval),
		LogLevel:            v.GetString(KeyLogLevel),
		Output:              v.GetString(KeyOutput),
		File:                v.ConfigFileUsed(),
	}

	if flags != nil {
		if f := flags.Lookup(FlagNoHistory); f != nil && f.Changed && isTruthy(f.Value.String()) {
			cfg.History = false
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxStacks < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxStacks, c.MaxStacks)
	}
	switch c.Theme {
	case "", ThemeAuto:
		c.Theme = ThemeAuto
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("unknown %s %q (expected auto, light, or dark)", KeyTheme, c.Theme)
	}
	if c.UpdateCheckInterval <= 0 {
		c.UpdateCheckInterval = DefaultUpdateCheckInterval
	}
	if c.MaxHistory <= 0 {
		c.MaxHistory = DefaultMaxHistory
	}
	if c.HistoryDir == "" {
		c.History = false
	}
	return nil
}

// SearchDirs lists the directories searched for config.yaml, most specific first
func SearchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "cratestack"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "cratestack"), filepath.Join(home, AppDir))
	}
	return dirs
}

// Dir returns ~/.cratestack
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, AppDir), nil
}

func defaultHistoryDir() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
