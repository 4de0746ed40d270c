// Package config loads process settings from a TOML file and INSIGHTS_
// environment variables.
//
// Settings are resolved in order: built-in defaults, the config file, then
// environment variables. A missing config file is not an error.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/dshills/insights/internal/interpreter"
	"github.com/dshills/insights/internal/logging"
)

const appName = "insights"

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config is the full process configuration.
type Config struct {
	Logging      LoggingConfig     `toml:"logging"`
	Interpreter  InterpreterConfig `toml:"interpreter"`
	Telemetry    TelemetryConfig   `toml:"telemetry"`
	Storage      StorageConfig     `toml:"storage"`
	Rules        RulesConfig       `toml:"rules"`
	FeatureFlags map[string]bool   `toml:"feature_flags"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level       string `toml:"level"`
	Format      string `toml:"format"`
	Output      string `toml:"output"`
	Development bool   `toml:"development"`
}

// InterpreterConfig configures message routing.
type InterpreterConfig struct {
	Duplicates    string `toml:"duplicates"`
	RecoverPanics bool   `toml:"recover_panics"`
	Metrics       bool   `toml:"metrics"`
	LogMessages   bool   `toml:"log_messages"`
}

// TelemetryConfig configures telemetry publishing. Enabled is a process-wide
// switch; the user's opt-in still applies.
type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	Source  string `toml:"source"`
}

// StorageConfig selects where user data is persisted.
type StorageConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// RulesConfig configures Lua rule extensions. An empty dir disables them.
type RulesConfig struct {
	LuaDir string `toml:"lua_dir"`
	Watch  bool   `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Interpreter: InterpreterConfig{
			Duplicates:    interpreter.DuplicateOverwrite.String(),
			RecoverPanics: true,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
			Source:  "background",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(xdg.DataHome, appName, "userdata.db"),
		},
		Rules: RulesConfig{
			LuaDir: filepath.Join(xdg.ConfigHome, appName, "rules"),
		},
	}
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Validate checks every setting.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if _, err := interpreter.ParseDuplicatePolicy(c.Interpreter.Duplicates); err != nil {
		return fmt.Errorf("%w: interpreter.duplicates: %v", ErrInvalidConfig, err)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	return nil
}

// LoggingSettings converts the logging section.
func (c Config) LoggingSettings() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		Output:      c.Logging.Output,
		Development: c.Logging.Development,
		Service:     appName,
	}
}

// InterpreterSettings converts the interpreter section.
func (c Config) InterpreterSettings() (interpreter.Config, error) {
	policy, err := interpreter.ParseDuplicatePolicy(c.Interpreter.Duplicates)
	if err != nil {
		return interpreter.Config{}, fmt.Errorf("%w: interpreter.duplicates: %v", ErrInvalidConfig, err)
	}
	cfg := interpreter.DefaultConfig().
		WithDuplicates(policy).
		WithPanicRecovery(c.Interpreter.RecoverPanics)
	if c.Interpreter.Metrics {
		cfg = cfg.WithMetrics()
	}
	return cfg, nil
}
