package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load resolves the configuration from defaults, the file at path, and the
// process environment. An empty path uses DefaultPath.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(NewEnvLoader(EnvPrefix)); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults without reading the environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode("<data>", data); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, data)
}

// decode overlays TOML data. Keys absent from data keep their current value;
// unknown keys are rejected.
func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, _ = derr.Position()
		}
		return perr
	}
	return nil
}

func (c *Config) mergeEnv(l *EnvLoader) error {
	values := l.Load()
	if len(values) == 0 {
		return nil
	}

	// Round-trip through TOML so env values land on the typed fields.
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding environment settings: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return &ParseError{Path: "environment", Err: err}
	}
	return nil
}
