package config

import (
	"os"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INSIGHTS_"

// sections lists the config sections environment variables may target.
var sections = []string{"logging", "interpreter", "telemetry", "storage", "rules"}

// EnvLoader reads INSIGHTS_ environment variables into a nested settings map.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	lookup  func() []string
}

// NewEnvLoader creates a loader for prefix, which includes the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.Environ,
	}
}

// defaultEnvMapping returns short names for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":  "logging.level",
		prefix + "LOG_FORMAT": "logging.format",
		prefix + "DB":         "storage.path",
		prefix + "RULES_DIR":  "rules.lua_dir",
	}
}

// AddMapping adds an explicit variable to path mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// Load returns the settings found in the environment. Variables that name
// no known section are ignored.
func (l *EnvLoader) Load() map[string]any {
	config := make(map[string]any)

	for _, env := range l.lookup() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, ok := l.mapping[name]
		if !ok {
			path, ok = l.envToPath(name)
		}
		if !ok {
			continue
		}
		setByPath(config, path, parseValue(value))
	}
	return config
}

// envToPath converts INSIGHTS_INTERPRETER_RECOVER_PANICS to
// interpreter.recover_panics.
func (l *EnvLoader) envToPath(env string) (string, bool) {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	for _, section := range sections {
		if key, ok := strings.CutPrefix(name, section+"_"); ok && key != "" {
			return section + "." + key, true
		}
	}
	return "", false
}

// parseValue converts booleans; everything else stays a string.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
