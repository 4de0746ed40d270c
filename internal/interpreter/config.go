package interpreter

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens when a message type is registered twice.
type DuplicatePolicy uint8

const (
	// DuplicateOverwrite replaces the existing callback (last registration wins).
	DuplicateOverwrite DuplicatePolicy = iota

	// DuplicateReject keeps the existing callback and returns ErrDuplicateRegistration.
	DuplicateReject
)

// String returns the policy name used in configuration files.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateOverwrite:
		return "overwrite"
	case DuplicateReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy parses "overwrite" or "reject".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overwrite":
		return DuplicateOverwrite, nil
	case "reject":
		return DuplicateReject, nil
	default:
		return DuplicateOverwrite, fmt.Errorf("interpreter: unknown duplicate policy %q", s)
	}
}

// Config holds interpreter configuration options.
type Config struct {
	// Duplicates selects the duplicate registration policy.
	Duplicates DuplicatePolicy

	// RecoverFromPanic wraps callback execution in panic recovery.
	RecoverFromPanic bool

	// EnableMetrics enables per message type statistics.
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Duplicates:       DuplicateOverwrite,
		RecoverFromPanic: true,
		EnableMetrics:    false,
	}
}

// WithDuplicates returns a copy of the config with the duplicate policy set.
func (c Config) WithDuplicates(p DuplicatePolicy) Config {
	c.Duplicates = p
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}
