package rules

import "errors"

var (
	// ErrMissingProperty is returned when a scan result lacks a property a
	// formatter needs.
	ErrMissingProperty = errors.New("missing property")

	// ErrInvalidProperty is returned when a property has the wrong type.
	ErrInvalidProperty = errors.New("invalid property")

	// ErrDuplicateRule is returned when registering a rule id twice.
	ErrDuplicateRule = errors.New("rule already registered")

	// ErrInvalidRule is returned when registering an incomplete rule.
	ErrInvalidRule = errors.New("invalid rule")
)
