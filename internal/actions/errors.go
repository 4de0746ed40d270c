package actions

import "errors"

// Action creator errors.
var (
	// ErrInvalidPayload indicates a message payload could not be decoded.
	ErrInvalidPayload = errors.New("actions: invalid payload")

	// ErrMissingTab indicates a tab scoped message arrived without a tab id.
	ErrMissingTab = errors.New("actions: missing tab id")

	// ErrMissingContainer indicates the hub lacks the container a callback targets.
	ErrMissingContainer = errors.New("actions: missing action container")
)
