package luarules

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrInvalidDefinition is returned when a script defines a rule without
	// the required fields.
	ErrInvalidDefinition = errors.New("invalid rule definition")

	// ErrBadReturn is returned when a rule function returns an unexpected value.
	ErrBadReturn = errors.New("unexpected lua return value")
)
