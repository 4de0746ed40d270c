package messages

import "errors"

// Message errors.
var (
	// ErrMalformedMessage indicates the envelope is not valid JSON or has no message type.
	ErrMalformedMessage = errors.New("messages: malformed message")

	// ErrInvalidPayload indicates the payload is not valid JSON.
	ErrInvalidPayload = errors.New("messages: invalid payload")
)
