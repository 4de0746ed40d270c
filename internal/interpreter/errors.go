package interpreter

import "errors"

// Interpreter errors.
var (
	// ErrDuplicateRegistration indicates a callback is already registered for the message type.
	ErrDuplicateRegistration = errors.New("interpreter: duplicate registration")

	// ErrNilCallback indicates a nil callback was registered.
	ErrNilCallback = errors.New("interpreter: nil callback")

	// ErrEmptyMessageType indicates a registration without a message type.
	ErrEmptyMessageType = errors.New("interpreter: empty message type")

	// ErrMessageCancelled indicates a pre-interpret hook cancelled the message.
	ErrMessageCancelled = errors.New("interpreter: message cancelled by hook")

	// ErrCallbackPanic indicates the callback panicked.
	ErrCallbackPanic = errors.New("interpreter: callback panic")
)
