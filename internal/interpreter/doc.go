// Package interpreter routes inbound messages to the callback registered for
// their message type.
//
// The interpreter owns an explicit routing table. It is constructed once per
// execution context and passed to the action creators that populate it:
//
//	interp := interpreter.New(interpreter.DefaultConfig(), logger)
//	creator := actions.NewGlobalActionCreator(hub, interp, adapter, telemetry, logger)
//	if err := creator.RegisterCallbacks(); err != nil {
//	    return err
//	}
//
//	handled, err := interp.Interpret(msg)
//
// # Execution
//
// When a message is interpreted:
//
//  1. Pre-interpret hooks run (any hook may cancel the message)
//  2. The callback registered for the message type is looked up
//  3. The callback is invoked with the raw payload and tab id (with optional
//     panic recovery)
//  4. Post-interpret hooks run
//  5. Metrics are recorded (if enabled)
//
// Messages with no registered callback are dropped: Interpret reports
// handled=false with a nil error. Delivery is at-most-once and nothing is
// retried.
//
// # Duplicate registration
//
// Registering a second callback for a message type follows Config.Duplicates.
// DuplicateOverwrite keeps the last registration and logs a warning;
// DuplicateReject fails with ErrDuplicateRegistration.
//
// # Concurrency
//
// Callbacks run synchronously on the caller's goroutine, one message at a
// time per caller. The routing table is guarded so registration and lookup may
// race safely, but callbacks themselves are not serialized by the interpreter.
package interpreter
