// Package flux provides the action and store primitives used to move state
// changes through an execution context.
//
// An Action carries one payload to the single handler bound to it. Stores bind
// handlers to actions, update their state, and notify subscribers.
package flux

import "sync"

// Action is a named unit holding a single invocable handler.
type Action[T any] struct {
	mu      sync.RWMutex
	name    string
	handler func(T)
}

// NewAction creates an action with no handler bound.
func NewAction[T any](name string) *Action[T] {
	return &Action[T]{name: name}
}

// Name returns the action name.
func (a *Action[T]) Name() string {
	return a.name
}

// AddListener binds the handler. An action holds one handler; binding again
// replaces the previous one.
func (a *Action[T]) AddListener(handler func(T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = handler
}

// Bound reports whether a handler is bound.
func (a *Action[T]) Bound() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.handler != nil
}

// Invoke calls the handler synchronously with payload. No-op if no handler is bound.
func (a *Action[T]) Invoke(payload T) {
	a.mu.RLock()
	h := a.handler
	a.mu.RUnlock()

	if h != nil {
		h(payload)
	}
}
