package flux

import "sync"

// Store holds state of type S and notifies subscribers when it changes.
type Store[S any] struct {
	mu          sync.RWMutex
	id          string
	state       S
	subscribers []func(S)
}

// NewStore creates a store with the initial state.
func NewStore[S any](id string, initial S) *Store[S] {
	return &Store[S]{id: id, state: initial}
}

// ID returns the store identifier.
func (s *Store[S]) ID() string {
	return s.id
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called with the state after every Emit.
func (s *Store[S]) Subscribe(fn func(S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Update applies fn to the state and emits the result.
func (s *Store[S]) Update(fn func(S) S) {
	s.mu.Lock()
	s.state = fn(s.state)
	s.mu.Unlock()
	s.Emit()
}

// Emit notifies subscribers with the current state.
// Subscribers run outside the lock so they may read the store.
func (s *Store[S]) Emit() {
	s.mu.RLock()
	state := s.state
	subs := make([]func(S), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(state)
	}
}
