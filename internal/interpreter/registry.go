package interpreter

import (
	"sort"
	"sync"

	"github.com/dshills/insights/internal/json"
	"github.com/dshills/insights/internal/messages"
)

// Callback handles the payload of one message type. tabID is nil when the
// message did not originate from a tab.
type Callback func(payload json.RawMessage, tabID *int) error

// Registry maps message types to callbacks. Each message type maps to
// exactly one callback at a time.
type Registry struct {
	mu        sync.RWMutex
	callbacks map[messages.Type]Callback
	policy    DuplicatePolicy
}

// NewRegistry creates a registry with the given duplicate policy.
func NewRegistry(policy DuplicatePolicy) *Registry {
	return &Registry{
		callbacks: make(map[messages.Type]Callback),
		policy:    policy,
	}
}

// Register associates cb with messageType. It reports whether an existing
// registration was replaced. Under DuplicateReject a second registration
// fails and the first one is kept.
func (r *Registry) Register(messageType messages.Type, cb Callback) (replaced bool, err error) {
	if messageType == "" {
		return false, ErrEmptyMessageType
	}
	if cb == nil {
		return false, ErrNilCallback
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.callbacks[messageType]
	if exists && r.policy == DuplicateReject {
		return false, ErrDuplicateRegistration
	}
	r.callbacks[messageType] = cb
	return exists, nil
}

// Unregister removes the callback for a message type.
func (r *Registry) Unregister(messageType messages.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.callbacks, messageType)
}

// Get returns the callback for a message type, or nil.
func (r *Registry) Get(messageType messages.Type) Callback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbacks[messageType]
}

// Has returns true if a callback is registered for the message type.
func (r *Registry) Has(messageType messages.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.callbacks[messageType]
	return ok
}

// List returns all registered message types, sorted.
func (r *Registry) List() []messages.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]messages.Type, 0, len(r.callbacks))
	for t := range r.callbacks {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Count returns the number of registered message types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callbacks)
}

// Clear removes all registrations.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = make(map[messages.Type]Callback)
}
