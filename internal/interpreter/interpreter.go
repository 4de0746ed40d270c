package interpreter

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/insights/internal/messages"
)

// Interpreter routes messages to registered callbacks.
type Interpreter struct {
	mu sync.RWMutex

	registry *Registry
	config   Config
	metrics  *Metrics
	logger   *zap.Logger

	preHooks  []PreInterpretHook
	postHooks []PostInterpretHook
}

// New creates an interpreter. A nil logger disables logging.
func New(config Config, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}

	i := &Interpreter{
		registry: NewRegistry(config.Duplicates),
		config:   config,
		logger:   logger.Named("interpreter"),
	}

	if config.EnableMetrics {
		i.metrics = NewMetrics()
	}

	return i
}

// NewWithDefaults creates an interpreter with default configuration and no logging.
func NewWithDefaults() *Interpreter {
	return New(DefaultConfig(), nil)
}

// RegisterTypeToPayloadCallback associates a callback with a message type.
func (i *Interpreter) RegisterTypeToPayloadCallback(messageType messages.Type, cb Callback) error {
	replaced, err := i.registry.Register(messageType, cb)
	if err != nil {
		return fmt.Errorf("registering %s: %w", messageType, err)
	}
	if replaced {
		i.logger.Warn("callback replaced", zap.Stringer("messageType", messageType))
	}
	return nil
}

// Interpret routes msg to its callback. It reports whether a callback handled
// the message. Messages without a callback are dropped with a nil error.
func (i *Interpreter) Interpret(msg messages.Message) (bool, error) {
	startTime := time.Now()

	if !i.runPreHooks(&msg) {
		return false, ErrMessageCancelled
	}

	cb := i.registry.Get(msg.MessageType)
	if cb == nil {
		i.logger.Debug("no callback, dropping message",
			zap.Stringer("messageType", msg.MessageType),
			zap.String("messageId", msg.ID))
		if i.metrics != nil {
			i.metrics.RecordDrop(msg.MessageType)
		}
		return false, nil
	}

	var err error
	if i.config.RecoverFromPanic {
		err = i.invokeWithRecovery(cb, msg)
	} else {
		err = cb(msg.Payload, msg.TabID)
	}

	i.runPostHooks(&msg, err)

	if i.metrics != nil {
		i.metrics.RecordInterpret(msg.MessageType, time.Since(startTime), err)
	}

	if err != nil {
		return true, fmt.Errorf("interpreting %s: %w", msg.MessageType, err)
	}
	return true, nil
}

// InterpretRaw decodes a wire envelope and interprets it.
func (i *Interpreter) InterpretRaw(data []byte) (bool, error) {
	msg, err := messages.Decode(data)
	if err != nil {
		return false, err
	}
	return i.Interpret(msg)
}

// invokeWithRecovery invokes a callback with panic recovery.
func (i *Interpreter) invokeWithRecovery(cb Callback, msg messages.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			i.logger.Error("callback panic",
				zap.Stringer("messageType", msg.MessageType),
				zap.Any("panic", r),
				zap.ByteString("stack", stack[:n]))

			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)

			if i.metrics != nil {
				i.metrics.RecordPanic(msg.MessageType)
			}
		}
	}()

	return cb(msg.Payload, msg.TabID)
}

// RegisterPreHook registers a pre-interpret hook.
func (i *Interpreter) RegisterPreHook(hook PreInterpretHook) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.preHooks = append(i.preHooks, hook)
}

// RegisterPostHook registers a post-interpret hook.
func (i *Interpreter) RegisterPostHook(hook PostInterpretHook) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.postHooks = append(i.postHooks, hook)
}

// runPreHooks runs all pre-interpret hooks.
// Returns false if any hook cancels the message.
func (i *Interpreter) runPreHooks(msg *messages.Message) bool {
	i.mu.RLock()
	hooks := make([]PreInterpretHook, len(i.preHooks))
	copy(hooks, i.preHooks)
	i.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreInterpret(msg) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-interpret hooks.
func (i *Interpreter) runPostHooks(msg *messages.Message, err error) {
	i.mu.RLock()
	hooks := make([]PostInterpretHook, len(i.postHooks))
	copy(hooks, i.postHooks)
	i.mu.RUnlock()

	for _, h := range hooks {
		h.PostInterpret(msg, err)
	}
}

// Registry returns the routing table.
func (i *Interpreter) Registry() *Registry {
	return i.registry
}

// Metrics returns the metrics collector (nil if disabled).
func (i *Interpreter) Metrics() *Metrics {
	return i.metrics
}

// Config returns the interpreter configuration.
func (i *Interpreter) Config() Config {
	return i.config
}
