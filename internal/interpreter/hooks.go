package interpreter

import (
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/messages"
)

// PreInterpretHook is called before a message is routed.
// Returning false cancels the message.
type PreInterpretHook interface {
	PreInterpret(msg *messages.Message) bool
}

// PostInterpretHook is called after a callback ran. err is the callback error.
type PostInterpretHook interface {
	PostInterpret(msg *messages.Message, err error)
}

// PreInterpretFunc is a function adapter for PreInterpretHook.
type PreInterpretFunc func(msg *messages.Message) bool

// PreInterpret implements PreInterpretHook.
func (f PreInterpretFunc) PreInterpret(msg *messages.Message) bool {
	return f(msg)
}

// PostInterpretFunc is a function adapter for PostInterpretHook.
type PostInterpretFunc func(msg *messages.Message, err error)

// PostInterpret implements PostInterpretHook.
func (f PostInterpretFunc) PostInterpret(msg *messages.Message, err error) {
	f(msg, err)
}

// LoggingHook logs every interpreted message at debug level and callback
// failures at warn level.
type LoggingHook struct {
	logger *zap.Logger
}

// NewLoggingHook creates a logging hook.
func NewLoggingHook(logger *zap.Logger) *LoggingHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHook{logger: logger}
}

// PreInterpret logs the message being routed.
func (h *LoggingHook) PreInterpret(msg *messages.Message) bool {
	h.logger.Debug("interpreting message",
		zap.Stringer("messageType", msg.MessageType),
		zap.String("messageId", msg.ID),
		zap.Int("tabId", msg.Tab()))
	return true
}

// PostInterpret logs callback failures.
func (h *LoggingHook) PostInterpret(msg *messages.Message, err error) {
	if err != nil {
		h.logger.Warn("callback failed",
			zap.Stringer("messageType", msg.MessageType),
			zap.String("messageId", msg.ID),
			zap.Error(err))
	}
}

// AreaFilterHook cancels messages outside the allowed feature areas.
type AreaFilterHook struct {
	allowed map[string]bool
}

// NewAreaFilterHook creates a hook allowing only the given feature areas
// (as returned by messages.Type.Area).
func NewAreaFilterHook(areas ...string) *AreaFilterHook {
	allowed := make(map[string]bool, len(areas))
	for _, a := range areas {
		allowed[a] = true
	}
	return &AreaFilterHook{allowed: allowed}
}

// PreInterpret cancels messages from areas not in the allow list.
func (h *AreaFilterHook) PreInterpret(msg *messages.Message) bool {
	return h.allowed[msg.MessageType.Area()]
}
