// Package messagecreator builds messages on behalf of user interface code and
// hands them to a dispatcher for delivery to the background context.
package messagecreator

import (
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/messages"
)

// ActionMessageDispatcher delivers messages. Delivery is fire-and-forget.
type ActionMessageDispatcher interface {
	DispatchMessage(msg messages.Message)
}

// Interpreter is the receiving side of a loopback dispatcher.
type Interpreter interface {
	Interpret(msg messages.Message) (bool, error)
}

// InterpreterDispatcher delivers messages to an interpreter in the same process.
type InterpreterDispatcher struct {
	interp Interpreter
	logger *zap.Logger
}

// NewInterpreterDispatcher creates a loopback dispatcher.
func NewInterpreterDispatcher(interp Interpreter, logger *zap.Logger) *InterpreterDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterpreterDispatcher{interp: interp, logger: logger.Named("dispatch")}
}

// DispatchMessage implements ActionMessageDispatcher. Failures are logged and dropped.
func (d *InterpreterDispatcher) DispatchMessage(msg messages.Message) {
	handled, err := d.interp.Interpret(msg)
	if err != nil {
		d.logger.Warn("dispatch failed",
			zap.Stringer("type", msg.MessageType),
			zap.Error(err),
		)
		return
	}
	if !handled {
		d.logger.Debug("message not handled", zap.Stringer("type", msg.MessageType))
	}
}

// ChannelDispatcher encodes messages onto a channel. When the channel is full
// the message is dropped.
type ChannelDispatcher struct {
	out    chan<- []byte
	logger *zap.Logger
}

// NewChannelDispatcher creates a dispatcher writing to out.
func NewChannelDispatcher(out chan<- []byte, logger *zap.Logger) *ChannelDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelDispatcher{out: out, logger: logger.Named("dispatch")}
}

// DispatchMessage implements ActionMessageDispatcher.
func (d *ChannelDispatcher) DispatchMessage(msg messages.Message) {
	data, err := messages.Encode(msg)
	if err != nil {
		d.logger.Warn("encode failed", zap.Stringer("type", msg.MessageType), zap.Error(err))
		return
	}

	select {
	case d.out <- data:
	default:
		d.logger.Warn("channel full, message dropped", zap.Stringer("type", msg.MessageType))
	}
}
