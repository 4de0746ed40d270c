package messagecreator

import (
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/messages"
)

// TargetPageActionMessageCreator sends messages raised by the target page.
type TargetPageActionMessageCreator struct {
	dispatcher ActionMessageDispatcher
	logger     *zap.Logger
}

// NewTargetPageActionMessageCreator creates the creator.
func NewTargetPageActionMessageCreator(dispatcher ActionMessageDispatcher, logger *zap.Logger) *TargetPageActionMessageCreator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TargetPageActionMessageCreator{dispatcher: dispatcher, logger: logger}
}

// ScrollRequested reports that the page scrolled to the focused target.
func (c *TargetPageActionMessageCreator) ScrollRequested() {
	dispatchTyped(c.dispatcher, c.logger, messages.VisualizationScrollRequested, nil)
}
