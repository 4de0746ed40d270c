// Package focus scrolls the target page to the element focused in the
// details view.
package focus

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/insights/internal/stores"
)

// ScrollingWindowMessage asks a frame to scroll to a target.
type ScrollingWindowMessage struct {
	FocusedTarget []string `json:"focusedTarget"`
}

// ScrollingController scrolls frames to a target.
type ScrollingController interface {
	ProcessRequest(msg ScrollingWindowMessage)
}

// ScrollRequester reports scroll requests to the background context.
// *messagecreator.TargetPageActionMessageCreator implements it.
type ScrollRequester interface {
	ScrollRequested()
}

// TargetPageStoreData is the store state visible to the target page.
type TargetPageStoreData struct {
	VisualizationStoreData stores.VisualizationStoreData
}

// ChangeHandler scrolls to the focused target whenever it changes.
type ChangeHandler struct {
	requester  ScrollRequester
	controller ScrollingController

	mu       sync.Mutex
	previous []string
}

// NewChangeHandler creates a handler.
func NewChangeHandler(requester ScrollRequester, controller ScrollingController) *ChangeHandler {
	return &ChangeHandler{requester: requester, controller: controller}
}

// HandleFocusChangeWithStoreData scrolls when the focused target is set and
// differs from the one seen last.
func (h *ChangeHandler) HandleFocusChangeWithStoreData(data TargetPageStoreData) {
	target := data.VisualizationStoreData.FocusedTarget

	h.mu.Lock()
	changed := target != nil && !slices.Equal(target, h.previous)
	h.previous = slices.Clone(target)
	h.mu.Unlock()

	if !changed {
		return
	}
	h.requester.ScrollRequested()
	h.controller.ProcessRequest(ScrollingWindowMessage{FocusedTarget: slices.Clone(target)})
}

// Attach runs the handler on every change of the visualization store.
func (h *ChangeHandler) Attach(s *stores.VisualizationStore) {
	s.Subscribe(func(d stores.VisualizationStoreData) {
		h.HandleFocusChangeWithStoreData(TargetPageStoreData{VisualizationStoreData: d})
	})
}

// LogScrollingController records scroll requests and logs them. It stands in
// for frame messaging when no page is attached.
type LogScrollingController struct {
	logger *zap.Logger

	mu       sync.Mutex
	requests []ScrollingWindowMessage
}

// NewLogScrollingController creates the controller.
func NewLogScrollingController(logger *zap.Logger) *LogScrollingController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogScrollingController{logger: logger.Named("scrolling")}
}

// ProcessRequest implements ScrollingController.
func (c *LogScrollingController) ProcessRequest(msg ScrollingWindowMessage) {
	c.mu.Lock()
	c.requests = append(c.requests, msg)
	c.mu.Unlock()

	c.logger.Info("scroll to target", zap.Strings("target", msg.FocusedTarget))
}

// Requests returns the processed requests.
func (c *LogScrollingController) Requests() []ScrollingWindowMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.requests)
}
