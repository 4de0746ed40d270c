package messagecreator

import (
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/messages"
)

// UserConfigMessageCreator sends user configuration changes.
type UserConfigMessageCreator struct {
	dispatcher ActionMessageDispatcher
	logger     *zap.Logger
}

// NewUserConfigMessageCreator creates the creator. A nil logger disables logging.
func NewUserConfigMessageCreator(dispatcher ActionMessageDispatcher, logger *zap.Logger) *UserConfigMessageCreator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserConfigMessageCreator{dispatcher: dispatcher, logger: logger}
}

// SetTelemetryState sends the telemetry opt-in.
func (c *UserConfigMessageCreator) SetTelemetryState(enableTelemetry bool) {
	c.dispatch(messages.UserConfigSetTelemetryConfig, actions.SetTelemetryStatePayload{
		EnableTelemetry: enableTelemetry,
	})
}

// SetHighContrastMode sends the high contrast setting.
func (c *UserConfigMessageCreator) SetHighContrastMode(enableHighContrast bool) {
	c.dispatch(messages.UserConfigSetHighContrastConfig, actions.SetHighContrastModePayload{
		EnableHighContrast: enableHighContrast,
	})
}

// SetIssueFilingService selects the issue filing service.
func (c *UserConfigMessageCreator) SetIssueFilingService(payload actions.SetIssueFilingServicePayload) {
	c.dispatch(messages.UserConfigSetIssueFilingService, payload)
}

// SetIssueFilingServiceProperty sets one property of an issue filing service.
func (c *UserConfigMessageCreator) SetIssueFilingServiceProperty(payload actions.SetIssueFilingServicePropertyPayload) {
	c.dispatch(messages.UserConfigSetIssueFilingServiceProperty, payload)
}

// SaveIssueFilingSettings saves the service and all of its settings.
func (c *UserConfigMessageCreator) SaveIssueFilingSettings(payload actions.SaveIssueFilingSettingsPayload) {
	c.dispatch(messages.UserConfigSaveIssueFilingSettings, payload)
}

func (c *UserConfigMessageCreator) dispatch(t messages.Type, payload any) {
	dispatchTyped(c.dispatcher, c.logger, t, payload)
}

// dispatchTyped builds a message and dispatches it. Payloads are plain
// structs, so a marshal failure is logged rather than returned.
func dispatchTyped(d ActionMessageDispatcher, logger *zap.Logger, t messages.Type, payload any) {
	msg, err := messages.New(t, payload)
	if err != nil {
		logger.Error("building message", zap.Stringer("type", t), zap.Error(err))
		return
	}
	d.DispatchMessage(msg)
}
