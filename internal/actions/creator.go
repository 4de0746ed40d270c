package actions

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/insights/internal/browser"
	"github.com/dshills/insights/internal/interpreter"
	"github.com/dshills/insights/internal/json"
	"github.com/dshills/insights/internal/messages"
)

// Registrar accepts message type callbacks. *interpreter.Interpreter implements it.
type Registrar interface {
	RegisterTypeToPayloadCallback(messageType messages.Type, cb interpreter.Callback) error
}

// BrowserAdapter is the part of the host browser API the action creators use.
type BrowserAdapter interface {
	GetCommands(cb func([]browser.Command))
	SetUserData(data any) error
}

// TelemetryHandler publishes telemetry events.
type TelemetryHandler interface {
	PublishTelemetry(eventName string, payload map[string]any, tabID *int)
}

// registration binds one message type to its callback.
type registration struct {
	messageType messages.Type
	callback    interpreter.Callback
}

// registerAll registers every entry, stopping at the first failure.
func registerAll(r Registrar, regs []registration) error {
	for _, reg := range regs {
		if err := r.RegisterTypeToPayloadCallback(reg.messageType, reg.callback); err != nil {
			return err
		}
	}
	return nil
}

// decodePayload decodes a message payload into T.
func decodePayload[T any](messageType messages.Type, payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, fmt.Errorf("%w: %s: missing payload", ErrInvalidPayload, messageType)
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("%w: %s: %v", ErrInvalidPayload, messageType, err)
	}
	return v, nil
}

// GlobalActionCreator binds the global message types to the actions of a hub.
type GlobalActionCreator struct {
	hub       *GlobalActionHub
	registrar Registrar
	browser   BrowserAdapter
	telemetry TelemetryHandler
	logger    *zap.Logger
}

// NewGlobalActionCreator creates the action creator. A nil logger disables logging.
func NewGlobalActionCreator(hub *GlobalActionHub, registrar Registrar, adapter BrowserAdapter, telemetry TelemetryHandler, logger *zap.Logger) *GlobalActionCreator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GlobalActionCreator{
		hub:       hub,
		registrar: registrar,
		browser:   adapter,
		telemetry: telemetry,
		logger:    logger.Named("actions"),
	}
}

// RegisterCallbacks registers a callback for every global message type.
// Calling it again re-registers each type; whether that overwrites or fails
// depends on the registrar's duplicate policy.
func (c *GlobalActionCreator) RegisterCallbacks() error {
	regs := []registration{
		{messages.CommandGetCommands, c.onGetCommands},
		{messages.LaunchPanelGet, c.onGetLaunchPanelState},
		{messages.LaunchPanelSet, c.onSetLaunchPanelState},
		{messages.ScopingGetCurrentState, c.onGetScopingState},
		{messages.ScopingAddSelector, c.onAddSelector},
		{messages.ScopingDeleteSelector, c.onDeleteSelector},
		{messages.TelemetrySend, c.onSendTelemetry},
		{messages.UserConfigGetCurrentState, c.onGetUserConfigState},
		{messages.UserConfigSetUserConfig, c.onSetUserConfig},
		{messages.UserConfigSetTelemetryConfig, c.onSetTelemetryConfig},
		{messages.UserConfigSetHighContrastConfig, c.onSetHighContrastConfig},
		{messages.UserConfigSetIssueFilingService, c.onSetIssueFilingService},
		{messages.UserConfigSetIssueFilingServiceProperty, c.onSetIssueFilingServiceProperty},
		{messages.UserConfigSaveIssueFilingSettings, c.onSaveIssueFilingSettings},
		{messages.FeatureFlagsGetFeatureFlags, c.onGetFeatureFlags},
	}

	if err := registerAll(c.registrar, regs); err != nil {
		return err
	}
	c.logger.Debug("callbacks registered", zap.Int("count", len(regs)))
	return nil
}

func (c *GlobalActionCreator) onGetCommands(_ json.RawMessage, tabID *int) error {
	if c.hub.CommandActions == nil {
		return ErrMissingContainer
	}
	if tabID == nil {
		return fmt.Errorf("%w: %s", ErrMissingTab, messages.CommandGetCommands)
	}
	tab := *tabID
	c.browser.GetCommands(func(commands []browser.Command) {
		c.hub.CommandActions.GetCommands.Invoke(GetCommandsPayload{
			Commands: commands,
			TabID:    tab,
		})
	})
	return nil
}

func (c *GlobalActionCreator) onGetLaunchPanelState(json.RawMessage, *int) error {
	if c.hub.LaunchPanelStateActions == nil {
		return ErrMissingContainer
	}
	c.hub.LaunchPanelStateActions.GetCurrentState.Invoke(struct{}{})
	return nil
}

func (c *GlobalActionCreator) onSetLaunchPanelState(payload json.RawMessage, _ *int) error {
	if c.hub.LaunchPanelStateActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SetLaunchPanelStatePayload](messages.LaunchPanelSet, payload)
	if err != nil {
		return err
	}
	c.hub.LaunchPanelStateActions.SetLaunchPanelType.Invoke(p.LaunchPanelType)
	return nil
}

func (c *GlobalActionCreator) onGetScopingState(json.RawMessage, *int) error {
	if c.hub.ScopingActions == nil {
		return ErrMissingContainer
	}
	c.hub.ScopingActions.GetCurrentState.Invoke(struct{}{})
	return nil
}

func (c *GlobalActionCreator) onAddSelector(payload json.RawMessage, _ *int) error {
	if c.hub.ScopingActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[ScopingPayload](messages.ScopingAddSelector, payload)
	if err != nil {
		return err
	}
	c.hub.ScopingActions.AddSelector.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onDeleteSelector(payload json.RawMessage, _ *int) error {
	if c.hub.ScopingActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[ScopingPayload](messages.ScopingDeleteSelector, payload)
	if err != nil {
		return err
	}
	c.hub.ScopingActions.DeleteSelector.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onSendTelemetry(payload json.RawMessage, tabID *int) error {
	p, err := decodePayload[SendTelemetryPayload](messages.TelemetrySend, payload)
	if err != nil {
		return err
	}
	c.telemetry.PublishTelemetry(p.EventName, p.Telemetry, tabID)
	return nil
}

func (c *GlobalActionCreator) onGetUserConfigState(json.RawMessage, *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	c.hub.UserConfigurationActions.GetCurrentState.Invoke(struct{}{})
	return nil
}

// onSetUserConfig applies the telemetry part of a full configuration.
// Persistence follows the user configuration store, not this message.
func (c *GlobalActionCreator) onSetUserConfig(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	data, err := decodePayload[UserConfigurationStoreData](messages.UserConfigSetUserConfig, payload)
	if err != nil {
		return err
	}

	isFirstTime := data.IsFirstTime
	c.hub.UserConfigurationActions.SetTelemetryState.Invoke(SetTelemetryStatePayload{
		EnableTelemetry: data.EnableTelemetry,
		IsFirstTime:     &isFirstTime,
	})
	return nil
}

func (c *GlobalActionCreator) onSetTelemetryConfig(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SetTelemetryStatePayload](messages.UserConfigSetTelemetryConfig, payload)
	if err != nil {
		return err
	}
	c.hub.UserConfigurationActions.SetTelemetryState.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onSetHighContrastConfig(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SetHighContrastModePayload](messages.UserConfigSetHighContrastConfig, payload)
	if err != nil {
		return err
	}
	c.hub.UserConfigurationActions.SetHighContrastMode.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onSetIssueFilingService(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SetIssueFilingServicePayload](messages.UserConfigSetIssueFilingService, payload)
	if err != nil {
		return err
	}
	c.hub.UserConfigurationActions.SetIssueFilingService.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onSetIssueFilingServiceProperty(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SetIssueFilingServicePropertyPayload](messages.UserConfigSetIssueFilingServiceProperty, payload)
	if err != nil {
		return err
	}
	c.hub.UserConfigurationActions.SetIssueFilingServiceProperty.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onSaveIssueFilingSettings(payload json.RawMessage, _ *int) error {
	if c.hub.UserConfigurationActions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[SaveIssueFilingSettingsPayload](messages.UserConfigSaveIssueFilingSettings, payload)
	if err != nil {
		return err
	}
	c.hub.UserConfigurationActions.SaveIssueFilingSettings.Invoke(p)
	return nil
}

func (c *GlobalActionCreator) onGetFeatureFlags(json.RawMessage, *int) error {
	if c.hub.FeatureFlagActions == nil {
		return ErrMissingContainer
	}
	c.hub.FeatureFlagActions.GetCurrentState.Invoke(struct{}{})
	return nil
}

// VisualizationActionCreator binds target page visualization messages.
type VisualizationActionCreator struct {
	actions   *VisualizationActions
	registrar Registrar
}

// NewVisualizationActionCreator creates the visualization action creator.
func NewVisualizationActionCreator(actions *VisualizationActions, registrar Registrar) *VisualizationActionCreator {
	return &VisualizationActionCreator{actions: actions, registrar: registrar}
}

// RegisterCallbacks registers the visualization callbacks.
func (c *VisualizationActionCreator) RegisterCallbacks() error {
	return registerAll(c.registrar, []registration{
		{messages.VisualizationScrollRequested, c.onScrollRequested},
		{messages.VisualizationUpdateFocusedInstance, c.onUpdateFocusedInstance},
	})
}

func (c *VisualizationActionCreator) onScrollRequested(json.RawMessage, *int) error {
	if c.actions == nil {
		return ErrMissingContainer
	}
	c.actions.ScrollRequested.Invoke(struct{}{})
	return nil
}

func (c *VisualizationActionCreator) onUpdateFocusedInstance(payload json.RawMessage, _ *int) error {
	if c.actions == nil {
		return ErrMissingContainer
	}
	p, err := decodePayload[UpdateFocusedInstancePayload](messages.VisualizationUpdateFocusedInstance, payload)
	if err != nil {
		return err
	}
	c.actions.UpdateFocusedInstance.Invoke(p)
	return nil
}
