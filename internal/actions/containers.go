// Package actions defines the action containers of the background context,
// the hub that aggregates them, and the action creators that bind message
// types to actions.
package actions

import "github.com/dshills/insights/internal/flux"

// CommandActions groups browser command actions.
type CommandActions struct {
	GetCommands *flux.Action[GetCommandsPayload]
}

// NewCommandActions creates the command actions.
func NewCommandActions() *CommandActions {
	return &CommandActions{
		GetCommands: flux.NewAction[GetCommandsPayload]("getCommands"),
	}
}

// LaunchPanelStateActions groups launch panel actions.
type LaunchPanelStateActions struct {
	GetCurrentState    *flux.Action[struct{}]
	SetLaunchPanelType *flux.Action[LaunchPanelType]
}

// NewLaunchPanelStateActions creates the launch panel actions.
func NewLaunchPanelStateActions() *LaunchPanelStateActions {
	return &LaunchPanelStateActions{
		GetCurrentState:    flux.NewAction[struct{}]("getCurrentState"),
		SetLaunchPanelType: flux.NewAction[LaunchPanelType]("setLaunchPanelType"),
	}
}

// ScopingActions groups scoping selector actions.
type ScopingActions struct {
	GetCurrentState *flux.Action[struct{}]
	AddSelector     *flux.Action[ScopingPayload]
	DeleteSelector  *flux.Action[ScopingPayload]
}

// NewScopingActions creates the scoping actions.
func NewScopingActions() *ScopingActions {
	return &ScopingActions{
		GetCurrentState: flux.NewAction[struct{}]("getCurrentState"),
		AddSelector:     flux.NewAction[ScopingPayload]("addSelector"),
		DeleteSelector:  flux.NewAction[ScopingPayload]("deleteSelector"),
	}
}

// UserConfigurationActions groups user configuration actions.
type UserConfigurationActions struct {
	GetCurrentState               *flux.Action[struct{}]
	SetTelemetryState             *flux.Action[SetTelemetryStatePayload]
	SetHighContrastMode           *flux.Action[SetHighContrastModePayload]
	SetIssueFilingService         *flux.Action[SetIssueFilingServicePayload]
	SetIssueFilingServiceProperty *flux.Action[SetIssueFilingServicePropertyPayload]
	SaveIssueFilingSettings       *flux.Action[SaveIssueFilingSettingsPayload]
}

// NewUserConfigurationActions creates the user configuration actions.
func NewUserConfigurationActions() *UserConfigurationActions {
	return &UserConfigurationActions{
		GetCurrentState:               flux.NewAction[struct{}]("getCurrentState"),
		SetTelemetryState:             flux.NewAction[SetTelemetryStatePayload]("setTelemetryState"),
		SetHighContrastMode:           flux.NewAction[SetHighContrastModePayload]("setHighContrastMode"),
		SetIssueFilingService:         flux.NewAction[SetIssueFilingServicePayload]("setIssueFilingService"),
		SetIssueFilingServiceProperty: flux.NewAction[SetIssueFilingServicePropertyPayload]("setIssueFilingServiceProperty"),
		SaveIssueFilingSettings:       flux.NewAction[SaveIssueFilingSettingsPayload]("saveIssueFilingSettings"),
	}
}

// FeatureFlagActions groups feature flag actions.
type FeatureFlagActions struct {
	GetCurrentState *flux.Action[struct{}]
}

// NewFeatureFlagActions creates the feature flag actions.
func NewFeatureFlagActions() *FeatureFlagActions {
	return &FeatureFlagActions{
		GetCurrentState: flux.NewAction[struct{}]("getCurrentState"),
	}
}

// VisualizationActions groups target page visualization actions.
type VisualizationActions struct {
	ScrollRequested       *flux.Action[struct{}]
	UpdateFocusedInstance *flux.Action[UpdateFocusedInstancePayload]
}

// NewVisualizationActions creates the visualization actions.
func NewVisualizationActions() *VisualizationActions {
	return &VisualizationActions{
		ScrollRequested:       flux.NewAction[struct{}]("scrollRequested"),
		UpdateFocusedInstance: flux.NewAction[UpdateFocusedInstancePayload]("updateFocusedInstance"),
	}
}
