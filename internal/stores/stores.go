// Package stores holds the in-memory state of the background context. Each
// store binds handlers to the actions of one container and emits its state to
// subscribers after every change.
package stores

import (
	"maps"
	"slices"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/browser"
	"github.com/dshills/insights/internal/flux"
)

// CommandStoreData is the state of the command store.
type CommandStoreData struct {
	Commands []browser.Command `json:"commands"`
	TabID    int               `json:"tabId"`
}

// CommandStore tracks the browser commands last fetched for a tab.
type CommandStore struct {
	*flux.Store[CommandStoreData]
}

// NewCommandStore creates the store and binds it to the command actions.
func NewCommandStore(a *actions.CommandActions) *CommandStore {
	s := &CommandStore{flux.NewStore("CommandStore", CommandStoreData{TabID: -1})}
	a.GetCommands.AddListener(s.onGetCommands)
	return s
}

func (s *CommandStore) onGetCommands(p actions.GetCommandsPayload) {
	s.Update(func(CommandStoreData) CommandStoreData {
		return CommandStoreData{Commands: slices.Clone(p.Commands), TabID: p.TabID}
	})
}

// LaunchPanelStoreData is the state of the launch panel store.
type LaunchPanelStoreData struct {
	LaunchPanelType actions.LaunchPanelType `json:"launchPanelType"`
}

// LaunchPanelStore tracks the panel the popup opens with.
type LaunchPanelStore struct {
	*flux.Store[LaunchPanelStoreData]
}

// NewLaunchPanelStore creates the store and binds it to the launch panel actions.
func NewLaunchPanelStore(a *actions.LaunchPanelStateActions) *LaunchPanelStore {
	s := &LaunchPanelStore{flux.NewStore("LaunchPanelStore", LaunchPanelStoreData{LaunchPanelType: actions.LaunchPad})}
	a.GetCurrentState.AddListener(func(struct{}) { s.Emit() })
	a.SetLaunchPanelType.AddListener(s.onSetLaunchPanelType)
	return s
}

func (s *LaunchPanelStore) onSetLaunchPanelType(t actions.LaunchPanelType) {
	s.Update(func(LaunchPanelStoreData) LaunchPanelStoreData {
		return LaunchPanelStoreData{LaunchPanelType: t}
	})
}

// FeatureFlagStoreData maps feature flag names to their state.
type FeatureFlagStoreData map[string]bool

// DefaultFeatureFlags returns the flags known to the extension.
func DefaultFeatureFlags() FeatureFlagStoreData {
	return FeatureFlagStoreData{
		"logTelemetryToConsole":  false,
		"showAllAssessments":     false,
		"shadowDialog":           false,
		"showInstanceVisibility": false,
	}
}

// FeatureFlagStore holds feature flags.
type FeatureFlagStore struct {
	*flux.Store[FeatureFlagStoreData]
}

// NewFeatureFlagStore creates the store and binds it to the feature flag actions.
func NewFeatureFlagStore(a *actions.FeatureFlagActions, flags FeatureFlagStoreData) *FeatureFlagStore {
	s := &FeatureFlagStore{flux.NewStore("FeatureFlagStore", maps.Clone(flags))}
	a.GetCurrentState.AddListener(func(struct{}) { s.Emit() })
	return s
}

// IsEnabled reports whether a flag is on.
func (s *FeatureFlagStore) IsEnabled(name string) bool {
	return s.State()[name]
}

// VisualizationStoreData is the target page visualization state.
type VisualizationStoreData struct {
	FocusedTarget      []string `json:"focusedTarget"`
	ScrollRequestCount int      `json:"scrollRequestCount"`
}

// VisualizationStore tracks target page focus and scroll requests.
type VisualizationStore struct {
	*flux.Store[VisualizationStoreData]
}

// NewVisualizationStore creates the store and binds it to the visualization actions.
func NewVisualizationStore(a *actions.VisualizationActions) *VisualizationStore {
	s := &VisualizationStore{flux.NewStore("VisualizationStore", VisualizationStoreData{})}
	a.ScrollRequested.AddListener(func(struct{}) {
		s.Update(func(d VisualizationStoreData) VisualizationStoreData {
			d.ScrollRequestCount++
			return d
		})
	})
	a.UpdateFocusedInstance.AddListener(func(p actions.UpdateFocusedInstancePayload) {
		s.Update(func(d VisualizationStoreData) VisualizationStoreData {
			d.FocusedTarget = slices.Clone(p.Target)
			return d
		})
	})
	return s
}
