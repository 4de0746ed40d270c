package actions

// GlobalActionHub aggregates the action containers of one execution context.
// It is built once and held for the lifetime of the context.
type GlobalActionHub struct {
	CommandActions           *CommandActions
	FeatureFlagActions       *FeatureFlagActions
	LaunchPanelStateActions  *LaunchPanelStateActions
	ScopingActions           *ScopingActions
	UserConfigurationActions *UserConfigurationActions
	VisualizationActions     *VisualizationActions
}

// NewGlobalActionHub creates a hub with every container constructed.
func NewGlobalActionHub() *GlobalActionHub {
	return &GlobalActionHub{
		CommandActions:           NewCommandActions(),
		FeatureFlagActions:       NewFeatureFlagActions(),
		LaunchPanelStateActions:  NewLaunchPanelStateActions(),
		ScopingActions:           NewScopingActions(),
		UserConfigurationActions: NewUserConfigurationActions(),
		VisualizationActions:     NewVisualizationActions(),
	}
}
