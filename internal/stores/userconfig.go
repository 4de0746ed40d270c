package stores

import (
	"maps"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/flux"
)

// NoBugService is the issue filing service selected by default.
const NoBugService = "none"

// DefaultUserConfiguration returns the configuration of a fresh install.
func DefaultUserConfiguration() actions.UserConfigurationStoreData {
	return actions.UserConfigurationStoreData{
		EnableTelemetry:         false,
		IsFirstTime:             true,
		EnableHighContrast:      false,
		BugService:              NoBugService,
		BugServicePropertiesMap: map[string]map[string]string{},
	}
}

func cloneUserConfig(d actions.UserConfigurationStoreData) actions.UserConfigurationStoreData {
	props := make(map[string]map[string]string, len(d.BugServicePropertiesMap))
	for svc, m := range d.BugServicePropertiesMap {
		props[svc] = maps.Clone(m)
	}
	d.BugServicePropertiesMap = props
	return d
}

// UserConfigurationStore holds the user configuration.
type UserConfigurationStore struct {
	*flux.Store[actions.UserConfigurationStoreData]
}

// NewUserConfigurationStore creates the store with the initial configuration
// and binds it to the user configuration actions.
func NewUserConfigurationStore(a *actions.UserConfigurationActions, initial actions.UserConfigurationStoreData) *UserConfigurationStore {
	s := &UserConfigurationStore{flux.NewStore("UserConfigurationStore", cloneUserConfig(initial))}
	a.GetCurrentState.AddListener(func(struct{}) { s.Emit() })
	a.SetTelemetryState.AddListener(s.onSetTelemetryState)
	a.SetHighContrastMode.AddListener(s.onSetHighContrastMode)
	a.SetIssueFilingService.AddListener(s.onSetIssueFilingService)
	a.SetIssueFilingServiceProperty.AddListener(s.onSetIssueFilingServiceProperty)
	a.SaveIssueFilingSettings.AddListener(s.onSaveIssueFilingSettings)
	return s
}

// TelemetryEnabled reports whether the user allows telemetry.
func (s *UserConfigurationStore) TelemetryEnabled() bool {
	return s.State().EnableTelemetry
}

// Config returns a copy of the configuration that callers may modify.
func (s *UserConfigurationStore) Config() actions.UserConfigurationStoreData {
	return cloneUserConfig(s.State())
}

func (s *UserConfigurationStore) update(fn func(*actions.UserConfigurationStoreData)) {
	s.Update(func(d actions.UserConfigurationStoreData) actions.UserConfigurationStoreData {
		next := cloneUserConfig(d)
		fn(&next)
		return next
	})
}

func (s *UserConfigurationStore) onSetTelemetryState(p actions.SetTelemetryStatePayload) {
	s.update(func(d *actions.UserConfigurationStoreData) {
		d.EnableTelemetry = p.EnableTelemetry
		if p.IsFirstTime != nil {
			d.IsFirstTime = *p.IsFirstTime
		} else {
			d.IsFirstTime = false
		}
	})
}

func (s *UserConfigurationStore) onSetHighContrastMode(p actions.SetHighContrastModePayload) {
	s.update(func(d *actions.UserConfigurationStoreData) {
		d.EnableHighContrast = p.EnableHighContrast
	})
}

func (s *UserConfigurationStore) onSetIssueFilingService(p actions.SetIssueFilingServicePayload) {
	s.update(func(d *actions.UserConfigurationStoreData) {
		d.BugService = p.IssueFilingServiceName
	})
}

func (s *UserConfigurationStore) onSetIssueFilingServiceProperty(p actions.SetIssueFilingServicePropertyPayload) {
	s.update(func(d *actions.UserConfigurationStoreData) {
		props := d.BugServicePropertiesMap[p.IssueFilingServiceName]
		if props == nil {
			props = make(map[string]string)
			d.BugServicePropertiesMap[p.IssueFilingServiceName] = props
		}
		props[p.PropertyName] = p.PropertyValue
	})
}

func (s *UserConfigurationStore) onSaveIssueFilingSettings(p actions.SaveIssueFilingSettingsPayload) {
	s.update(func(d *actions.UserConfigurationStoreData) {
		d.BugService = p.IssueFilingServiceName
		d.BugServicePropertiesMap[p.IssueFilingServiceName] = maps.Clone(p.IssueFilingSettings)
	})
}
