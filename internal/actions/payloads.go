package actions

import (
	"fmt"

	"github.com/dshills/insights/internal/browser"
	"github.com/dshills/insights/internal/json"
)

// LaunchPanelType selects which panel the popup opens with.
type LaunchPanelType int

// Launch panels.
const (
	LaunchPad LaunchPanelType = iota
	AdhocToolsPanel
)

// String returns the panel name.
func (t LaunchPanelType) String() string {
	switch t {
	case LaunchPad:
		return "launchPad"
	case AdhocToolsPanel:
		return "adhocToolsPanel"
	default:
		return "unknown"
	}
}

// Valid reports whether t names a known panel.
func (t LaunchPanelType) Valid() bool {
	return t == LaunchPad || t == AdhocToolsPanel
}

// UnmarshalJSON decodes the numeric wire form and rejects unknown panels.
func (t *LaunchPanelType) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v := LaunchPanelType(n)
	if !v.Valid() {
		return fmt.Errorf("unknown launch panel type %d", n)
	}
	*t = v
	return nil
}

// GetCommandsPayload carries the browser commands for a tab.
type GetCommandsPayload struct {
	Commands []browser.Command `json:"commands"`
	TabID    int               `json:"tabId"`
}

// SetLaunchPanelStatePayload is the payload of LaunchPanel.Set.
type SetLaunchPanelStatePayload struct {
	LaunchPanelType LaunchPanelType `json:"launchPanelType"`
}

// ScopingPayload adds or removes a scoping selector.
type ScopingPayload struct {
	InputType string   `json:"inputType"`
	Selector  []string `json:"selector"`
}

// SendTelemetryPayload is the payload of Telemetry.Send.
type SendTelemetryPayload struct {
	EventName string         `json:"eventName"`
	Telemetry map[string]any `json:"telemetry"`
}

// UserConfigurationStoreData is the persisted user configuration.
type UserConfigurationStoreData struct {
	EnableTelemetry         bool                         `json:"enableTelemetry"`
	IsFirstTime             bool                         `json:"isFirstTime"`
	EnableHighContrast      bool                         `json:"enableHighContrast"`
	BugService              string                       `json:"bugService"`
	BugServicePropertiesMap map[string]map[string]string `json:"bugServicePropertiesMap"`
}

// SetTelemetryStatePayload toggles telemetry. IsFirstTime is only applied when set.
type SetTelemetryStatePayload struct {
	EnableTelemetry bool  `json:"enableTelemetry"`
	IsFirstTime     *bool `json:"isFirstTime,omitempty"`
}

// SetHighContrastModePayload toggles high contrast mode.
type SetHighContrastModePayload struct {
	EnableHighContrast bool `json:"enableHighContrast"`
}

// SetIssueFilingServicePayload selects the issue filing service.
type SetIssueFilingServicePayload struct {
	IssueFilingServiceName string `json:"issueFilingServiceName"`
}

// SetIssueFilingServicePropertyPayload sets one property of an issue filing service.
type SetIssueFilingServicePropertyPayload struct {
	IssueFilingServiceName string `json:"issueFilingServiceName"`
	PropertyName           string `json:"propertyName"`
	PropertyValue          string `json:"propertyValue"`
}

// SaveIssueFilingSettingsPayload selects a service and replaces its settings.
type SaveIssueFilingSettingsPayload struct {
	IssueFilingServiceName string            `json:"issueFilingServiceName"`
	IssueFilingSettings    map[string]string `json:"issueFilingSettings"`
}

// UpdateFocusedInstancePayload names the element focused on the target page.
// A nil Target clears the focus.
type UpdateFocusedInstancePayload struct {
	Target []string `json:"target"`
}
