package messages

import (
	"strings"

	"github.com/dshills/insights/internal/json"
)

// Type identifies the kind of a message. Values are namespaced with a
// slash-separated feature area, e.g. "insights/command/get-commands".
type Type string

// Prefix is the namespace shared by every message type.
const Prefix = "insights"

// Command messages.
const (
	CommandGetCommands Type = Prefix + "/command/get-commands"
)

// LaunchPanel messages.
const (
	LaunchPanelGet Type = Prefix + "/launchPanel/get"
	LaunchPanelSet Type = Prefix + "/launchPanel/set"
)

// Scoping messages.
const (
	ScopingGetCurrentState Type = Prefix + "/scoping/get-current-state"
	ScopingAddSelector     Type = Prefix + "/scoping/add-selector"
	ScopingDeleteSelector  Type = Prefix + "/scoping/delete-selector"
)

// Telemetry messages.
const (
	TelemetrySend Type = Prefix + "/telemetry/send"
)

// UserConfig messages.
const (
	UserConfigGetCurrentState               Type = Prefix + "/userConfig/getCurrentState"
	UserConfigSetUserConfig                 Type = Prefix + "/userConfig/setUserConfig"
	UserConfigSetTelemetryConfig            Type = Prefix + "/userConfig/setTelemetryConfig"
	UserConfigSetHighContrastConfig         Type = Prefix + "/userConfig/setHighContrastConfig"
	UserConfigSetIssueFilingService         Type = Prefix + "/userConfig/setIssueFilingService"
	UserConfigSetIssueFilingServiceProperty Type = Prefix + "/userConfig/setIssueFilingServiceProperty"
	UserConfigSaveIssueFilingSettings       Type = Prefix + "/userConfig/saveIssueFilingSettings"
)

// Visualization messages.
const (
	VisualizationScrollRequested       Type = Prefix + "/visualization/scroll-requested"
	VisualizationUpdateFocusedInstance Type = Prefix + "/visualization/update-focused-instance"
)

// FeatureFlags messages.
const (
	FeatureFlagsGetFeatureFlags Type = Prefix + "/featureFlags/get"
)

// All returns every known message type.
func All() []Type {
	return []Type{
		CommandGetCommands,
		LaunchPanelGet,
		LaunchPanelSet,
		ScopingGetCurrentState,
		ScopingAddSelector,
		ScopingDeleteSelector,
		TelemetrySend,
		UserConfigGetCurrentState,
		UserConfigSetUserConfig,
		UserConfigSetTelemetryConfig,
		UserConfigSetHighContrastConfig,
		UserConfigSetIssueFilingService,
		UserConfigSetIssueFilingServiceProperty,
		UserConfigSaveIssueFilingSettings,
		VisualizationScrollRequested,
		VisualizationUpdateFocusedInstance,
		FeatureFlagsGetFeatureFlags,
	}
}

// Area returns the feature area of the type ("scoping" for
// "insights/scoping/add-selector"). Returns "" if the type is not namespaced.
func (t Type) Area() string {
	rest, ok := strings.CutPrefix(string(t), Prefix+"/")
	if !ok {
		return ""
	}
	area, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return area
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// Message is the envelope routed between execution contexts.
type Message struct {
	// ID correlates a message across contexts. Assigned on encode if empty.
	ID string

	// MessageType selects the callback that handles the message.
	MessageType Type

	// Payload is the undecoded message payload. May be empty.
	Payload json.RawMessage

	// TabID is the originating tab, if any.
	TabID *int
}

// New builds a message with the payload marshalled to JSON.
// A nil payload produces a message without a payload.
func New(t Type, payload any) (Message, error) {
	msg := Message{MessageType: t}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = data
	return msg, nil
}

// WithTab returns a copy of the message with the tab id set.
func (m Message) WithTab(tabID int) Message {
	m.TabID = &tabID
	return m
}

// Tab returns the tab id, or -1 if the message has none.
func (m Message) Tab() int {
	if m.TabID == nil {
		return -1
	}
	return *m.TabID
}

// HasPayload reports whether the message carries a non-null payload.
func (m Message) HasPayload() bool {
	return len(m.Payload) > 0 && string(m.Payload) != "null"
}
