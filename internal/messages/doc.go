// Package messages defines the message envelope exchanged between execution
// contexts and the stable set of message types.
//
// A message travels as a JSON object:
//
//	{"messageId": "...", "messageType": "insights/scoping/add-selector", "payload": {...}, "tabId": 12}
//
// Message types are grouped by feature area (Command, LaunchPanel, Scoping,
// Telemetry, UserConfig, Visualization, FeatureFlags). Their string values are
// consumed by other contexts and must not change.
package messages
