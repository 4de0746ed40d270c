package messagecreator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/interpreter"
	"github.com/dshills/insights/internal/json"
	"github.com/dshills/insights/internal/messages"
	"github.com/dshills/insights/internal/stores"
)

type recordingDispatcher struct {
	messages []messages.Message
}

func (d *recordingDispatcher) DispatchMessage(msg messages.Message) {
	d.messages = append(d.messages, msg)
}

func TestUserConfigMessageCreator(t *testing.T) {
	tests := []struct {
		name     string
		send     func(c *UserConfigMessageCreator)
		wantType messages.Type
		want     string
	}{
		{
			name:     "telemetry",
			send:     func(c *UserConfigMessageCreator) { c.SetTelemetryState(true) },
			wantType: messages.UserConfigSetTelemetryConfig,
			want:     `{"enableTelemetry":true}`,
		},
		{
			name:     "high contrast",
			send:     func(c *UserConfigMessageCreator) { c.SetHighContrastMode(true) },
			wantType: messages.UserConfigSetHighContrastConfig,
			want:     `{"enableHighContrast":true}`,
		},
		{
			name: "issue filing service",
			send: func(c *UserConfigMessageCreator) {
				c.SetIssueFilingService(actions.SetIssueFilingServicePayload{IssueFilingServiceName: "test"})
			},
			wantType: messages.UserConfigSetIssueFilingService,
			want:     `{"issueFilingServiceName":"test"}`,
		},
		{
			name: "issue filing service property",
			send: func(c *UserConfigMessageCreator) {
				c.SetIssueFilingServiceProperty(actions.SetIssueFilingServicePropertyPayload{
					IssueFilingServiceName: "test", PropertyName: "name", PropertyValue: "value",
				})
			},
			wantType: messages.UserConfigSetIssueFilingServiceProperty,
			want:     `{"issueFilingServiceName":"test","propertyName":"name","propertyValue":"value"}`,
		},
		{
			name: "save issue filing settings",
			send: func(c *UserConfigMessageCreator) {
				c.SaveIssueFilingSettings(actions.SaveIssueFilingSettingsPayload{
					IssueFilingServiceName: "test", IssueFilingSettings: map[string]string{"name": "value"},
				})
			},
			wantType: messages.UserConfigSaveIssueFilingSettings,
			want:     `{"issueFilingServiceName":"test","issueFilingSettings":{"name":"value"}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			tc.send(NewUserConfigMessageCreator(d, zaptest.NewLogger(t)))

			require.Len(t, d.messages, 1)
			assert.Equal(t, tc.wantType, d.messages[0].MessageType)
			assert.JSONEq(t, tc.want, string(d.messages[0].Payload))
		})
	}
}

func TestScrollRequested(t *testing.T) {
	d := &recordingDispatcher{}
	NewTargetPageActionMessageCreator(d, nil).ScrollRequested()

	require.Len(t, d.messages, 1)
	assert.Equal(t, messages.VisualizationScrollRequested, d.messages[0].MessageType)
	assert.False(t, d.messages[0].HasPayload())
}

func TestLoopbackUpdatesStore(t *testing.T) {
	logger := zaptest.NewLogger(t)
	hub := actions.NewGlobalActionHub()
	interp := interpreter.New(interpreter.DefaultConfig(), logger)
	userConfig := stores.NewUserConfigurationStore(hub.UserConfigurationActions, stores.DefaultUserConfiguration())

	for _, typ := range []messages.Type{
		messages.UserConfigSetTelemetryConfig,
		messages.UserConfigSetHighContrastConfig,
	} {
		require.NoError(t, interp.RegisterTypeToPayloadCallback(typ, func(payload json.RawMessage, _ *int) error {
			switch typ {
			case messages.UserConfigSetTelemetryConfig:
				var p actions.SetTelemetryStatePayload
				if err := json.Unmarshal(payload, &p); err != nil {
					return err
				}
				hub.UserConfigurationActions.SetTelemetryState.Invoke(p)
			default:
				var p actions.SetHighContrastModePayload
				if err := json.Unmarshal(payload, &p); err != nil {
					return err
				}
				hub.UserConfigurationActions.SetHighContrastMode.Invoke(p)
			}
			return nil
		}))
	}

	c := NewUserConfigMessageCreator(NewInterpreterDispatcher(interp, logger), logger)
	c.SetTelemetryState(true)
	c.SetHighContrastMode(true)

	cfg := userConfig.Config()
	assert.True(t, cfg.EnableTelemetry)
	assert.True(t, cfg.EnableHighContrast)
	assert.False(t, cfg.IsFirstTime)
}

func TestInterpreterDispatcherLogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	interp := interpreter.NewWithDefaults()
	require.NoError(t, interp.RegisterTypeToPayloadCallback(messages.UserConfigSetHighContrastConfig, func(json.RawMessage, *int) error {
		return assert.AnError
	}))

	NewUserConfigMessageCreator(NewInterpreterDispatcher(interp, zap.New(core)), nil).SetHighContrastMode(false)

	require.Equal(t, 1, logs.FilterMessage("dispatch failed").Len())
}

func TestChannelDispatcher(t *testing.T) {
	out := make(chan []byte, 1)
	core, logs := observer.New(zap.WarnLevel)
	c := NewUserConfigMessageCreator(NewChannelDispatcher(out, zap.New(core)), nil)

	c.SetTelemetryState(true)
	c.SetTelemetryState(false)

	require.Len(t, out, 1)
	msg, err := messages.Decode(<-out)
	require.NoError(t, err)
	assert.Equal(t, messages.UserConfigSetTelemetryConfig, msg.MessageType)
	assert.NotEmpty(t, msg.ID)
	assert.JSONEq(t, `{"enableTelemetry":true}`, string(msg.Payload))

	assert.Equal(t, 1, logs.FilterMessage("channel full, message dropped").Len())
}
