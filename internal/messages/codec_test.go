package messages_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/insights/internal/messages"
)

func TestDecode(t *testing.T) {
	raw := []byte(`{"messageId":"abc","messageType":"insights/scoping/add-selector","payload":{"inputType":"include","selector":["iframe","div"]},"tabId":12}`)

	msg, err := messages.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "abc", msg.ID)
	assert.Equal(t, messages.ScopingAddSelector, msg.MessageType)
	require.NotNil(t, msg.TabID)
	assert.Equal(t, 12, *msg.TabID)
	assert.JSONEq(t, `{"inputType":"include","selector":["iframe","div"]}`, string(msg.Payload))
}

func TestDecodeWithoutPayloadOrTab(t *testing.T) {
	msg, err := messages.Decode([]byte(`{"messageType":"insights/launchPanel/get","payload":null}`))
	require.NoError(t, err)

	assert.False(t, msg.HasPayload())
	assert.Nil(t, msg.TabID)
	assert.Equal(t, -1, msg.Tab())
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"messageType":`},
		{"not an object", `["insights/launchPanel/get"]`},
		{"missing type", `{"payload":{}}`},
		{"empty type", `{"messageType":""}`},
		{"numeric type", `{"messageType":7}`},
		{"string tab", `{"messageType":"insights/launchPanel/get","tabId":"7"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := messages.Decode([]byte(tc.raw))
			if !errors.Is(err, messages.ErrMalformedMessage) {
				t.Errorf("Decode(%s) error = %v, want ErrMalformedMessage", tc.raw, err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	msg, err := messages.New(messages.LaunchPanelSet, map[string]int{"launchPanelType": 1})
	require.NoError(t, err)
	msg = msg.WithTab(3)

	data, err := messages.Encode(msg)
	require.NoError(t, err)

	assert.NotEmpty(t, gjson.GetBytes(data, "messageId").String(), "encode assigns an id")
	assert.Equal(t, string(messages.LaunchPanelSet), gjson.GetBytes(data, "messageType").String())
	assert.Equal(t, int64(3), gjson.GetBytes(data, "tabId").Int())

	back, err := messages.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, msg.MessageType, back.MessageType)
	assert.Equal(t, 3, back.Tab())
	assert.Equal(t, int64(1), back.Field("launchPanelType").Int())
}

func TestEncodeKeepsID(t *testing.T) {
	data, err := messages.Encode(messages.Message{ID: "fixed", MessageType: messages.TelemetrySend})
	require.NoError(t, err)
	assert.Equal(t, "fixed", gjson.GetBytes(data, "messageId").String())
	assert.False(t, gjson.GetBytes(data, "payload").Exists())
}

func TestEncodeErrors(t *testing.T) {
	_, err := messages.Encode(messages.Message{})
	assert.ErrorIs(t, err, messages.ErrMalformedMessage)

	_, err = messages.Encode(messages.Message{MessageType: messages.TelemetrySend, Payload: []byte(`{bad`)})
	assert.ErrorIs(t, err, messages.ErrInvalidPayload)
}

func TestTypeArea(t *testing.T) {
	tests := []struct {
		typ  messages.Type
		want string
	}{
		{messages.CommandGetCommands, "command"},
		{messages.UserConfigSetUserConfig, "userConfig"},
		{messages.Type("other/scoping/x"), ""},
		{messages.Type("insights/flat"), ""},
	}

	for _, tc := range tests {
		if got := tc.typ.Area(); got != tc.want {
			t.Errorf("%s.Area() = %q, want %q", tc.typ, got, tc.want)
		}
	}
}

func TestAllTypesUnique(t *testing.T) {
	seen := make(map[messages.Type]bool)
	for _, typ := range messages.All() {
		if seen[typ] {
			t.Errorf("duplicate message type %s", typ)
		}
		seen[typ] = true
		if typ.Area() == "" {
			t.Errorf("message type %s has no feature area", typ)
		}
	}
}
