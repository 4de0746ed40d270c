package messages

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Envelope field names.
const (
	fieldID      = "messageId"
	fieldType    = "messageType"
	fieldPayload = "payload"
	fieldTab     = "tabId"
)

// Decode parses a wire envelope. Only the envelope fields are inspected; the
// payload is kept as raw JSON for the receiving callback to decode.
func Decode(data []byte) (Message, error) {
	if !gjson.ValidBytes(data) {
		return Message{}, fmt.Errorf("%w: invalid json", ErrMalformedMessage)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Message{}, fmt.Errorf("%w: envelope is not an object", ErrMalformedMessage)
	}

	fields := root.Map()
	mt := fields[fieldType]
	if mt.Type != gjson.String || mt.Str == "" {
		return Message{}, fmt.Errorf("%w: missing %s", ErrMalformedMessage, fieldType)
	}

	msg := Message{
		ID:          fields[fieldID].String(),
		MessageType: Type(mt.Str),
	}

	if p, ok := fields[fieldPayload]; ok && p.Type != gjson.Null {
		msg.Payload = []byte(p.Raw)
	}

	if tab, ok := fields[fieldTab]; ok && tab.Type != gjson.Null {
		if tab.Type != gjson.Number {
			return Message{}, fmt.Errorf("%w: %s is not a number", ErrMalformedMessage, fieldTab)
		}
		id := int(tab.Int())
		msg.TabID = &id
	}

	return msg, nil
}

// Encode renders a message as a wire envelope. A message without an ID is
// assigned a fresh one.
func Encode(msg Message) ([]byte, error) {
	if msg.MessageType == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedMessage, fieldType)
	}

	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	out, err := sjson.SetBytes([]byte(`{}`), fieldID, id)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", fieldID, err)
	}
	out, err = sjson.SetBytes(out, fieldType, string(msg.MessageType))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", fieldType, err)
	}

	if msg.HasPayload() {
		if !gjson.ValidBytes(msg.Payload) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, msg.MessageType)
		}
		out, err = sjson.SetRawBytes(out, fieldPayload, msg.Payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", fieldPayload, err)
		}
	}

	if msg.TabID != nil {
		out, err = sjson.SetBytes(out, fieldTab, *msg.TabID)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", fieldTab, err)
		}
	}

	return out, nil
}

// Field extracts a single value from a message payload by gjson path without
// decoding the whole payload. Returns an empty result if the path is absent.
func (m Message) Field(path string) gjson.Result {
	if !m.HasPayload() {
		return gjson.Result{}
	}
	return gjson.GetBytes(m.Payload, path)
}
