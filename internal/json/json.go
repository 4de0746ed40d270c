// Package json is the JSON codec used for typed message payloads.
package json

import (
	stdjson "encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// RawMessage is a raw encoded JSON value.
type RawMessage = stdjson.RawMessage

var (
	// JSON is the jsoniter.API used throughout the codebase.
	JSON = jsoniter.ConfigCompatibleWithStandardLibrary

	// Marshal is a shorthand for JSON.Marshal.
	Marshal = JSON.Marshal

	// MarshalIndent is a shorthand for JSON.MarshalIndent.
	MarshalIndent = JSON.MarshalIndent

	// Unmarshal is a shorthand for JSON.Unmarshal.
	Unmarshal = JSON.Unmarshal

	// NewDecoder is a shorthand for JSON.NewDecoder.
	NewDecoder = JSON.NewDecoder

	// NewEncoder is a shorthand for JSON.NewEncoder.
	NewEncoder = JSON.NewEncoder
)
