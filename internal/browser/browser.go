// Package browser provides the host browser surfaces the background context
// consumes: keyboard commands and persisted user data.
package browser

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/insights/internal/json"
)

// ErrNotObject indicates user data did not encode to a JSON object.
var ErrNotObject = errors.New("browser: user data must be an object")

// Command describes a keyboard command declared by the extension.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Shortcut    string `json:"shortcut,omitempty"`
}

// DefaultCommands returns the commands the extension declares.
func DefaultCommands() []Command {
	return []Command{
		{Name: "_execute_browser_action", Description: "Activate the extension"},
		{Name: "toggle-issues", Description: "Toggle Automated checks", Shortcut: "Alt+Shift+1"},
		{Name: "toggle-landmarks", Description: "Toggle Landmarks", Shortcut: "Alt+Shift+2"},
		{Name: "toggle-headings", Description: "Toggle Headings", Shortcut: "Alt+Shift+3"},
		{Name: "toggle-tabStops", Description: "Toggle Tab stops", Shortcut: "Alt+Shift+4"},
	}
}

// topLevel splits user data into its top-level JSON fields.
func topLevel(data any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, ErrNotObject
	}

	fields := make(map[string]json.RawMessage)
	root.ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = json.RawMessage(value.Raw)
		return true
	})
	return fields, nil
}

// MemoryAdapter keeps commands and user data in memory.
type MemoryAdapter struct {
	mu       sync.RWMutex
	commands []Command
	data     map[string]json.RawMessage
}

// NewMemoryAdapter creates an adapter serving the given commands.
func NewMemoryAdapter(commands []Command) *MemoryAdapter {
	return &MemoryAdapter{
		commands: commands,
		data:     make(map[string]json.RawMessage),
	}
}

// GetCommands passes a copy of the commands to cb.
func (a *MemoryAdapter) GetCommands(cb func([]Command)) {
	a.mu.RLock()
	commands := make([]Command, len(a.commands))
	copy(commands, a.commands)
	a.mu.RUnlock()

	cb(commands)
}

// SetUserData merges the top-level fields of data into the stored data.
func (a *MemoryAdapter) SetUserData(data any) error {
	fields, err := topLevel(data)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for k, v := range fields {
		a.data[k] = v
	}
	return nil
}

// GetUserData returns the stored value for key.
func (a *MemoryAdapter) GetUserData(key string) (json.RawMessage, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.data[key]
	return v, ok
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`, ":", `\:`)

// assemble joins stored fields back into one JSON object and decodes it into v.
func assemble(fields map[string]json.RawMessage, v any) error {
	obj := []byte(`{}`)
	for k, raw := range fields {
		var err error
		obj, err = sjson.SetRawBytes(obj, pathEscaper.Replace(k), raw)
		if err != nil {
			return fmt.Errorf("assembling user data %s: %w", k, err)
		}
	}
	return json.Unmarshal(obj, v)
}

// LoadUserData decodes every stored field into v. Fields absent from the
// store leave v untouched.
func (a *MemoryAdapter) LoadUserData(v any) error {
	a.mu.RLock()
	fields := make(map[string]json.RawMessage, len(a.data))
	for k, raw := range a.data {
		fields[k] = raw
	}
	a.mu.RUnlock()

	return assemble(fields, v)
}
