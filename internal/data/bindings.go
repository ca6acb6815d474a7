package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action is a controller intent that one or more keys can trigger.
type Action string

const (
	ActionForward   Action = "forward"
	ActionBack      Action = "back"
	ActionLeft      Action = "left"
	ActionRight     Action = "right"
	ActionUp        Action = "up"
	ActionDown      Action = "down"
	ActionTurnLeft  Action = "turn_left"
	ActionTurnRight Action = "turn_right"
	ActionLookUp    Action = "look_up"
	ActionLookDown  Action = "look_down"
)

var knownActions = map[Action]bool{
	ActionForward: true, ActionBack: true, ActionLeft: true, ActionRight: true,
	ActionUp: true, ActionDown: true, ActionTurnLeft: true, ActionTurnRight: true,
	ActionLookUp: true, ActionLookDown: true,
}

type bindingEntry struct {
	Action Action   `yaml:"action"`
	Keys   []string `yaml:"keys"`
}

type bindingsFile struct {
	Bindings []bindingEntry `yaml:"bindings"`
}

// KeyBindings maps actions to key names. Key names are lower case.
type KeyBindings struct {
	keys map[Action][]string
}

// Keys returns the keys bound to an action, or nil.
func (b *KeyBindings) Keys(a Action) []string {
	return b.keys[a]
}

// Count returns the number of bound actions.
func (b *KeyBindings) Count() int {
	return len(b.keys)
}

// DefaultBindings is the WASD layout with shift/space for vertical movement
// and the arrow keys for turning.
func DefaultBindings() *KeyBindings {
	return &KeyBindings{keys: map[Action][]string{
		ActionForward:   {"w"},
		ActionBack:      {"s"},
		ActionLeft:      {"a"},
		ActionRight:     {"d"},
		ActionDown:      {"left_shift"},
		ActionUp:        {"space"},
		ActionLookUp:    {"up"},
		ActionLookDown:  {"down"},
		ActionTurnLeft:  {"left"},
		ActionTurnRight: {"right"},
	}}
}

// LoadKeyBindings loads key bindings from a YAML file. Actions missing from
// the file keep their default keys.
func LoadKeyBindings(path string) (*KeyBindings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key bindings: %w", err)
	}
	var f bindingsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse key bindings: %w", err)
	}
	b := DefaultBindings()
	for _, entry := range f.Bindings {
		if !knownActions[entry.Action] {
			return nil, fmt.Errorf("key bindings: unknown action %q", entry.Action)
		}
		keys := make([]string, 0, len(entry.Keys))
		for _, k := range entry.Keys {
			keys = append(keys, strings.ToLower(strings.TrimSpace(k)))
		}
		b.keys[entry.Action] = keys
	}
	return b, nil
}
