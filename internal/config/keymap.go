// Keymap configuration: user bindings from keymaps.toml layered onto the
// engine's builtin defaults.
package config

import (
	"fmt"
	"sync"

	"github.com/wisp-editor/wisp/internal/config/notify"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/keymap"
)

// KeymapBinding is a single binding from config: a key sequence in the
// `[mod-]*key ...` node grammar bound to an action (or `cmd:name args`)
// in one mode.
type KeymapBinding struct {
	// Mode is the keymap mode this binding lives in ("normal", "insert").
	Mode string

	// Keys is the whitespace-separated node sequence.
	Keys string

	// Action is the action name, or "cmd:<name>" for an ex-command.
	Action string

	// Count is an optional builtin repeat count baked into the binding.
	Count int

	// Extend marks the binding as selection-extending.
	Extend bool

	// Sticky keeps the binding's sequence prefix primed after dispatch.
	Sticky bool

	// Description documents the binding for the registry inspector.
	Description string
}

// KeymapManager collects keymap bindings from the config layers and
// applies them onto a keymap engine.
type KeymapManager struct {
	mu sync.RWMutex

	config   *Config
	notifier *notify.Notifier
	bindings []KeymapBinding
}

// NewKeymapManager creates a KeymapManager bound to config.
func NewKeymapManager(config *Config, notifier *notify.Notifier) *KeymapManager {
	return &KeymapManager{config: config, notifier: notifier}
}

// LoadFromConfig reads the merged "keymaps" table: a list of binding
// entries, each `{mode, keys, action, count?, extend?, sticky?}`.
func (m *KeymapManager) LoadFromConfig() error {
	raw, ok := m.config.Get("keymaps")
	if !ok {
		return nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return fmt.Errorf("keymaps: expected a list of bindings, got %T", raw)
	}

	var bindings []KeymapBinding
	for i, entry := range entries {
		table, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("keymaps[%d]: expected a table, got %T", i, entry)
		}
		b, err := bindingFromTable(table)
		if err != nil {
			return fmt.Errorf("keymaps[%d]: %w", i, err)
		}
		bindings = append(bindings, b)
	}

	m.mu.Lock()
	m.bindings = bindings
	m.mu.Unlock()
	return nil
}

func bindingFromTable(table map[string]any) (KeymapBinding, error) {
	b := KeymapBinding{Mode: "normal"}
	if v, ok := table["mode"].(string); ok {
		b.Mode = v
	}
	keys, ok := table["keys"].(string)
	if !ok || keys == "" {
		return b, fmt.Errorf("binding is missing 'keys'")
	}
	b.Keys = keys
	action, ok := table["action"].(string)
	if !ok || action == "" {
		return b, fmt.Errorf("binding %q is missing 'action'", keys)
	}
	b.Action = action
	switch v := table["count"].(type) {
	case int:
		b.Count = v
	case int64:
		b.Count = int(v)
	}
	if v, ok := table["extend"].(bool); ok {
		b.Extend = v
	}
	if v, ok := table["sticky"].(bool); ok {
		b.Sticky = v
	}
	if v, ok := table["description"].(string); ok {
		b.Description = v
	}
	return b, nil
}

// Bindings returns the loaded bindings.
func (m *KeymapManager) Bindings() []KeymapBinding {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]KeymapBinding, len(m.bindings))
	copy(out, m.bindings)
	return out
}

// ApplyTo installs every loaded binding into the engine, overriding any
// builtin binding on the same sequence. An invalid sequence does not stop
// the remaining bindings from being installed; only the first error is
// returned.
func (m *KeymapManager) ApplyTo(engine *keymap.Engine) error {
	var firstErr error
	for _, b := range m.Bindings() {
		inv := parseBindingTarget(b)
		err := engine.Bind(b.Mode, b.Keys, keymap.Binding{Invocation: inv, Sticky: b.Sticky})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("binding %q: %w", b.Keys, err)
		}
	}
	return firstErr
}

// parseBindingTarget builds the invocation template for a binding: a plain
// action name, or "cmd:<name> <args...>" for an ex-command.
func parseBindingTarget(b KeymapBinding) invocation.Invocation {
	var inv invocation.Invocation
	if name, isCmd := cutPrefix(b.Action, "cmd:"); isCmd {
		fields := splitFields(name)
		if len(fields) == 0 {
			inv = invocation.Command(name)
		} else {
			inv = invocation.Command(fields[0], fields[1:]...)
		}
	} else {
		inv = invocation.Action(b.Action)
	}
	if b.Count > 0 {
		inv.Count = uint32(b.Count)
	}
	inv.Extend = b.Extend
	inv.Source = "config"
	return inv
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return s, false
}

func splitFields(s string) []string {
	var fields []string
	cur := ""
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if cur != "" {
				fields = append(fields, cur)
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		fields = append(fields, cur)
	}
	return fields
}
