package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/keymap"
)

func loadKeymapConfig(t *testing.T, keymapsToml string) *Config {
	t.Helper()
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "keymaps.toml"), []byte(keymapsToml), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(WithUserConfigDir(tmpDir), WithSchemaValidation(false))
	t.Cleanup(c.Close)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestKeymapManager_LoadFromConfig(t *testing.T) {
	c := loadKeymapConfig(t, `
[[keymaps]]
mode = "normal"
keys = "g s"
action = "goto.file-start"
description = "jump to start"

[[keymaps]]
keys = "ctrl-s"
action = "cmd:write"
`)

	bindings := c.Keymaps().Bindings()
	if len(bindings) != 2 {
		t.Fatalf("bindings = %d, want 2", len(bindings))
	}
	if bindings[0].Keys != "g s" || bindings[0].Action != "goto.file-start" {
		t.Errorf("first binding = %+v", bindings[0])
	}
	if bindings[1].Mode != "normal" {
		t.Errorf("mode defaulted to %q, want normal", bindings[1].Mode)
	}
}

func TestKeymapManager_ApplyTo(t *testing.T) {
	c := loadKeymapConfig(t, `
[[keymaps]]
keys = "g s"
action = "goto.file-start"

[[keymaps]]
keys = "ctrl-s"
action = "cmd:write"
`)

	engine := keymap.NewEngine(keymap.Behavior{})
	if err := c.Keymaps().ApplyTo(engine); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}

	engine.HandleKey(key.NewRuneEvent('g', key.ModNone))
	res := engine.HandleKey(key.NewRuneEvent('s', key.ModNone))
	if res.Kind != keymap.ResultDispatch || res.Invocation.Name != "goto.file-start" {
		t.Errorf("g s -> %v %q", res.Kind, res.Invocation.Name)
	}

	res = engine.HandleKey(key.NewRuneEvent('s', key.ModCtrl))
	if res.Kind != keymap.ResultDispatch {
		t.Fatalf("ctrl-s kind = %v", res.Kind)
	}
	if res.Invocation.Kind != invocation.KindCommand || res.Invocation.Name != "write" {
		t.Errorf("ctrl-s -> %v %q, want command write", res.Invocation.Kind, res.Invocation.Name)
	}
}

func TestKeymapManager_InvalidBinding(t *testing.T) {
	c := loadKeymapConfig(t, `
[[keymaps]]
keys = "hyper-x"
action = "move.left"
`)

	engine := keymap.NewEngine(keymap.Behavior{})
	if err := c.Keymaps().ApplyTo(engine); err == nil {
		t.Error("expected an error for an unknown modifier")
	}
}

func TestKeymapManager_MissingAction(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "keymaps.toml"), []byte(`
[[keymaps]]
keys = "x"
`), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(WithUserConfigDir(tmpDir), WithSchemaValidation(false))
	defer c.Close()
	if err := c.Load(context.Background()); err == nil {
		t.Error("expected load error for a binding without an action")
	}
}
