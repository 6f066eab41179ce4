package config

import (
	"context"
	"fmt"

	"github.com/wisp-editor/wisp/internal/keymap"
)

// EditorSurface is the narrow slice of the editor shell the config layer
// configures, kept as an interface so config does not depend on the shell.
type EditorSurface interface {
	Keymap() *keymap.Engine
	SetTheme(name string)
	SetTabWidth(w int)
}

// ApplyUserConfig loads the user's configuration from dir and applies it
// to the editor: option values, theme selection, and keymap overrides.
// The loaded Config is returned so the caller can keep it for live
// accessors; callers that only want the side effects may discard it.
func ApplyUserConfig(dir string, ed EditorSurface) (*Config, error) {
	cfg := New(WithUserConfigDir(dir))
	if err := cfg.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", dir, err)
	}

	ed.SetTheme(cfg.UI().Theme)
	ed.SetTabWidth(cfg.Editor().TabSize)

	input := cfg.Input()
	ed.Keymap().SetBehavior(keymap.Behavior{
		NormalDigitPrefixCount: input.DigitPrefixCount,
		ShiftFold:              input.ShiftFold,
	})

	if err := cfg.Keymaps().ApplyTo(ed.Keymap()); err != nil {
		return cfg, fmt.Errorf("config: keymaps: %w", err)
	}
	return cfg, nil
}
