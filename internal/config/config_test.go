package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wisp-editor/wisp/internal/config/notify"
)

// loadDir writes settings.toml into a temp dir and loads a Config from it.
func loadDir(t *testing.T, settings string) *Config {
	t.Helper()
	dir := t.TempDir()
	if settings != "" {
		if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(settings), 0644); err != nil {
			t.Fatal(err)
		}
	}
	c := New(WithUserConfigDir(dir), WithSchemaValidation(false))
	t.Cleanup(c.Close)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadOverridesDefaults(t *testing.T) {
	c := loadDir(t, `
[editor]
tabSize = 2
insertSpaces = false

[ui]
theme = "light"
`)

	if n, err := c.GetInt("editor.tabSize"); err != nil || n != 2 {
		t.Errorf("tabSize = %d (%v), want 2", n, err)
	}
	if b, err := c.GetBool("editor.insertSpaces"); err != nil || b {
		t.Errorf("insertSpaces = %v (%v), want false", b, err)
	}
	if s, err := c.GetString("ui.theme"); err != nil || s != "light" {
		t.Errorf("theme = %q (%v), want light", s, err)
	}
	// Untouched defaults survive underneath the override layer.
	if s, err := c.GetString("editor.wordWrap"); err != nil || s != "on" {
		t.Errorf("wordWrap = %q (%v), want default", s, err)
	}
}

func TestLoadBrokenSettingsFileFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[editor\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(WithUserConfigDir(dir), WithSchemaValidation(false))
	defer c.Close()
	if err := c.Load(context.Background()); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvironmentLayerWins(t *testing.T) {
	t.Setenv("WISP_TAB_SIZE", "8")
	c := loadDir(t, "[editor]\ntabSize = 2\n")
	if n, _ := c.GetInt("editor.tabSize"); n != 8 {
		t.Errorf("tabSize = %d, want env override 8", n)
	}
}

func TestTypedGetters(t *testing.T) {
	c := loadDir(t, "[ui]\nlineHeight = 1.5\n")

	if _, err := c.GetString("no.such"); err != ErrSettingNotFound {
		t.Errorf("missing setting err = %v", err)
	}
	if _, err := c.GetInt("ui.theme"); err == nil {
		t.Error("GetInt on a string should fail")
	}
	if _, err := c.GetString("editor.tabSize"); err == nil {
		t.Error("GetString on an int should fail")
	}
	if _, err := c.GetBool("editor.tabSize"); err == nil {
		t.Error("GetBool on an int should fail")
	}
	if f, err := c.GetFloat("ui.lineHeight"); err != nil || f != 1.5 {
		t.Errorf("lineHeight = %v (%v)", f, err)
	}
	if f, err := c.GetFloat("editor.tabSize"); err != nil || f != 4 {
		t.Errorf("GetFloat on int = %v (%v), want 4", f, err)
	}
	if list, err := c.GetStringSlice("files.exclude"); err != nil || len(list) == 0 {
		t.Errorf("exclude = %v (%v)", list, err)
	}
}

func TestSetWritesUserLayerAndNotifies(t *testing.T) {
	c := loadDir(t, "[editor]\ntabSize = 4\n")

	var got notify.Change
	sub := c.Subscribe(func(ch notify.Change) { got = ch })
	defer sub.Unsubscribe()

	if err := c.Set("editor.tabSize", 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if n, _ := c.GetInt("editor.tabSize"); n != 2 {
		t.Errorf("tabSize = %d after Set", n)
	}
	if got.Path != "editor.tabSize" || got.OldValue != int64(4) || got.NewValue != 2 {
		t.Errorf("change = %+v", got)
	}
}

func TestSetWithoutUserLayerFails(t *testing.T) {
	// No settings.toml: the user-settings layer was never installed.
	c := loadDir(t, "")
	if err := c.Set("editor.tabSize", 2); err != ErrLayerNotFound {
		t.Errorf("err = %v, want ErrLayerNotFound", err)
	}
}

func TestSetValidatesAgainstSchema(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[editor]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := New(WithUserConfigDir(dir)) // schema validation on
	defer c.Close()
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.Set("editor.tabSize", "huge"); err == nil {
		t.Error("schema should reject a string tabSize")
	}
	if err := c.Set("editor.tabSize", 8); err != nil {
		t.Errorf("valid Set failed: %v", err)
	}
}

func TestSubscribePathScoping(t *testing.T) {
	c := loadDir(t, "[editor]\ntabSize = 4\n[ui]\ntheme = \"default\"\n")

	var editorHits, uiHits int
	c.SubscribePath("editor", func(notify.Change) { editorHits++ })
	c.SubscribePath("ui", func(notify.Change) { uiHits++ })

	_ = c.Set("editor.tabSize", 2)
	_ = c.Set("ui.theme", "light")

	if editorHits != 1 || uiHits != 1 {
		t.Errorf("hits = editor:%d ui:%d, want 1 each", editorHits, uiHits)
	}
}

func TestMergedReturnsACopy(t *testing.T) {
	c := loadDir(t, "")
	merged := c.Merged()
	merged["editor"].(map[string]any)["tabSize"] = 99

	if n, _ := c.GetInt("editor.tabSize"); n != 4 {
		t.Errorf("mutating Merged() leaked into config: tabSize = %d", n)
	}
}

func TestPathHelpers(t *testing.T) {
	m := map[string]any{}
	if err := setPath(m, "a.b.c", 1); err != nil {
		t.Fatal(err)
	}
	if v, ok := getPath(m, "a.b.c"); !ok || v != 1 {
		t.Errorf("round trip = %v %v", v, ok)
	}
	if _, ok := getPath(m, "a.b.c.d"); ok {
		t.Error("walking through a leaf should fail")
	}
	if _, ok := getPath(m, "a.x"); ok {
		t.Error("missing key should fail")
	}
	if err := setPath(m, "a.b.c.d", 2); err != ErrInvalidPath {
		t.Errorf("writing through a leaf: err = %v", err)
	}
	if err := setPath(m, "", 1); err != ErrInvalidPath {
		t.Errorf("empty path: err = %v", err)
	}

	got := splitPath(".a..b.")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitPath = %v", got)
	}
}
