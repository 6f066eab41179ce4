package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTOMLMissingFileIsNotAnError(t *testing.T) {
	data, err := TOML(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if data != nil {
		t.Errorf("data = %v, want nil", data)
	}
}

func TestTOMLParsesNestedTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntabSize = 2\ninsertSpaces = false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	data, err := TOML(path)
	if err != nil {
		t.Fatal(err)
	}
	editor, ok := data["editor"].(map[string]any)
	if !ok {
		t.Fatalf("editor table missing: %v", data)
	}
	if editor["tabSize"] != int64(2) || editor["insertSpaces"] != false {
		t.Errorf("editor = %v", editor)
	}
}

func TestTOMLParseErrorSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[editor\ntabSize = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := TOML(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvKnownVariables(t *testing.T) {
	t.Setenv("WISP_TAB_SIZE", "2")
	t.Setenv("WISP_THEME", "light")
	t.Setenv("WISP_INSERT_SPACES", "false")

	data := NewEnv("WISP").Load()

	editor := data["editor"].(map[string]any)
	if editor["tabSize"] != int64(2) {
		t.Errorf("tabSize = %v (%T)", editor["tabSize"], editor["tabSize"])
	}
	if editor["insertSpaces"] != false {
		t.Errorf("insertSpaces = %v", editor["insertSpaces"])
	}
	if data["ui"].(map[string]any)["theme"] != "light" {
		t.Errorf("theme = %v", data["ui"])
	}
}

func TestEnvMechanicalConversion(t *testing.T) {
	t.Setenv("WISP_SEARCH_MAX_RESULTS", "50")
	data := NewEnv("WISP_").Load()
	search, ok := data["search"].(map[string]any)
	if !ok {
		t.Fatalf("search section missing: %v", data)
	}
	if search["maxResults"] != int64(50) {
		t.Errorf("maxResults = %v", search["maxResults"])
	}
}

func TestEnvIgnoresOtherPrefixes(t *testing.T) {
	t.Setenv("OTHERAPP_THEME", "x")
	data := NewEnv("WISP").Load()
	if _, ok := data["ui"]; ok {
		t.Errorf("foreign variable leaked: %v", data)
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := coerce(tt.in); got != tt.want {
			t.Errorf("coerce(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}
