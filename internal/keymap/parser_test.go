package keymap

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/input/key"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a", "a"},
		{"A", "A"},
		{";", ";"},
		{"esc", "esc"},
		{"ret", "ret"},
		{"space", "space"},
		{"pageup", "pageup"},
		{"f1", "f1"},
		{"f35", "f35"},
		{"ctrl-x", "ctrl-x"},
		{"alt-ctrl-x", "ctrl-alt-x"}, // modifier order is free, canonical is fixed
		{"shift-left", "shift-left"},
		{"ctrl-shift-up", "ctrl-shift-up"},
		{"cmd-s", "cmd-s"},
		{"shift-a", "a"}, // shift is redundant on a rune
		{"@digit", "@digit"},
		{"@any", "@any"},
	}
	for _, tt := range tests {
		got, err := ParseNode(tt.in)
		if err != nil {
			t.Errorf("ParseNode(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNodeErrors(t *testing.T) {
	for _, in := range []string{"", "ctrl-ctrl-x", "hyper-x", "@word", "notakey", "é"} {
		if _, err := ParseNode(in); err == nil {
			t.Errorf("ParseNode(%q): want error", in)
		}
	}
}

func TestParseSequence(t *testing.T) {
	path, err := ParseSequence("g g")
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 2 || path[0] != "g" || path[1] != "g" {
		t.Errorf("path = %v", path)
	}
	if _, err := ParseSequence("   "); err == nil {
		t.Errorf("blank sequence should error")
	}
}

func TestNodeStringMatchesParsedForm(t *testing.T) {
	// A runtime key event must canonicalize to the same string a config
	// binding parses to, or lookups would never match.
	tests := []struct {
		ev   key.Event
		spec string
	}{
		{key.NewRuneEvent('x', key.ModNone), "x"},
		{key.NewRuneEvent('x', key.ModCtrl), "ctrl-x"},
		{key.NewRuneEvent(' ', key.ModNone), "space"},
		{key.NewSpecialEvent(key.KeyEnter, key.ModNone), "ret"},
		{key.NewSpecialEvent(key.KeyLeft, key.ModShift), "shift-left"},
		{key.NewSpecialEvent(key.KeyF7, key.ModAlt), "alt-f7"},
	}
	for _, tt := range tests {
		parsed, err := ParseNode(tt.spec)
		if err != nil {
			t.Fatalf("ParseNode(%q): %v", tt.spec, err)
		}
		if got := NodeString(tt.ev); got != parsed {
			t.Errorf("NodeString(%v) = %q, ParseNode(%q) = %q; must agree", tt.ev, got, tt.spec, parsed)
		}
	}
}
