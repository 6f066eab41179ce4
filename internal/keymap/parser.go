package keymap

import (
	"fmt"
	"strings"

	"github.com/wisp-editor/wisp/internal/input/key"
)

// Node-string grammar (spec §6 "Keymap definition surface"): a sequence is
// whitespace-separated nodes of the form [mod-]*key, modifiers drawn from
// {ctrl, alt, shift, cmd} (each at most once, order free), keys drawn from
// ASCII characters, named keys, function keys f1..f35, and character
// groups @digit/@lower/@upper/@alpha/@alnum/@any.
//
// Canonical form used for trie keys: modifiers in ctrl,alt,shift,cmd order
// joined with "-", then the key name. Plain printable runes are spelled as
// themselves ("x"); space is spelled "space". Shift is never part of a
// canonical rune node (the shifted codepoint already encodes it).

var specialNames = map[key.Key]string{
	key.KeyEscape:    "esc",
	key.KeyEnter:     "ret",
	key.KeyTab:       "tab",
	key.KeySpace:     "space",
	key.KeyBackspace: "backspace",
	key.KeyUp:        "up",
	key.KeyDown:      "down",
	key.KeyLeft:      "left",
	key.KeyRight:     "right",
	key.KeyHome:      "home",
	key.KeyEnd:       "end",
	key.KeyPageUp:    "pageup",
	key.KeyPageDown:  "pagedown",
	key.KeyDelete:    "delete",
	key.KeyInsert:    "insert",
}

var namedKeys = map[string]key.Key{
	"esc":       key.KeyEscape,
	"ret":       key.KeyEnter,
	"tab":       key.KeyTab,
	"space":     key.KeySpace,
	"backspace": key.KeyBackspace,
	"up":        key.KeyUp,
	"down":      key.KeyDown,
	"left":      key.KeyLeft,
	"right":     key.KeyRight,
	"home":      key.KeyHome,
	"end":       key.KeyEnd,
	"pageup":    key.KeyPageUp,
	"pagedown":  key.KeyPageDown,
	"delete":    key.KeyDelete,
	"insert":    key.KeyInsert,
}

func specialName(k key.Key) string {
	if name, ok := specialNames[k]; ok {
		return name
	}
	if k.IsFunctionKey() {
		return strings.ToLower(k.String())
	}
	return strings.ToLower(k.String())
}

func modifierPrefix(mods key.Modifier, includeShift bool) string {
	var sb strings.Builder
	if mods.HasCtrl() {
		sb.WriteString("ctrl-")
	}
	if mods.HasAlt() {
		sb.WriteString("alt-")
	}
	if includeShift && mods.HasShift() {
		sb.WriteString("shift-")
	}
	if mods.HasMeta() {
		sb.WriteString("cmd-")
	}
	return sb.String()
}

// NodeString returns the canonical node string for a key event.
func NodeString(ev key.Event) string {
	if ev.IsRune() {
		name := string(ev.Rune)
		if ev.Rune == ' ' {
			name = "space"
		}
		return modifierPrefix(ev.Modifiers, false) + name
	}
	return modifierPrefix(ev.Modifiers, true) + specialName(ev.Key)
}

// nodeFor wraps a key event into the sequence Node the trie matches on.
func nodeFor(ev key.Event) Node {
	return Node{Str: NodeString(ev), Rune: ev.Rune, IsRune: ev.IsRune()}
}

// ParseNode parses a single [mod-]*key node into its canonical string form.
// Character-group nodes (@digit etc.) pass through unchanged and accept no
// modifiers.
func ParseNode(node string) (string, error) {
	if node == "" {
		return "", fmt.Errorf("keymap: empty key node")
	}
	if strings.HasPrefix(node, "@") && node != "@" {
		if !isGroupName(node) {
			return "", fmt.Errorf("keymap: unknown character group %q", node)
		}
		return node, nil
	}

	parts := strings.Split(node, "-")
	// A literal "-" key produces empty segments; treat a trailing empty
	// segment as the dash key itself.
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(modParts) > 0 {
		keyPart = "-"
		modParts = modParts[:len(modParts)-1]
	}

	var mods key.Modifier
	for _, m := range modParts {
		var bit key.Modifier
		switch strings.ToLower(m) {
		case "ctrl":
			bit = key.ModCtrl
		case "alt":
			bit = key.ModAlt
		case "shift":
			bit = key.ModShift
		case "cmd":
			bit = key.ModMeta
		default:
			return "", fmt.Errorf("keymap: unknown modifier %q in node %q", m, node)
		}
		if mods.Has(bit) {
			return "", fmt.Errorf("keymap: duplicate modifier %q in node %q", m, node)
		}
		mods = mods.With(bit)
	}

	if named, ok := namedKeys[strings.ToLower(keyPart)]; ok {
		return NodeString(key.NewSpecialEvent(named, mods)), nil
	}
	if k := key.KeyFromName(keyPart); k != key.KeyNone && k.IsFunctionKey() {
		return NodeString(key.NewSpecialEvent(k, mods)), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return "", fmt.Errorf("keymap: unknown key %q in node %q", keyPart, node)
	}
	r := runes[0]
	if r > 0x7f {
		return "", fmt.Errorf("keymap: non-ASCII key %q in node %q", keyPart, node)
	}
	// Shift on a printable rune is redundant: the shifted codepoint is the
	// key. Drop it from the canonical form.
	mods = mods.Without(key.ModShift)
	return NodeString(key.NewRuneEvent(r, mods)), nil
}

func isGroupName(name string) bool {
	switch name {
	case "@digit", "@lower", "@upper", "@alpha", "@alnum", "@any":
		return true
	}
	return false
}

// ParseSequence parses a whitespace-separated node sequence into trie path
// strings.
func ParseSequence(seq string) ([]string, error) {
	fields := strings.Fields(seq)
	if len(fields) == 0 {
		return nil, fmt.Errorf("keymap: empty key sequence")
	}
	path := make([]string, 0, len(fields))
	for _, f := range fields {
		node, err := ParseNode(f)
		if err != nil {
			return nil, err
		}
		path = append(path, node)
	}
	return path, nil
}
