package key

import "unicode"

// Event is one decoded key press.
type Event struct {
	Key       Key
	Rune      rune // the codepoint for KeyRune events
	Modifiers Modifier
}

// NewRuneEvent builds an event for a printable character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent builds an event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether the event carries a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar reports whether the event carries a printable character.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune)
}

// IsModified reports whether any modifier is held, except that Shift alone
// does not count for character events, since the shifted codepoint already
// encodes it.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// String renders the event for diagnostics: "ctrl-x", "shift-left", "a".
func (e Event) String() string {
	var sb []byte
	if e.Modifiers.HasCtrl() {
		sb = append(sb, "ctrl-"...)
	}
	if e.Modifiers.HasAlt() {
		sb = append(sb, "alt-"...)
	}
	if e.Modifiers.HasShift() && !e.IsRune() {
		sb = append(sb, "shift-"...)
	}
	if e.Modifiers.HasMeta() {
		sb = append(sb, "cmd-"...)
	}
	if e.IsRune() {
		return string(sb) + string(e.Rune)
	}
	return string(sb) + e.Key.String()
}
