// Package key models terminal key input: a Key code, a Modifier bitset,
// and the Event the keymap engine matches on. The terminal backend decodes
// raw escape sequences into these values; nothing here touches the
// terminal itself.
package key

import "strconv"

// Key identifies which key was pressed. Printable characters use KeyRune
// with the codepoint in Event.Rune; everything else has its own code.
type Key uint16

const (
	KeyNone Key = iota

	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	KeySpace

	// KeyF1..KeyF35 form a contiguous run; the terminal decoder addresses
	// it arithmetically (KeyF1 + n).
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24
	KeyF25
	KeyF26
	KeyF27
	KeyF28
	KeyF29
	KeyF30
	KeyF31
	KeyF32
	KeyF33
	KeyF34
	KeyF35

	// KeyRune marks a printable character; the character itself travels in
	// Event.Rune.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyEscape:    "esc",
	KeyEnter:     "ret",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeySpace:     "space",
	KeyRune:      "rune",
}

var namesToKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+40)
	for k, name := range keyNames {
		m[name] = k
	}
	// Aliases the binding surface accepts alongside the canonical names.
	m["escape"] = KeyEscape
	m["enter"] = KeyEnter
	m["return"] = KeyEnter
	m["del"] = KeyDelete
	m["ins"] = KeyInsert
	m["pgup"] = KeyPageUp
	m["pgdn"] = KeyPageDown
	for f := KeyF1; f <= KeyF35; f++ {
		m["f"+strconv.Itoa(1+int(f-KeyF1))] = f
	}
	return m
}()

// String returns the key's canonical lowercase name ("esc", "f7", ...).
func (k Key) String() string {
	if k.IsFunctionKey() {
		return "f" + strconv.Itoa(1+int(k-KeyF1))
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// IsFunctionKey reports whether k is one of F1..F35.
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF35
}

// IsSpecial reports whether k is a non-character key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// KeyFromName resolves a lowercase key name ("esc", "pageup", "f12") to
// its Key, or KeyNone when unknown.
func KeyFromName(name string) Key {
	if k, ok := namesToKeys[name]; ok {
		return k
	}
	return KeyNone
}

// Modifier is a bitset of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }
func (m Modifier) HasMeta() bool  { return m.Has(ModMeta) }

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// IsEmpty reports whether no modifier is held.
func (m Modifier) IsEmpty() bool { return m == ModNone }
