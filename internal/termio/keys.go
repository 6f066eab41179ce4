// Package termio adapts the tcell terminal backend to the editor core:
// inbound tcell key/mouse/resize events become core input events, and
// shell frames are drawn back as styled cells. It is the only package that
// touches the terminal (spec §1 treats the backend as an external
// collaborator behind this boundary).
package termio

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/keymap"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
}

func translateModifiers(mods tcell.ModMask) key.Modifier {
	var out key.Modifier
	if mods&tcell.ModShift != 0 {
		out = out.With(key.ModShift)
	}
	if mods&tcell.ModCtrl != 0 {
		out = out.With(key.ModCtrl)
	}
	if mods&tcell.ModAlt != 0 {
		out = out.With(key.ModAlt)
	}
	if mods&tcell.ModMeta != 0 {
		out = out.With(key.ModMeta)
	}
	return out
}

// TranslateKey converts a tcell key event into the core's key.Event.
func TranslateKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := translateModifiers(ev.Modifiers())

	if k, ok := specialKeys[ev.Key()]; ok {
		return key.NewSpecialEvent(k, mods), true
	}
	if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF64 {
		n := int(ev.Key() - tcell.KeyF1)
		if n < 35 {
			return key.NewSpecialEvent(key.KeyF1+key.Key(n), mods), true
		}
		return key.Event{}, false
	}
	// tcell folds Ctrl+letter into dedicated key codes.
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ && ev.Key() != tcell.KeyTab && ev.Key() != tcell.KeyEnter {
		r := rune('a' + int(ev.Key()-tcell.KeyCtrlA))
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	}
	if ev.Key() == tcell.KeyRune {
		return key.NewRuneEvent(ev.Rune(), mods), true
	}
	return key.Event{}, false
}

// TranslateMouse converts a tcell mouse event into the keymap's mouse
// shape. The previous buttons mask distinguishes a drag from a fresh
// press.
func TranslateMouse(ev *tcell.EventMouse, prevButtons tcell.ButtonMask) (keymap.MouseEvent, bool) {
	x, y := ev.Position()
	shift := ev.Modifiers()&tcell.ModShift != 0
	out := keymap.MouseEvent{Row: y, Col: x, Shift: shift}

	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		out.Kind = keymap.MouseScrollUp
	case buttons&tcell.WheelDown != 0:
		out.Kind = keymap.MouseScrollDown
	case buttons&tcell.WheelLeft != 0:
		out.Kind = keymap.MouseScrollLeft
	case buttons&tcell.WheelRight != 0:
		out.Kind = keymap.MouseScrollRight
	case buttons&tcell.Button1 != 0 && prevButtons&tcell.Button1 != 0:
		out.Kind = keymap.MouseDrag
		out.Button = 1
	case buttons&tcell.Button1 != 0:
		out.Kind = keymap.MouseDown
		out.Button = 1
	case buttons == tcell.ButtonNone && prevButtons != tcell.ButtonNone:
		out.Kind = keymap.MouseUp
	default:
		out.Kind = keymap.MouseMoved
	}
	return out, true
}
