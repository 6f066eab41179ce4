package keymap

import (
	"strconv"

	"github.com/wisp-editor/wisp/internal/invocation"
)

// MouseKind enumerates the mouse event shapes the terminal backend delivers.
type MouseKind uint8

const (
	MouseDown MouseKind = iota
	MouseUp
	MouseDrag
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
	MouseMoved
)

// MouseEvent is a decoded mouse event in screen coordinates.
type MouseEvent struct {
	Kind   MouseKind
	Row    int
	Col    int
	Shift  bool
	Button int
}

// Mouse action names emitted by TranslateMouse; the shell registers
// handlers under these names.
const (
	ActionMouseClick  = "mouse.click"
	ActionMouseDrag   = "mouse.drag"
	ActionMouseScroll = "mouse.scroll"
)

// TranslateMouse converts a mouse event directly into an invocation (spec
// §4.5: mouse events bypass the trie). Row/col travel as positional args;
// Shift maps to Extend for click events so shift-click extends the primary
// selection. Scroll invocations carry the direction as their only arg.
// Up and Moved events produce no invocation.
func TranslateMouse(ev MouseEvent) (invocation.Invocation, bool) {
	rc := []string{strconv.Itoa(ev.Row), strconv.Itoa(ev.Col)}
	switch ev.Kind {
	case MouseDown:
		inv := invocation.Command(ActionMouseClick, rc...)
		inv.Extend = ev.Shift
		inv.Source = "mouse"
		return inv, true
	case MouseDrag:
		inv := invocation.Command(ActionMouseDrag, rc...)
		inv.Source = "mouse"
		return inv, true
	case MouseScrollUp, MouseScrollDown, MouseScrollLeft, MouseScrollRight:
		dir := map[MouseKind]string{
			MouseScrollUp:    "up",
			MouseScrollDown:  "down",
			MouseScrollLeft:  "left",
			MouseScrollRight: "right",
		}[ev.Kind]
		inv := invocation.Command(ActionMouseScroll, dir)
		inv.Source = "mouse"
		return inv, true
	default:
		return invocation.Invocation{}, false
	}
}
