package termio

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/keymap"
)

func TestTranslateKeyRune(t *testing.T) {
	ev, ok := TranslateKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	if !ok || !ev.IsRune() || ev.Rune != 'x' {
		t.Fatalf("got %+v ok=%v", ev, ok)
	}
}

func TestTranslateKeyCtrlLetter(t *testing.T) {
	ev, ok := TranslateKey(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl))
	if !ok {
		t.Fatal("not translated")
	}
	if !ev.IsRune() || ev.Rune != 'r' || !ev.Modifiers.HasCtrl() {
		t.Errorf("ctrl-r decoded as %+v", ev)
	}
}

func TestTranslateKeySpecials(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want key.Key
	}{
		{tcell.KeyEscape, key.KeyEscape},
		{tcell.KeyEnter, key.KeyEnter},
		{tcell.KeyTab, key.KeyTab},
		{tcell.KeyBackspace2, key.KeyBackspace},
		{tcell.KeyPgUp, key.KeyPageUp},
		{tcell.KeyLeft, key.KeyLeft},
	}
	for _, tt := range tests {
		ev, ok := TranslateKey(tcell.NewEventKey(tt.in, 0, tcell.ModNone))
		if !ok || ev.Key != tt.want {
			t.Errorf("key %v -> %+v ok=%v, want %v", tt.in, ev, ok, tt.want)
		}
	}
}

func TestTranslateKeyFunctionKeys(t *testing.T) {
	ev, ok := TranslateKey(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone))
	if !ok || ev.Key != key.KeyF5 {
		t.Errorf("F5 -> %+v ok=%v", ev, ok)
	}
	ev, ok = TranslateKey(tcell.NewEventKey(tcell.KeyF35, 0, tcell.ModNone))
	if !ok || ev.Key != key.KeyF35 {
		t.Errorf("F35 -> %+v ok=%v", ev, ok)
	}
}

func TestTranslateMouseDragNeedsPriorPress(t *testing.T) {
	press := tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone)
	ev, _ := TranslateMouse(press, tcell.ButtonNone)
	if ev.Kind != keymap.MouseDown || ev.Row != 4 || ev.Col != 3 {
		t.Errorf("press -> %+v", ev)
	}

	drag := tcell.NewEventMouse(5, 4, tcell.Button1, tcell.ModNone)
	ev, _ = TranslateMouse(drag, tcell.Button1)
	if ev.Kind != keymap.MouseDrag {
		t.Errorf("drag -> %+v", ev)
	}

	release := tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone)
	ev, _ = TranslateMouse(release, tcell.Button1)
	if ev.Kind != keymap.MouseUp {
		t.Errorf("release -> %+v", ev)
	}
}

func TestResolveTheme(t *testing.T) {
	th, err := ResolveTheme("test", map[string]string{
		"foreground": "#ffffff",
		"unknown":    "#000000", // ignored
	})
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := th.Foreground.RGB255()
	if r != 255 || g != 255 || b != 255 {
		t.Errorf("foreground = %d,%d,%d", r, g, b)
	}

	if _, err := ResolveTheme("bad", map[string]string{"foreground": "not-a-color"}); err == nil {
		t.Error("invalid hex should error")
	}
}
