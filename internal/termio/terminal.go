package termio

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wisp-editor/wisp/internal/notify"
	"github.com/wisp-editor/wisp/internal/shell"
	"github.com/wisp-editor/wisp/internal/viewport"
)

// Terminal owns the tcell screen and drives the shell's pump from
// terminal events (spec §4.12's per-frame loop lives here).
type Terminal struct {
	screen tcell.Screen
	theme  Theme
	styles styles

	prevButtons tcell.ButtonMask
}

// New initializes the terminal screen.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("termio: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termio: init screen: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()

	t := &Terminal{screen: screen, theme: DefaultTheme()}
	t.styles = stylesFor(t.theme)
	return t, nil
}

// SetTheme swaps the active theme.
func (t *Terminal) SetTheme(theme Theme) {
	t.theme = theme
	t.styles = stylesFor(theme)
}

// Close restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

const tickInterval = 16 * time.Millisecond

// Run pumps events and frames until the editor quits. Per frame: apply
// terminal events, drain deferred work and hooks via ed.Tick, then render.
func (t *Terminal) Run(ed *shell.Editor) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go t.screen.ChannelEvents(events, quit)
	defer close(quit)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			t.applyEvent(ed, ev)
		case <-ticker.C:
		}

		ed.Tick()
		t.render(ed)

		if ed.ShouldQuit() {
			return nil
		}
	}
}

func (t *Terminal) applyEvent(ed *shell.Editor, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if kev, ok := TranslateKey(ev); ok {
			ed.HandleKey(kev)
		}
	case *tcell.EventMouse:
		if mev, ok := TranslateMouse(ev, t.prevButtons); ok {
			ed.HandleMouse(mev)
		}
		t.prevButtons = ev.Buttons()
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

func (t *Terminal) render(ed *shell.Editor) {
	width, height := t.screen.Size()
	if height < 2 {
		return
	}
	frame := ed.BuildFrame(viewport.Area{Width: width, Height: height - 1})

	t.screen.Fill(' ', t.styles.base)
	for row, line := range frame.Rows {
		col := 0
		for _, r := range line {
			if col >= width {
				break
			}
			t.screen.SetContent(col, row, r, nil, t.styles.base)
			col++
		}
	}

	t.drawStatus(frame, width, height-1)

	if frame.CursorRow >= 0 {
		t.screen.ShowCursor(frame.CursorCol, frame.CursorRow)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *Terminal) drawStatus(frame shell.Frame, width, row int) {
	status := frame.Status
	if notes := frame.Notes; len(notes) > 0 {
		latest := notes[len(notes)-1]
		status = latest.Message + "  " + status
		style := t.styles.status
		switch latest.Level {
		case notify.Warn:
			style = t.styles.warn
		case notify.Error:
			style = t.styles.err
		}
		drawText(t.screen, 0, row, width, status, style)
		return
	}
	drawText(t.screen, 0, row, width, status, t.styles.status)
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			return
		}
		if r == '\n' {
			r = ' '
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
	for col < x+maxWidth {
		s.SetContent(col, y, ' ', nil, style)
		col++
	}
}
