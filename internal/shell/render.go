package shell

import (
	"fmt"
	"strings"

	"github.com/wisp-editor/wisp/internal/notify"
	"github.com/wisp-editor/wisp/internal/viewport"
)

// Frame is what the shell hands the terminal renderer each tick: the
// focused view's visible wrap rows, the cursor cell, a status line, and
// active notifications. Cell styling and layout are the renderer
// collaborator's concern.
type Frame struct {
	Rows      []string
	CursorRow int
	CursorCol int
	Status    string
	Notes     []notify.Notification
	Theme     string
}

// BuildFrame sizes the focused view to area, ensures its cursor is
// visible, and collects the visible wrap rows (spec §4.12 step 6).
func (e *Editor) BuildFrame(area viewport.Area) Frame {
	e.SetViewArea(e.focus, area)
	e.EnsureVisible()

	v := e.FocusedView()
	doc := e.docs[v.DocID]
	text := doc.Text()

	wrapped := viewport.WrapDocument(text, area.Width, e.tabWidth)
	cursor := v.Cursor()
	cursorLine := int(text.CharToLine(cursor))

	frame := Frame{CursorRow: -1, CursorCol: 0, Theme: e.theme, Notes: e.notes.Active()}

	line := v.ScrollLine
	segIdx := v.ScrollSegment
	for len(frame.Rows) < area.Height && line < len(wrapped) {
		segs := wrapped[line]
		if segIdx >= len(segs) {
			line++
			segIdx = 0
			continue
		}
		seg := segs[segIdx]
		rowText := strings.TrimRight(seg.Text, "\n")
		if line == cursorLine && cursor >= seg.StartChar &&
			(int(cursor-seg.StartChar) < seg.CharLen || segIdx == len(segs)-1) {
			frame.CursorRow = len(frame.Rows)
			frame.CursorCol = int(cursor - seg.StartChar)
		}
		frame.Rows = append(frame.Rows, rowText)
		segIdx++
	}

	frame.Status = e.statusLine(doc.Path(), doc.Version())
	return frame
}

func (e *Editor) statusLine(path string, version uint64) string {
	if path == "" {
		path = "[scratch]"
	}
	parts := []string{strings.ToUpper(e.keys.Mode()), path, fmt.Sprintf("v%d", version)}
	if pending := e.keys.PendingSequence(); len(pending) > 0 {
		parts = append(parts, strings.Join(pending, " "))
	}
	if c := e.keys.Count(); c > 0 {
		parts = append(parts, fmt.Sprintf("%d", c))
	}
	return strings.Join(parts, "  ")
}
