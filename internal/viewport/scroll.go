package viewport

import (
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/view"
)

// Area is the on-screen render rectangle a view is drawn into, in cells.
type Area struct {
	Width  int
	Height int
}

// row identifies a wrap segment by (line, segment-within-line).
type row struct {
	line    uint32
	segment int
}

// flatten walks the document's wrap segmentation into a flat ordered list
// of rows, one per wrap segment across every line, so scroll position can
// be expressed as a single row index while still tracking which line/
// segment it belongs to.
func flatten(wrapped [][]Segment) []row {
	var rows []row
	for line, segs := range wrapped {
		for i := range segs {
			rows = append(rows, row{line: uint32(line), segment: i})
		}
	}
	return rows
}

func findRow(rows []row, line uint32, segment int) int {
	for i, r := range rows {
		if r.line == line && r.segment == segment {
			return i
		}
	}
	return 0
}

// cursorRowAndCol locates the flat row index and in-segment display column
// of the given CharIdx within the document's wrap segmentation.
func cursorRowAndCol(doc rope.Rope, wrapped [][]Segment, rows []row, cursor selection.CharIdx) (rowIdx, col int) {
	line := doc.CharToLine(cursor)
	segs := wrapped[line]
	for i, seg := range segs {
		end := seg.StartChar + selection.CharIdx(seg.CharLen)
		if cursor >= seg.StartChar && (cursor < end || i == len(segs)-1) {
			return findRow(rows, line, i), int(cursor - seg.StartChar)
		}
	}
	return findRow(rows, line, 0), 0
}

// EnsureCursorVisible implements spec §4.8's ensure_cursor_visible: it
// adjusts v.ScrollLine/v.ScrollSegment so the view's cursor stays on
// screen, honoring the shrink-stability and suppress-auto-scroll
// invariants before computing a margin-based scroll.
func EnsureCursorVisible(v *view.View, doc rope.Rope, area Area, tabWidth, margin int) {
	if area.Height < 1 {
		area.Height = 1
	}
	wrapped := WrapDocument(doc, area.Width, tabWidth)
	rows := flatten(wrapped)
	if len(rows) == 0 {
		return
	}

	cursor := v.Cursor()
	curRow, _ := cursorRowAndCol(doc, wrapped, rows, cursor)

	topRow := findRow(rows, uint32(v.ScrollLine), v.ScrollSegment)
	shrinking := area.Height < v.LastViewportHeight
	lastRow := topRow + area.Height - 1

	// Step 1: shrink-stability — never scroll to chase the cursor off a
	// viewport that just got smaller from an adjacent split resizing.
	if shrinking && curRow > lastRow {
		v.LastRenderedCursor = cursor
		v.LastViewportHeight = area.Height
		return
	}

	// Step 2: suppress_auto_scroll — if set and the cursor moved off
	// screen, record and return without scrolling.
	if v.SuppressAutoScroll && (curRow < topRow || curRow > lastRow) {
		v.LastRenderedCursor = cursor
		v.LastViewportHeight = area.Height
		return
	}

	effectiveMargin := margin
	if maxMargin := (area.Height - 1) / 2; effectiveMargin > maxMargin {
		effectiveMargin = maxMargin
	}
	if effectiveMargin < 0 {
		effectiveMargin = 0
	}

	newTopRow := topRow
	if curRow-topRow < effectiveMargin {
		newTopRow = curRow - effectiveMargin
	} else if curRow-topRow > area.Height-1-effectiveMargin {
		newTopRow = curRow - (area.Height - 1 - effectiveMargin)
	}
	if newTopRow < 0 {
		newTopRow = 0
	}
	if newTopRow > len(rows)-1 {
		newTopRow = len(rows) - 1
	}

	top := rows[newTopRow]
	v.ScrollLine = int(top.line)
	v.ScrollSegment = top.segment

	if v.ScrollLine >= len(wrapped) {
		v.ScrollLine = len(wrapped) - 1
	}
	if segCount := len(wrapped[v.ScrollLine]); v.ScrollSegment >= segCount {
		v.ScrollSegment = segCount - 1
	}
	if v.ScrollSegment < 0 {
		v.ScrollSegment = 0
	}

	v.LastRenderedCursor = cursor
	v.LastViewportHeight = area.Height
}

// ScrollBy moves the viewport by delta wrap rows (positive = down),
// clamping to the document, without moving the cursor.
func ScrollBy(v *view.View, doc rope.Rope, area Area, tabWidth, delta int) {
	wrapped := WrapDocument(doc, area.Width, tabWidth)
	rows := flatten(wrapped)
	if len(rows) == 0 {
		return
	}
	idx := findRow(rows, uint32(v.ScrollLine), v.ScrollSegment) + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(rows)-1 {
		idx = len(rows) - 1
	}
	v.ScrollLine = int(rows[idx].line)
	v.ScrollSegment = rows[idx].segment
}

// ScreenToDocPosition implements spec §4.8's screen_to_doc_position: it
// walks forward from the view's current scroll position by row wrap rows,
// then maps col within the found segment to a character offset. If row
// exceeds the document, it returns the last valid char.
func ScreenToDocPosition(v *view.View, doc rope.Rope, area Area, tabWidth, rowOffset, col int) selection.CharIdx {
	wrapped := WrapDocument(doc, area.Width, tabWidth)
	rows := flatten(wrapped)
	if len(rows) == 0 {
		return 0
	}

	topIdx := findRow(rows, uint32(v.ScrollLine), v.ScrollSegment)
	targetIdx := topIdx + rowOffset
	if targetIdx >= len(rows) {
		return doc.LenChars()
	}
	if targetIdx < 0 {
		targetIdx = 0
	}

	target := rows[targetIdx]
	seg := wrapped[target.line][target.segment]
	if col < 0 {
		col = 0
	}
	if col >= seg.CharLen {
		if seg.CharLen == 0 {
			return seg.StartChar
		}
		col = seg.CharLen - 1
	}
	return seg.StartChar + selection.CharIdx(col)
}
