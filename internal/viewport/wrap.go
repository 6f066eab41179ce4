package viewport

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// Segment is one wrap-rendered slice of a document line: the characters
// [StartChar, StartChar+CharLen) and their rendered text (tabs expanded to
// spaces per TabWidth, matching the teacher's convention of never emitting
// raw tab bytes to the terminal backend).
type Segment struct {
	StartChar selection.CharIdx
	CharLen   int
	Text      string
}

// runeWidth returns the display width of r in cells: 2 for East-Asian
// wide/fullwidth runes, 1 otherwise. Tabs are handled by the caller, which
// tracks column position to round up to the next tab stop.
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// WrapLine splits the document line starting at char offset lineStart and
// ending (exclusive) at lineEnd into an ordered list of wrap segments of
// display width at most w. A line with L display cells wraps into
// ceil(L/w) segments; an empty or short line always yields exactly one
// segment (spec §4.8).
func WrapLine(doc rope.Rope, lineStart, lineEnd selection.CharIdx, w, tabWidth int) []Segment {
	if w < 1 {
		w = 1
	}
	text := doc.SliceChars(lineStart, lineEnd)

	var segments []Segment
	var b strings.Builder
	segStart := lineStart
	segCharLen := 0
	col := 0

	flush := func(nextStart selection.CharIdx) {
		segments = append(segments, Segment{StartChar: segStart, CharLen: segCharLen, Text: b.String()})
		b.Reset()
		segStart = nextStart
		segCharLen = 0
		col = 0
	}

	pos := lineStart
	for _, r := range text {
		cw := 1
		if r == '\t' {
			cw = tabWidth - (col % tabWidth)
		} else {
			cw = runeWidth(r)
		}
		if col+cw > w && segCharLen > 0 {
			flush(pos)
		}
		if r == '\t' {
			b.WriteString(strings.Repeat(" ", cw))
		} else {
			b.WriteRune(r)
		}
		col += cw
		segCharLen++
		pos++
	}
	segments = append(segments, Segment{StartChar: segStart, CharLen: segCharLen, Text: b.String()})

	return segments
}

// WrapDocument returns the wrap segments for every line of doc, indexed by
// line number.
func WrapDocument(doc rope.Rope, w, tabWidth int) [][]Segment {
	lines := doc.CharToLine(doc.LenChars()) + 1
	out := make([][]Segment, 0, lines)
	for line := uint32(0); line < lines; line++ {
		start := doc.LineToChar(line)
		var end selection.CharIdx
		if line+1 < lines {
			end = doc.LineToChar(line + 1)
		} else {
			end = doc.LenChars()
		}
		out = append(out, WrapLine(doc, start, end, w, tabWidth))
	}
	return out
}
