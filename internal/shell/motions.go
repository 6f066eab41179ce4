package shell

import (
	"unicode"

	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// isWordChar reports whether r belongs to a word (letters, digits,
// underscore). Everything else — punctuation, whitespace, newlines — is a
// separator for Word-kind motions.
func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runeAt(doc rope.Rope, pos selection.CharIdx) (rune, bool) {
	if pos < 0 || pos >= doc.LenChars() {
		return 0, false
	}
	s := doc.SliceChars(pos, pos+1)
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// nextWordEnd returns the range selecting the next word after pos: anchor
// at the first word character after pos, head on the last character of
// that word. Separator runs —
// including punctuation before a line break — are skipped over.
func nextWordEnd(doc rope.Rope, pos selection.CharIdx) (selection.Range, bool) {
	n := doc.LenChars()
	p := pos + 1
	for p < n {
		if r, ok := runeAt(doc, p); ok && isWordChar(r) {
			break
		}
		p++
	}
	if p >= n {
		return selection.Range{}, false
	}
	start := p
	for p+1 < n {
		r, ok := runeAt(doc, p+1)
		if !ok || !isWordChar(r) {
			break
		}
		p++
	}
	return selection.Range{Anchor: start, Head: p}, true
}

// nextWordStart returns the range from pos's word (or separator run) up to
// the start of the following word, head on the next word's first char.
func nextWordStart(doc rope.Rope, pos selection.CharIdx) (selection.Range, bool) {
	n := doc.LenChars()
	p := pos
	// Leave the current word, if we are inside one.
	if r, ok := runeAt(doc, p); ok && isWordChar(r) {
		for p < n {
			r, ok := runeAt(doc, p)
			if !ok || !isWordChar(r) {
				break
			}
			p++
		}
	} else {
		p++
	}
	for p < n {
		if r, ok := runeAt(doc, p); ok && isWordChar(r) {
			return selection.Range{Anchor: pos, Head: p}, true
		}
		p++
	}
	return selection.Range{}, false
}

// prevWordStart returns the range selecting back to the start of the
// previous word.
func prevWordStart(doc rope.Rope, pos selection.CharIdx) (selection.Range, bool) {
	p := pos - 1
	for p >= 0 {
		if r, ok := runeAt(doc, p); ok && isWordChar(r) {
			break
		}
		p--
	}
	if p < 0 {
		return selection.Range{}, false
	}
	for p > 0 {
		r, ok := runeAt(doc, p-1)
		if !ok || !isWordChar(r) {
			break
		}
		p--
	}
	return selection.Range{Anchor: pos, Head: p}, true
}

// moveHorizontal shifts pos by delta characters, clamped to the document.
func moveHorizontal(doc rope.Rope, pos selection.CharIdx, delta int) selection.CharIdx {
	p := pos + selection.CharIdx(delta)
	if p < 0 {
		p = 0
	}
	if n := doc.LenChars(); p > n {
		p = n
	}
	return p
}

// moveVertical shifts pos by delta lines, preserving the column where the
// target line is long enough.
func moveVertical(doc rope.Rope, pos selection.CharIdx, delta int) selection.CharIdx {
	line := int(doc.CharToLine(pos))
	col := pos - doc.LineToChar(uint32(line))
	lastLine := int(doc.CharToLine(doc.LenChars()))

	target := line + delta
	if target < 0 {
		target = 0
	}
	if target > lastLine {
		target = lastLine
	}
	start := doc.LineToChar(uint32(target))
	end := lineEndChar(doc, uint32(target))
	p := start + col
	if p > end {
		p = end
	}
	return p
}

// lineEndChar returns the char index of the target line's last column: the
// position of its newline, or the document end for the final line.
func lineEndChar(doc rope.Rope, line uint32) selection.CharIdx {
	lastLine := doc.CharToLine(doc.LenChars())
	if line >= lastLine {
		return doc.LenChars()
	}
	return doc.LineToChar(line+1) - 1
}

// findCharForward locates the count'th occurrence of ch after pos on the
// current line. till stops one character before it.
func findCharForward(doc rope.Rope, pos selection.CharIdx, ch rune, count uint32, till bool) (selection.CharIdx, bool) {
	line := doc.CharToLine(pos)
	end := lineEndChar(doc, line)
	p := pos
	for i := uint32(0); i < count; i++ {
		found := false
		for q := p + 1; q < end; q++ {
			if r, ok := runeAt(doc, q); ok && r == ch {
				p = q
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	if till {
		p--
	}
	return p, true
}

// findCharBackward locates the count'th occurrence of ch before pos on the
// current line.
func findCharBackward(doc rope.Rope, pos selection.CharIdx, ch rune, count uint32, till bool) (selection.CharIdx, bool) {
	line := doc.CharToLine(pos)
	start := doc.LineToChar(line)
	p := pos
	for i := uint32(0); i < count; i++ {
		found := false
		for q := p - 1; q >= start; q-- {
			if r, ok := runeAt(doc, q); ok && r == ch {
				p = q
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	if till {
		p++
	}
	return p, true
}

// perRangeMotion applies a motion to every range in the selection. With
// extend, each range keeps its anchor and only moves its head; otherwise
// the range becomes the motion's own result. A range whose motion finds no
// target stays put.
func perRangeMotion(sel selection.Selection, extend bool, f func(selection.Range) (selection.Range, bool)) selection.Selection {
	return sel.Transform(func(cur selection.Range) selection.Range {
		target, ok := f(cur)
		if !ok {
			return cur
		}
		if extend {
			return selection.Range{Anchor: cur.Anchor, Head: target.Head}
		}
		return target
	})
}

// perRangePoint applies a pure cursor motion to every range: each range
// collapses to (or extends toward) the computed position.
func perRangePoint(sel selection.Selection, extend bool, f func(selection.CharIdx) selection.CharIdx) selection.Selection {
	return perRangeMotion(sel, extend, func(cur selection.Range) (selection.Range, bool) {
		p := f(cur.Head)
		return selection.Point(p), true
	})
}
