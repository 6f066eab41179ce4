package lsp

import (
	"strings"
	"unicode/utf8"
)

// utf16RuneLen returns the number of UTF-16 code units needed to encode r,
// or -1 if r is not a valid Unicode code point. Equivalent to
// unicode/utf16.RuneLen, which is not available in this toolchain.
func utf16RuneLen(r rune) int {
	switch {
	case r < 0 || (0xd800 <= r && r < 0xe000):
		return -1
	case r < 0x10000:
		return 1
	case r <= 0x10FFFF:
		return 2
	default:
		return -1
	}
}

// Converter maps whole-document rune offsets to LSP positions under a
// given offset encoding. It precomputes a line index over a snapshot of
// the document text; build one per conversion batch, not per position.
type Converter struct {
	encoding OffsetEncoding
	lines    []lineInfo // line start offsets, sorted
}

type lineInfo struct {
	startRune int    // rune offset of the line's first character
	text      string // line content without the trailing newline
}

// NewConverter indexes content for position conversion under encoding.
func NewConverter(content string, encoding OffsetEncoding) *Converter {
	c := &Converter{encoding: encoding}
	startRune := 0
	for {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			c.lines = append(c.lines, lineInfo{startRune: startRune, text: content})
			break
		}
		line := content[:idx]
		c.lines = append(c.lines, lineInfo{startRune: startRune, text: line})
		startRune += utf8.RuneCountInString(line) + 1
		content = content[idx+1:]
	}
	return c
}

// unitsForRunes returns the encoded length of the first n runes of line.
func (c *Converter) unitsForRunes(line string, n int) int {
	units := 0
	seen := 0
	for _, r := range line {
		if seen == n {
			break
		}
		seen++
		switch c.encoding {
		case EncodingUTF8:
			units += utf8.RuneLen(r)
		case EncodingUTF32:
			units++
		default:
			units += utf16RuneLen(r)
		}
	}
	return units
}

// PositionFor converts a whole-document rune offset to a Position.
// Offsets past the end clamp to the last line's end.
func (c *Converter) PositionFor(runeOffset int) Position {
	if runeOffset < 0 {
		runeOffset = 0
	}
	// Binary search for the containing line.
	lo, hi := 0, len(c.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.lines[mid].startRune <= runeOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := c.lines[lo]
	col := runeOffset - line.startRune
	if max := utf8.RuneCountInString(line.text); col > max {
		col = max
	}
	return Position{Line: lo, Character: c.unitsForRunes(line.text, col)}
}

// RangeFor converts a half-open rune-offset range to an LSP Range.
func (c *Converter) RangeFor(startRune, endRune int) Range {
	return Range{Start: c.PositionFor(startRune), End: c.PositionFor(endRune)}
}

// RuneOffsetFor converts a Position back to a whole-document rune offset.
func (c *Converter) RuneOffsetFor(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(c.lines) {
		last := c.lines[len(c.lines)-1]
		return last.startRune + utf8.RuneCountInString(last.text)
	}
	line := c.lines[pos.Line]
	units := 0
	runes := 0
	for _, r := range line.text {
		if units >= pos.Character {
			break
		}
		switch c.encoding {
		case EncodingUTF8:
			units += utf8.RuneLen(r)
		case EncodingUTF32:
			units++
		default:
			units += utf16RuneLen(r)
		}
		runes++
	}
	return line.startRune + runes
}
