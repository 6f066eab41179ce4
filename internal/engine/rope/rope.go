// Package rope implements the document text container: an immutable,
// chunked string indexed by character position and line number. Every
// value operation returns a new Rope sharing unchanged chunks with its
// parent, so history snapshots and concurrent readers are cheap.
//
// Character positions (CharIdx) are the package's primary coordinate
// system — the changeset, selection, and viewport layers all speak in
// characters, never bytes. Byte offsets exist only inside a chunk.
package rope

import (
	"strings"
	"unicode/utf8"
)

// CharIdx is an absolute character (rune) position in a rope.
type CharIdx int

// targetChunkBytes is the size edits re-split text into. Small enough to
// keep edit copies cheap, large enough that chunk metadata stays
// negligible next to the text.
const targetChunkBytes = 512

// chunk is one immutable piece of the document with its precomputed
// measures. text is never sliced after construction.
type chunk struct {
	text     string
	chars    int
	newlines int
}

func makeChunk(text string) chunk {
	return chunk{
		text:     text,
		chars:    utf8.RuneCountInString(text),
		newlines: strings.Count(text, "\n"),
	}
}

// Rope is an immutable chunk sequence with whole-rope totals. The zero
// value is the empty document.
type Rope struct {
	chunks   []chunk
	chars    int
	newlines int
}

// FromString builds a rope from s.
func FromString(s string) Rope {
	return fromChunks(splitChunks(s))
}

func fromChunks(chunks []chunk) Rope {
	r := Rope{chunks: chunks}
	for _, c := range chunks {
		r.chars += c.chars
		r.newlines += c.newlines
	}
	return r
}

// splitChunks cuts s into target-sized pieces on rune boundaries.
func splitChunks(s string) []chunk {
	if s == "" {
		return nil
	}
	chunks := make([]chunk, 0, len(s)/targetChunkBytes+1)
	for len(s) > 0 {
		end := targetChunkBytes
		if end >= len(s) {
			chunks = append(chunks, makeChunk(s))
			break
		}
		// Back off to a rune boundary.
		for end > 0 && !utf8.RuneStart(s[end]) {
			end--
		}
		if end == 0 {
			end = len(s)
		}
		chunks = append(chunks, makeChunk(s[:end]))
		s = s[end:]
	}
	return chunks
}

// LenChars returns the number of characters in the rope.
func (r Rope) LenChars() CharIdx { return CharIdx(r.chars) }

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool { return r.chars == 0 }

// LineCount returns the number of logical lines: one more than the
// newline count, so a document without a trailing newline still counts
// its last line, and an empty document has one (empty) line.
func (r Rope) LineCount() uint32 { return uint32(r.newlines + 1) }

// String materializes the full text.
func (r Rope) String() string {
	var sb strings.Builder
	for _, c := range r.chunks {
		sb.WriteString(c.text)
	}
	return sb.String()
}

// locate finds the chunk containing character position ci and the
// character offset within it. A position at the very end lands one past
// the last chunk's content.
func (r Rope) locate(ci CharIdx) (idx int, offset int) {
	remaining := int(ci)
	for i, c := range r.chunks {
		if remaining < c.chars {
			return i, remaining
		}
		remaining -= c.chars
	}
	return len(r.chunks), 0
}

// byteOffsetOfChar returns the byte index of the n-th character of text.
func byteOffsetOfChar(text string, n int) int {
	if n <= 0 {
		return 0
	}
	seen := 0
	for i := range text {
		if seen == n {
			return i
		}
		seen++
	}
	return len(text)
}

// SliceChars returns the text in [start, end). Out-of-range bounds clamp;
// an empty or inverted range is the empty string.
func (r Rope) SliceChars(start, end CharIdx) string {
	start, end = r.clamp(start), r.clamp(end)
	if start >= end {
		return ""
	}

	var sb strings.Builder
	pos := CharIdx(0)
	for _, c := range r.chunks {
		chunkEnd := pos + CharIdx(c.chars)
		if chunkEnd <= start {
			pos = chunkEnd
			continue
		}
		if pos >= end {
			break
		}
		from := 0
		if start > pos {
			from = byteOffsetOfChar(c.text, int(start-pos))
		}
		to := len(c.text)
		if end < chunkEnd {
			to = byteOffsetOfChar(c.text, int(end-pos))
		}
		sb.WriteString(c.text[from:to])
		pos = chunkEnd
	}
	return sb.String()
}

func (r Rope) clamp(ci CharIdx) CharIdx {
	if ci < 0 {
		return 0
	}
	if int(ci) > r.chars {
		return CharIdx(r.chars)
	}
	return ci
}

// CharToLine returns the 0-indexed line containing position ci: the
// number of newlines strictly before it. CharToLine(LenChars()) is the
// index of the last logical line, so LineCount() == CharToLine(LenChars())+1.
func (r Rope) CharToLine(ci CharIdx) uint32 {
	ci = r.clamp(ci)
	lines := 0
	pos := 0
	for _, c := range r.chunks {
		if pos+c.chars <= int(ci) {
			lines += c.newlines
			pos += c.chars
			continue
		}
		for _, rn := range c.text {
			if pos == int(ci) {
				return uint32(lines)
			}
			if rn == '\n' {
				lines++
			}
			pos++
		}
		break
	}
	return uint32(lines)
}

// LineToChar returns the character position where the given line starts.
// LineToChar(LineCount()) is one past the last character.
func (r Rope) LineToChar(line uint32) CharIdx {
	if line == 0 {
		return 0
	}
	if int(line) > r.newlines {
		return CharIdx(r.chars)
	}
	// The line starts just after its preceding newline, the line-th one.
	remaining := int(line)
	pos := 0
	for _, c := range r.chunks {
		if c.newlines < remaining {
			remaining -= c.newlines
			pos += c.chars
			continue
		}
		for _, rn := range c.text {
			pos++
			if rn == '\n' {
				remaining--
				if remaining == 0 {
					return CharIdx(pos)
				}
			}
		}
	}
	return CharIdx(r.chars)
}

// Equal reports whether two ropes hold the same text.
func (r Rope) Equal(other Rope) bool {
	if r.chars != other.chars || r.newlines != other.newlines {
		return false
	}
	return r.String() == other.String()
}
