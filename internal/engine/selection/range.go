package selection

import "github.com/wisp-editor/wisp/internal/engine/rope"

// CharIdx is a character (rune) position in a document.
type CharIdx = rope.CharIdx

// Direction indicates whether a Range extends forward (anchor <= head) or
// backward (head < anchor).
type Direction uint8

const (
	// Forward means the range's anchor is at or before its head.
	Forward Direction = iota
	// Backward means the range's head is before its anchor.
	Backward
)

// Range is an anchor/head pair. Forward when Anchor <= Head.
type Range struct {
	Anchor CharIdx
	Head   CharIdx
}

// NewRange constructs a Range, panicking if the caller passes positions that
// cannot be ordered at all (negative indices). Reversed anchor/head order is
// legal and encodes direction; unlike spec §9's discussion of the source's
// "from_exclusive" helper, Range never silently reorders anchor/head itself
// — Min/Max do that work explicitly.
func NewRange(anchor, head CharIdx) Range {
	if anchor < 0 || head < 0 {
		panic("selection: negative range bound")
	}
	return Range{Anchor: anchor, Head: head}
}

// Point returns a zero-length range (cursor) at pos.
func Point(pos CharIdx) Range {
	return Range{Anchor: pos, Head: pos}
}

// Min returns the lower bound of the range regardless of direction.
func (r Range) Min() CharIdx {
	if r.Anchor <= r.Head {
		return r.Anchor
	}
	return r.Head
}

// Max returns the upper bound of the range regardless of direction.
func (r Range) Max() CharIdx {
	if r.Anchor >= r.Head {
		return r.Anchor
	}
	return r.Head
}

// Len returns the number of characters spanned by the range.
func (r Range) Len() int {
	return int(r.Max() - r.Min())
}

// IsEmpty reports whether the range has zero length (a plain cursor).
func (r Range) IsEmpty() bool {
	return r.Anchor == r.Head
}

// Direction reports whether the range extends Forward or Backward.
func (r Range) Direction() Direction {
	if r.Anchor <= r.Head {
		return Forward
	}
	return Backward
}

// Flip reverses the range's direction, swapping anchor and head.
func (r Range) Flip() Range {
	return Range{Anchor: r.Head, Head: r.Anchor}
}

// Collapse collapses the range to a cursor at its head.
func (r Range) Collapse() Range {
	return Point(r.Head)
}

// Overlaps reports whether two ranges share at least one character position.
// Touching-but-not-overlapping ranges (e.g. [0,5) and [5,10)) do not overlap;
// zero-length ranges overlap another range only if strictly inside it.
func (r Range) Overlaps(other Range) bool {
	aMin, aMax := r.Min(), r.Max()
	bMin, bMax := other.Min(), other.Max()
	if r.IsEmpty() && other.IsEmpty() {
		return aMin == bMin
	}
	return aMin < bMax && bMin < aMax
}

// Adjacent reports whether two ranges touch end-to-end without overlapping.
func (r Range) Adjacent(other Range) bool {
	return r.Max() == other.Min() || other.Max() == r.Min()
}

// Merge returns the smallest range covering both r and other, preserving
// r's direction.
func (r Range) Merge(other Range) Range {
	lo := min(r.Min(), other.Min())
	hi := max(r.Max(), other.Max())
	if r.Direction() == Backward {
		return Range{Anchor: hi, Head: lo}
	}
	return Range{Anchor: lo, Head: hi}
}

// Contains reports whether pos lies within [Min, Max).
func (r Range) Contains(pos CharIdx) bool {
	if r.IsEmpty() {
		return pos == r.Min()
	}
	return pos >= r.Min() && pos < r.Max()
}

// Map applies f to Anchor and Head independently, preserving direction.
func (r Range) Map(f func(CharIdx) CharIdx) Range {
	return Range{Anchor: f(r.Anchor), Head: f(r.Head)}
}
