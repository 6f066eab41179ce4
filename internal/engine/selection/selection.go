package selection

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Selection is a non-empty, ordered set of Ranges with a tracked primary
// index. It is the editor's fundamental state alongside the Document.
type Selection struct {
	ranges  []Range
	primary int
}

// Single returns a selection with one range running from anchor to head.
func Single(anchor, head CharIdx) Selection {
	return New(NewRange(anchor, head), nil)
}

// PointSelection returns a selection with a single zero-length range at pos.
func PointSelection(pos CharIdx) Selection {
	return Single(pos, pos)
}

// New builds a selection from a primary range plus any other ranges,
// normalizing the result. The primary range's identity is preserved through
// normalization when possible (see Normalize).
func New(primary Range, others []Range) Selection {
	ranges := make([]Range, 0, len(others)+1)
	ranges = append(ranges, primary)
	ranges = append(ranges, others...)
	sel := Selection{ranges: ranges, primary: 0}
	sel.Normalize()
	return sel
}

// FromVec builds a selection from an explicit slice of ranges and a primary
// index into that slice, then normalizes. Panics if ranges is empty or
// primaryIndex is out of bounds.
func FromVec(ranges []Range, primaryIndex int) Selection {
	if len(ranges) == 0 {
		panic("selection: cannot construct an empty selection")
	}
	if primaryIndex < 0 || primaryIndex >= len(ranges) {
		panic("selection: primary index out of range")
	}
	primaryRange := ranges[primaryIndex]
	sel := Selection{ranges: append([]Range(nil), ranges...), primary: primaryIndex}
	sel.normalizeTracking(primaryRange)
	return sel
}

// Len returns the number of ranges in the selection. Always >= 1.
func (s Selection) Len() int { return len(s.ranges) }

// Ranges returns the selection's ranges in ascending order by Min().
func (s Selection) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Range returns the range at index i.
func (s Selection) Range(i int) Range { return s.ranges[i] }

// PrimaryIndex returns the index of the primary range.
func (s Selection) PrimaryIndex() int { return s.primary }

// Primary returns the primary range.
func (s Selection) Primary() Range { return s.ranges[s.primary] }

// Direction returns the direction of the primary range.
func (s Selection) Direction() Direction { return s.Primary().Direction() }

// Normalize sorts ranges by Min() ascending and merges overlapping ranges.
// Adjacent (touching but non-overlapping) ranges are NOT merged — that is
// MergeOverlapsAndAdjacent's job. The primary range's identity is preserved
// across the sort/merge when the exact range value still exists afterward;
// otherwise the primary falls back to whichever merged range contains the
// pre-normalize primary's head.
func (s *Selection) Normalize() {
	s.normalizeTracking(s.ranges[s.primary])
}

func (s *Selection) normalizeTracking(primaryBefore Range) {
	if len(s.ranges) <= 1 {
		s.primary = 0
		return
	}

	sorted := append([]Range(nil), s.ranges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Min() != sorted[j].Min() {
			return sorted[i].Min() < sorted[j].Min()
		}
		return sorted[i].Max() < sorted[j].Max()
	})

	merged := make([]Range, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 && merged[n-1].Overlaps(r) {
			merged[n-1] = merged[n-1].Merge(r)
			continue
		}
		merged = append(merged, r)
	}

	s.ranges = merged
	s.primary = findPrimary(merged, primaryBefore)
}

func findPrimary(ranges []Range, primaryBefore Range) int {
	for i, r := range ranges {
		if r == primaryBefore {
			return i
		}
	}
	for i, r := range ranges {
		if r.Contains(primaryBefore.Head) || r.Min() <= primaryBefore.Head && primaryBefore.Head <= r.Max() {
			return i
		}
	}
	return 0
}

// MergeOverlapsAndAdjacent sorts ranges and merges both overlapping and
// touching ranges into one.
func (s *Selection) MergeOverlapsAndAdjacent() {
	primaryBefore := s.ranges[s.primary]
	sorted := append([]Range(nil), s.ranges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Min() != sorted[j].Min() {
			return sorted[i].Min() < sorted[j].Min()
		}
		return sorted[i].Max() < sorted[j].Max()
	})

	merged := make([]Range, 0, len(sorted))
	for _, r := range sorted {
		if n := len(merged); n > 0 && (merged[n-1].Overlaps(r) || merged[n-1].Adjacent(r)) {
			merged[n-1] = merged[n-1].Merge(r)
			continue
		}
		merged = append(merged, r)
	}
	s.ranges = merged
	s.primary = findPrimary(merged, primaryBefore)
}

// Push appends a range to the selection and renormalizes.
func (s *Selection) Push(r Range) {
	primaryBefore := s.ranges[s.primary]
	s.ranges = append(s.ranges, r)
	s.normalizeTracking(primaryBefore)
}

// Transform returns a new selection with f applied to every range, then
// renormalized.
func (s Selection) Transform(f func(Range) Range) Selection {
	primaryBefore := f(s.Primary())
	others := make([]Range, 0, len(s.ranges)-1)
	for i, r := range s.ranges {
		if i == s.primary {
			continue
		}
		others = append(others, f(r))
	}
	return New(primaryBefore, others)
}

// TransformMut applies f to every range in place, then renormalizes.
func (s *Selection) TransformMut(f func(Range) Range) {
	primaryBefore := f(s.ranges[s.primary])
	for i, r := range s.ranges {
		if i == s.primary {
			s.ranges[i] = primaryBefore
			continue
		}
		s.ranges[i] = f(r)
	}
	s.normalizeTracking(primaryBefore)
}

// RotateForward advances the primary index by one, wrapping around.
func (s *Selection) RotateForward() {
	if len(s.ranges) == 0 {
		return
	}
	s.primary = (s.primary + 1) % len(s.ranges)
}

// RotateBackward moves the primary index back by one, wrapping around.
func (s *Selection) RotateBackward() {
	if len(s.ranges) == 0 {
		return
	}
	s.primary = (s.primary - 1 + len(s.ranges)) % len(s.ranges)
}

// RemovePrimary removes the primary range, selecting the next range as the
// new primary. Panics if the selection has only one range, since a
// selection must always have at least one range.
func (s *Selection) RemovePrimary() {
	if len(s.ranges) <= 1 {
		panic("selection: cannot remove the last range")
	}
	s.ranges = append(s.ranges[:s.primary], s.ranges[s.primary+1:]...)
	if s.primary >= len(s.ranges) {
		s.primary = len(s.ranges) - 1
	}
}

// GraphemeAligned returns a copy of the selection with every range endpoint
// snapped to the nearest grapheme-cluster boundary in text, preserving each
// range's direction. Idempotent: aligning an already-aligned selection is a
// no-op.
func (s Selection) GraphemeAligned(text string) Selection {
	boundaries := graphemeBoundaries(text)
	snap := func(pos CharIdx) CharIdx {
		return nearestBoundary(boundaries, pos)
	}
	return s.Transform(func(r Range) Range {
		return Range{Anchor: snap(r.Anchor), Head: snap(r.Head)}
	})
}

// graphemeBoundaries returns the sorted character offsets at which a
// grapheme cluster starts or ends, including 0 and len(runes).
func graphemeBoundaries(text string) []CharIdx {
	boundaries := []CharIdx{0}
	pos := 0
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		runes := gr.Runes()
		pos += len(runes)
		boundaries = append(boundaries, CharIdx(pos))
	}
	return boundaries
}

func nearestBoundary(boundaries []CharIdx, pos CharIdx) CharIdx {
	// boundaries is sorted ascending; find the closest entry.
	idx := sort.Search(len(boundaries), func(i int) bool { return boundaries[i] >= pos })
	if idx == 0 {
		return boundaries[0]
	}
	if idx == len(boundaries) {
		return boundaries[len(boundaries)-1]
	}
	before, after := boundaries[idx-1], boundaries[idx]
	if pos-before <= after-pos {
		return before
	}
	return after
}
