package selection

import "testing"

func TestNormalizeSortsAndMergesOverlapOnly(t *testing.T) {
	sel := New(NewRange(10, 15), []Range{NewRange(0, 5), NewRange(5, 10)})
	ranges := sel.Ranges()
	if len(ranges) != 3 {
		t.Fatalf("expected adjacent ranges to stay separate, got %v", ranges)
	}
	if ranges[0].Min() != 0 || ranges[1].Min() != 5 || ranges[2].Min() != 10 {
		t.Fatalf("ranges not sorted ascending: %v", ranges)
	}
}

func TestNormalizeMergesOverlapping(t *testing.T) {
	sel := New(NewRange(0, 8), []Range{NewRange(5, 12)})
	ranges := sel.Ranges()
	if len(ranges) != 1 {
		t.Fatalf("expected overlapping ranges to merge, got %v", ranges)
	}
	if ranges[0] != (Range{Anchor: 0, Head: 12}) {
		t.Fatalf("merged range = %v, want {0 12}", ranges[0])
	}
}

func TestMergeOverlapsAndAdjacentMergesTouching(t *testing.T) {
	sel := New(NewRange(0, 5), []Range{NewRange(5, 10)})
	if sel.Len() != 2 {
		t.Fatalf("precondition failed: adjacent ranges merged too early")
	}
	sel.MergeOverlapsAndAdjacent()
	if sel.Len() != 1 {
		t.Fatalf("expected MergeOverlapsAndAdjacent to merge touching ranges, got %v", sel.Ranges())
	}
}

func TestPrimaryIndexBounds(t *testing.T) {
	sel := FromVec([]Range{NewRange(10, 10), NewRange(0, 0)}, 0)
	if sel.PrimaryIndex() >= sel.Len() {
		t.Fatalf("primary index %d out of bounds for %d ranges", sel.PrimaryIndex(), sel.Len())
	}
	// After normalization the primary (originally at 10) should still be
	// tracked to the same range even though it moved to index 1.
	if sel.Primary() != (Range{Anchor: 10, Head: 10}) {
		t.Fatalf("primary identity lost after normalize: %v", sel.Primary())
	}
}

func TestDirection(t *testing.T) {
	fwd := Single(0, 5)
	if fwd.Direction() != Forward {
		t.Fatalf("expected forward direction")
	}
	bwd := Single(5, 0)
	if bwd.Direction() != Backward {
		t.Fatalf("expected backward direction")
	}
}

func TestRotatePrimary(t *testing.T) {
	sel := FromVec([]Range{NewRange(0, 0), NewRange(10, 10), NewRange(20, 20)}, 0)
	sel.RotateForward()
	if sel.PrimaryIndex() != 1 {
		t.Fatalf("RotateForward: primary = %d, want 1", sel.PrimaryIndex())
	}
	sel.RotateBackward()
	if sel.PrimaryIndex() != 0 {
		t.Fatalf("RotateBackward: primary = %d, want 0", sel.PrimaryIndex())
	}
	sel.RotateBackward()
	if sel.PrimaryIndex() != 2 {
		t.Fatalf("RotateBackward wraparound: primary = %d, want 2", sel.PrimaryIndex())
	}
}

func TestRemovePrimaryRequiresMultiple(t *testing.T) {
	sel := FromVec([]Range{NewRange(0, 0), NewRange(5, 5)}, 0)
	sel.RemovePrimary()
	if sel.Len() != 1 {
		t.Fatalf("expected one range left, got %d", sel.Len())
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic removing the last range")
		}
	}()
	sel.RemovePrimary()
}

func TestGraphemeAlignedIdempotent(t *testing.T) {
	text := "ábc" // "á" as a + combining acute, then "bc"
	sel := Single(0, 2)
	once := sel.GraphemeAligned(text)
	twice := once.GraphemeAligned(text)
	if once.Primary() != twice.Primary() {
		t.Fatalf("grapheme alignment not idempotent: %v vs %v", once.Primary(), twice.Primary())
	}
}

func TestPushAndTransform(t *testing.T) {
	sel := Single(0, 0)
	sel.Push(NewRange(10, 10))
	if sel.Len() != 2 {
		t.Fatalf("Push: expected 2 ranges, got %d", sel.Len())
	}
	moved := sel.Transform(func(r Range) Range { return r.Map(func(c CharIdx) CharIdx { return c + 1 }) })
	for _, r := range moved.Ranges() {
		if r.Anchor == 0 && r.Head == 0 {
			t.Fatalf("transform did not apply to all ranges: %v", moved.Ranges())
		}
	}
}
