package viewport

import (
	"strings"
	"testing"

	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/view"
)

func TestScrollByClampsToDocument(t *testing.T) {
	doc := rope.FromString(strings.Repeat("row\n", 20))
	v := view.New("doc")
	area := Area{Width: 40, Height: 5}

	ScrollBy(v, doc, area, 4, 3)
	if v.ScrollLine != 3 || v.ScrollSegment != 0 {
		t.Errorf("scroll = (%d,%d), want (3,0)", v.ScrollLine, v.ScrollSegment)
	}

	ScrollBy(v, doc, area, 4, -100)
	if v.ScrollLine != 0 {
		t.Errorf("scroll line = %d, want 0 after clamping up", v.ScrollLine)
	}

	ScrollBy(v, doc, area, 4, 1000)
	if v.ScrollLine != 20 {
		t.Errorf("scroll line = %d, want last row", v.ScrollLine)
	}
}

func TestScrollByWalksWrapSegments(t *testing.T) {
	// One long line that wraps into several segments at width 4.
	doc := rope.FromString("abcdefghijkl")
	v := view.New("doc")
	area := Area{Width: 4, Height: 2}

	ScrollBy(v, doc, area, 4, 2)
	if v.ScrollLine != 0 || v.ScrollSegment != 2 {
		t.Errorf("scroll = (%d,%d), want segment 2 of line 0", v.ScrollLine, v.ScrollSegment)
	}
}
