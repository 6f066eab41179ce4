package view

import "github.com/wisp-editor/wisp/internal/engine/selection"

// View is a split's cursor/selection/scroll state over a Document,
// identified by DocID. It carries no reference to the document's rope
// itself — callers look that up via DocID — so multiple views can be
// cheaply created against the same document.
type View struct {
	DocID string

	Selection selection.Selection

	// Wrap-segment scroll position (C9).
	ScrollLine    int
	ScrollSegment int

	// Bookkeeping consulted by EnsureCursorVisible (spec §4.8).
	LastRenderedCursor selection.CharIdx
	LastViewportHeight int
	SuppressAutoScroll bool
}

// New returns a view over docID with the cursor at the document start.
func New(docID string) *View {
	return &View{
		DocID:     docID,
		Selection: selection.PointSelection(0),
	}
}

// Cursor returns the view's primary cursor position: the head of the
// selection's primary range.
func (v *View) Cursor() selection.CharIdx {
	return v.Selection.Primary().Head
}

// SetSelection replaces the view's selection wholesale (e.g. after a motion
// or edit remaps it). LastRenderedCursor is not touched here; the viewport
// package consults and updates it on the next EnsureCursorVisible call.
func (v *View) SetSelection(sel selection.Selection) {
	v.Selection = sel
}
