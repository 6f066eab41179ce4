// Package viewport implements the soft-wrap scroll model (C9): splitting
// document lines into wrap segments, keeping the cursor visible within a
// render area under a configurable margin, and mapping between screen
// coordinates and document character offsets.
//
// The package operates on view.View's scroll/bookkeeping fields and a
// rope.Rope; it owns no state of its own, mirroring how the teacher's
// internal/renderer/viewport package is a pure calculator over an
// externally-held Viewport struct.
package viewport
