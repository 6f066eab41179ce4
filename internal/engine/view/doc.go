// Package view implements View, the per-split editor state (cursor,
// selection, scroll position) that sits above a shared Document. Multiple
// views may point at the same document across a split; edits to the
// document propagate to every view through Transaction.MapSelection, which
// each view applies to its own Selection independently.
package view
