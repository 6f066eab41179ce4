// Package document implements the editor's per-buffer state: a rope, a
// monotonically increasing version counter, and an undo/redo history of
// pre-edit snapshots. Views (cursor, selection, scroll position) live
// outside Document so that multiple views can share one document across
// splits — see the sibling view package.
package document
