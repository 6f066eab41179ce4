// Package changeset implements an operational-transform-style representation
// of document edits: an ordered sequence of Retain/Delete/Insert operations
// that can be applied to a rope, inverted to build an undo entry, composed
// with a following changeset, and used to map character positions across
// an edit.
//
// A ChangeSet has two length witnesses: Len (the character length of the
// document it applies to) and LenAfter (the character length of the
// document it produces). Composing A then B requires A.LenAfter() ==
// B.Len().
package changeset
