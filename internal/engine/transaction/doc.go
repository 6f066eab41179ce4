// Package transaction builds changeset.ChangeSet values from a source
// document slice and an edit description: an insert at every range in a
// selection, a delete of every non-empty range in a selection, or an
// explicit ascending list of (start, end, replacement) edits. Every
// Transaction also knows how to map a Selection through its own changeset.
package transaction
