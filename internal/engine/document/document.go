package document

import (
	"sync"

	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/transaction"
)

// HistoryEntry is a pre-edit snapshot pushed onto the undo stack before an
// undoable edit is applied.
type HistoryEntry struct {
	PreRope      rope.Rope
	PreSelection selection.Selection
	ChangeSet    *transaction.Transaction
}

// SyntaxHandle is an opaque handle to a parsed syntax tree, keyed to the
// Document version it was computed for. Grammar parsing itself is an
// external collaborator (spec §1); Document only tracks which version a
// handle belongs to so a stale tree can be detected and reparsed.
type SyntaxHandle struct {
	Version uint64
	Tree    any
}

// Document owns a Rope, a version counter, and undo/redo history. It has no
// notion of cursor or scroll position — those belong to View.
type Document struct {
	mu sync.RWMutex

	text    rope.Rope
	version uint64

	undo []HistoryEntry
	redo []HistoryEntry

	insertCoalescing bool
	coalesceActive   bool

	syntax   *SyntaxHandle
	path     string
	language string
	readOnly bool

	maxUndoEntries int
}

// New creates an empty document.
func New() *Document {
	return &Document{maxUndoEntries: 1000}
}

// NewFromString creates a document with the given initial content.
func NewFromString(s string) *Document {
	return &Document{text: rope.FromString(s), maxUndoEntries: 1000}
}

// Text returns the document's current content as a rope.
func (d *Document) Text() rope.Rope {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

// Version returns the document's current version. Version increments once
// per applied transaction and resets only on an explicit Reload.
func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Path returns the document's associated file path, or "" for a scratch buffer.
func (d *Document) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// SetPath sets the document's associated file path (e.g. on save-as).
func (d *Document) SetPath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.path = path
}

// Language returns the document's language tag, used for LSP server
// selection and syntax highlighting.
func (d *Document) Language() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.language
}

// SetLanguage sets the document's language tag.
func (d *Document) SetLanguage(lang string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.language = lang
}

// ReadOnly reports whether the document rejects mutating operations.
func (d *Document) ReadOnly() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.readOnly
}

// SetReadOnly sets the document's read-only flag.
func (d *Document) SetReadOnly(ro bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readOnly = ro
}

// SyntaxTree returns the document's syntax handle if it is current for the
// present version, or (nil, false) if it is stale or absent.
func (d *Document) SyntaxTree() (*SyntaxHandle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.syntax == nil || d.syntax.Version != d.version {
		return nil, false
	}
	return d.syntax, true
}

// SetSyntaxTree installs a syntax handle for the document's current version.
func (d *Document) SetSyntaxTree(tree any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syntax = &SyntaxHandle{Version: d.version, Tree: tree}
}

// BeginInsertCoalesce marks the start of a run of keystrokes that should be
// recorded as one undo entry (Insert mode). The pre-edit snapshot is taken
// by the first Apply after this call; subsequent Apply calls while
// coalescing do not push additional undo entries.
func (d *Document) BeginInsertCoalesce() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertCoalescing = true
	d.coalesceActive = false
}

// EndInsertCoalesce ends a coalesced run, allowing the next Apply to push a
// fresh undo entry.
func (d *Document) EndInsertCoalesce() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.insertCoalescing = false
	d.coalesceActive = false
}

// Apply applies tx against the document's current text, bumps the version,
// and — unless an insert-coalesce run is already in progress — pushes a
// pre-edit snapshot onto the undo stack and clears the redo stack. It
// returns the resulting rope and the selection re-mapped through tx.
func (d *Document) Apply(tx *transaction.Transaction, sel selection.Selection) (rope.Rope, selection.Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.readOnly {
		return d.text, sel, ErrReadOnly
	}

	if d.insertCoalescing && d.coalesceActive {
		// Fold tx onto the in-progress run's changeset so Redo can replay the
		// whole coalesced run in one Apply; the undo stack still holds only
		// one entry for the run.
		last := &d.undo[len(d.undo)-1]
		last.ChangeSet = transaction.Compose(last.ChangeSet, tx)
	} else {
		pre := HistoryEntry{PreRope: d.text, PreSelection: sel, ChangeSet: tx}
		d.pushUndoLocked(pre)
		if d.insertCoalescing {
			d.coalesceActive = true
		}
	}

	d.text = tx.Apply(d.text)
	d.version++
	newSel := tx.MapSelection(sel)
	return d.text, newSel, nil
}

func (d *Document) pushUndoLocked(entry HistoryEntry) {
	d.undo = append(d.undo, entry)
	if len(d.undo) > d.maxUndoEntries {
		d.undo = d.undo[len(d.undo)-d.maxUndoEntries:]
	}
	d.redo = nil
}

// CanUndo reports whether Undo has an entry to apply.
func (d *Document) CanUndo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.undo) > 0
}

// CanRedo reports whether Redo has an entry to apply.
func (d *Document) CanRedo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.redo) > 0
}

// Undo pops the most recent undo entry, restores its pre-edit rope and
// selection, and pushes the entry itself onto the redo stack. Returns the
// restored selection.
func (d *Document) Undo() (selection.Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.undo) == 0 {
		return selection.Selection{}, ErrNothingToUndo
	}

	entry := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]

	d.text = entry.PreRope
	d.version++

	// The redo entry keeps the same pre-edit snapshot shape as the undo
	// stack: Redo re-applies the changeset against PreRope.
	d.redo = append(d.redo, entry)

	return entry.PreSelection, nil
}

// Redo pops the most recent redo entry, re-applies its changeset, and
// pushes the original entry back onto the undo stack. Returns the
// post-redo selection.
func (d *Document) Redo() (selection.Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.redo) == 0 {
		return selection.Selection{}, ErrNothingToRedo
	}

	entry := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]

	d.text = entry.ChangeSet.Apply(entry.PreRope)
	d.version++
	newSel := entry.ChangeSet.MapSelection(entry.PreSelection)

	d.undo = append(d.undo, HistoryEntry{
		PreRope:      entry.PreRope,
		PreSelection: entry.PreSelection,
		ChangeSet:    entry.ChangeSet,
	})

	return newSel, nil
}

// Reload replaces the document's text with s, resets the version to 0, and
// clears undo/redo history. Used only for explicit reload-from-disk.
func (d *Document) Reload(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = rope.FromString(s)
	d.version = 0
	d.undo = nil
	d.redo = nil
	d.syntax = nil
}
