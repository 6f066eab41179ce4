package document

import "errors"

// Errors returned by Document operations.
var (
	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("document: nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("document: nothing to redo")

	// ErrReadOnly indicates a mutating operation was attempted on a
	// read-only document.
	ErrReadOnly = errors.New("document: document is read-only")
)
