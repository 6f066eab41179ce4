package registry

import (
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// ActionContext is the immutable snapshot an action handler receives.
// Handlers are pure: they read the context and return an ActionResult; they
// never mutate document or selection state directly (spec §4.6).
type ActionContext struct {
	Text        rope.Rope
	Cursor      selection.CharIdx
	Selection   selection.Selection
	Count       uint32
	Extend      bool
	Register    rune
	HasRegister bool
	CharArg     rune
	HasCharArg  bool
	Args        []string

	// RegisterText is the content of the invocation's register, resolved
	// by the shell before the handler runs (paste-style actions read it;
	// yank-style actions return ResultYank and the shell stores it).
	RegisterText string
}

// EditKind distinguishes the edit shapes a handler can request; these map
// directly onto the three Transaction constructors (spec §4.3).
type EditKind uint8

const (
	EditInsert EditKind = iota
	EditDelete
	EditChange
)

// EditChangeSpec is one (start, end, replacement?) tuple for EditChange.
type EditChangeSpec struct {
	Start          selection.CharIdx
	End            selection.CharIdx
	Replacement    string
	HasReplacement bool
}

// EditAction describes an edit a handler wants applied, to be realized by
// the dispatcher as a Transaction -> ChangeSet -> Rope pipeline.
type EditAction struct {
	Kind    EditKind
	Text    string           // for EditInsert
	Changes []EditChangeSpec // for EditChange
}

// ResultKind tags the variant carried by an ActionResult.
type ResultKind uint8

const (
	ResultOk ResultKind = iota
	ResultMotion
	ResultCursorMove
	ResultEdit
	ResultModeChange
	ResultError
	ResultPending
	ResultQuit
	ResultForceQuit
	ResultUndo
	ResultRedo
	ResultYank
)

// PendingKind mirrors the keymap engine's pending-input kinds so a handler
// can request the keymap drop into a pending state (e.g. "await a motion
// for this operator").
type PendingKind uint8

const (
	PendingFindChar PendingKind = iota
	PendingFindCharReverse
	PendingReplaceChar
	PendingObject
)

// ActionResult is the tagged union returned by an action handler (spec
// §4.6). Exactly one payload field is meaningful, selected by Kind.
type ActionResult struct {
	Kind ResultKind

	Motion     selection.Selection
	CursorMove selection.CharIdx
	Edit       EditAction
	ModeChange string
	Err        error
	Pending    PendingKind
	Yank       string
}

func Ok() ActionResult { return ActionResult{Kind: ResultOk} }
func Motion(sel selection.Selection) ActionResult {
	return ActionResult{Kind: ResultMotion, Motion: sel}
}
func CursorMove(pos selection.CharIdx) ActionResult {
	return ActionResult{Kind: ResultCursorMove, CursorMove: pos}
}
func Edit(a EditAction) ActionResult { return ActionResult{Kind: ResultEdit, Edit: a} }
func ModeChange(mode string) ActionResult {
	return ActionResult{Kind: ResultModeChange, ModeChange: mode}
}
func Error(err error) ActionResult { return ActionResult{Kind: ResultError, Err: err} }
func Pending(kind PendingKind) ActionResult {
	return ActionResult{Kind: ResultPending, Pending: kind}
}
func Quit() ActionResult      { return ActionResult{Kind: ResultQuit} }
func ForceQuit() ActionResult { return ActionResult{Kind: ResultForceQuit} }
func Undo() ActionResult      { return ActionResult{Kind: ResultUndo} }
func Redo() ActionResult      { return ActionResult{Kind: ResultRedo} }
func Yank(text string) ActionResult {
	return ActionResult{Kind: ResultYank, Yank: text}
}

// Handler is the pure function signature every action, motion, and text
// object definition carries.
type Handler func(ActionContext) ActionResult
