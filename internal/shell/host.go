package shell

import (
	"errors"
	"fmt"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/transaction"
	"github.com/wisp-editor/wisp/internal/engine/view"
	"github.com/wisp-editor/wisp/internal/hookrt"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/keymap"
	"github.com/wisp-editor/wisp/internal/lspsync"
	"github.com/wisp-editor/wisp/internal/notify"
	"github.com/wisp-editor/wisp/internal/registry"
)

// Context builds the immutable snapshot a handler executes against
// (dispatch.Host).
func (e *Editor) Context(inv invocation.Invocation) registry.ActionContext {
	v := e.FocusedView()
	doc := e.docs[v.DocID]
	ctx := registry.ActionContext{
		Text:        doc.Text(),
		Cursor:      v.Cursor(),
		Selection:   v.Selection,
		Count:       inv.EffectiveCount(),
		Extend:      inv.Extend,
		Register:    inv.Register,
		HasRegister: inv.HasRegister,
		CharArg:     inv.CharArg,
		HasCharArg:  inv.HasCharArg,
		Args:        inv.Args,
	}
	ctx.RegisterText = e.registers.Get(registerName(inv))
	return ctx
}

func registerName(inv invocation.Invocation) rune {
	if inv.HasRegister {
		return inv.Register
	}
	return DefaultRegister
}

// Apply realizes a handler's effect (dispatch.Host; spec §4.7 step 4).
func (e *Editor) Apply(inv invocation.Invocation, res registry.ActionResult) error {
	v := e.FocusedView()
	docID := v.DocID

	switch res.Kind {
	case registry.ResultOk, registry.ResultError, registry.ResultQuit, registry.ResultForceQuit:
		return nil

	case registry.ResultMotion:
		v.SetSelection(res.Motion.GraphemeAligned(e.docs[docID].Text().String()))
		e.EmitHook(registry.HookContext{
			Event: registry.EventCursorMove,
			DocID: docID, Text: e.docs[docID].Text(), Selection: v.Selection,
		})
		return nil

	case registry.ResultCursorMove:
		v.SetSelection(selection.PointSelection(res.CursorMove))
		e.EmitHook(registry.HookContext{
			Event: registry.EventCursorMove,
			DocID: docID, Text: e.docs[docID].Text(), Selection: v.Selection,
		})
		return nil

	case registry.ResultEdit:
		return e.applyEdit(docID, v, res.Edit)

	case registry.ResultModeChange:
		e.applyModeChange(res.ModeChange)
		return nil

	case registry.ResultPending:
		e.keys.EnterPending(pendingKindFor(res.Pending), true, keymap.ObjectInner, inv)
		return nil

	case registry.ResultUndo:
		sel, err := e.docs[docID].Undo()
		if err != nil {
			return err
		}
		e.propagateToViews(docID, sel)
		e.afterBufferChange(docID)
		return nil

	case registry.ResultRedo:
		sel, err := e.docs[docID].Redo()
		if err != nil {
			return err
		}
		e.propagateToViews(docID, sel)
		e.afterBufferChange(docID)
		return nil

	case registry.ResultYank:
		e.registers.Set(registerName(inv), res.Yank)
		return nil

	default:
		return fmt.Errorf("%w: unhandled action result kind %d", dispatch.ErrInvariant, res.Kind)
	}
}

func pendingKindFor(k registry.PendingKind) keymap.PendingKind {
	switch k {
	case registry.PendingFindCharReverse:
		return keymap.PendingFindCharReverse
	case registry.PendingReplaceChar:
		return keymap.PendingReplaceChar
	case registry.PendingObject:
		return keymap.PendingObject
	default:
		return keymap.PendingFindChar
	}
}

// applyEdit realizes an EditAction as a Transaction → ChangeSet → Rope
// application, remapping every view of the document through it and
// notifying the LSP sync manager.
func (e *Editor) applyEdit(docID string, v *view.View, op registry.EditAction) error {
	doc := e.docs[docID]
	pre := doc.Text()
	srcLen := int(pre.LenChars())

	var tx *transaction.Transaction
	switch op.Kind {
	case registry.EditInsert:
		tx = transaction.Insert(srcLen, v.Selection, op.Text)
	case registry.EditDelete:
		tx = transaction.Delete(srcLen, v.Selection)
	case registry.EditChange:
		changes := make([]transaction.Change, 0, len(op.Changes))
		for _, c := range op.Changes {
			changes = append(changes, transaction.Change{
				Start: c.Start, End: c.End, Replacement: c.Replacement,
			})
		}
		tx = transaction.Changes(srcLen, changes)
	default:
		return fmt.Errorf("%w: unknown edit kind %d", dispatch.ErrInvariant, op.Kind)
	}

	if tx.ChangeSet().IsIdentity() {
		return nil
	}

	_, newSel, err := doc.Apply(tx, v.Selection)
	if err != nil {
		return err
	}

	// Deletes collapse the mapped ranges to points; an insert keeps the
	// mapped selection (bias already advanced it past the text).
	if op.Kind == registry.EditDelete {
		newSel = newSel.Transform(func(r selection.Range) selection.Range {
			return selection.NewRange(r.Min(), r.Min())
		})
	}

	// Every view of the document re-derives its selection through the
	// same changeset; the initiating view takes the mapped selection.
	for _, other := range e.views {
		if other == v || other.DocID != docID {
			continue
		}
		other.SetSelection(tx.MapSelection(other.Selection))
	}
	v.SetSelection(newSel)

	if e.sync != nil {
		if err := e.sync.OnLocalEdit(docID, pre, tx.ChangeSet()); err != nil && !errors.Is(err, lspsync.ErrUntracked) {
			e.logger.Warn("lsp sync edit", "doc", docID, "error", err)
		}
	}

	e.afterBufferChange(docID)
	return nil
}

func (e *Editor) propagateToViews(docID string, sel selection.Selection) {
	for _, v := range e.views {
		if v.DocID != docID {
			continue
		}
		v.SetSelection(sel)
	}
}

func (e *Editor) afterBufferChange(docID string) {
	doc := e.docs[docID]
	e.EmitHook(registry.HookContext{
		Event: registry.EventBufferChange,
		DocID: docID, Text: doc.Text(), Version: doc.Version(),
	})
}

// applyModeChange switches keymap mode, manages insert-coalescing, and
// fires the ModeChange hook.
func (e *Editor) applyModeChange(mode string) {
	from := e.keys.Mode()
	if from == mode {
		return
	}
	doc := e.FocusedDoc()
	if mode == "insert" {
		doc.BeginInsertCoalesce()
	} else if from == "insert" {
		doc.EndInsertCoalesce()
	}

	tag := keymap.TagNormal
	if mode == "insert" {
		tag = keymap.TagInsert
	}
	e.keys.SetMode(mode, tag)

	e.EmitHook(registry.HookContext{
		Event:    registry.EventModeChange,
		FromMode: from, ToMode: mode,
	})
}

// EmitHook runs the synchronous hooks subscribed to ctx.Event and
// schedules async continuations on the hook runtime (dispatch.Host).
func (e *Editor) EmitHook(ctx registry.HookContext) {
	for _, h := range e.reg.Current().HooksFor(ctx.Event) {
		if h.Sync != nil {
			h.Sync(ctx)
		}
		if h.Async != nil {
			async := h.Async
			priority := hookrt.Interactive
			if h.Background {
				priority = hookrt.Background
			}
			hookCtx := ctx
			e.hooks.Schedule(func() error { return async(hookCtx) }, priority)
		}
	}
}

// Capabilities returns the editor's capability set (dispatch.Host).
func (e *Editor) Capabilities() registry.Set { return e.caps }

// ActiveReadOnly reports the focused buffer's read-only flag
// (dispatch.Host).
func (e *Editor) ActiveReadOnly() bool { return e.FocusedDoc().ReadOnly() }

// Notify surfaces a user-visible message (dispatch.Host).
func (e *Editor) Notify(level dispatch.NotifyLevel, msg string) {
	switch level {
	case dispatch.NotifyInfo:
		e.notes.Push(notify.Info, msg)
	case dispatch.NotifyWarn:
		e.notes.Push(notify.Warn, msg)
	default:
		e.notes.Push(notify.Error, msg)
	}
}
