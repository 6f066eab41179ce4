package shell

import (
	"fmt"
	"strings"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/registry"
)

// registerActions pushes the builtin action set. Handlers are pure: they
// read the ActionContext snapshot and describe an effect; the shell's
// Apply realizes it.
func (e *Editor) registerActions(b *registry.Builder) {
	motion := func(name string, caps registry.Set, h registry.Handler) {
		b.PushAction(registry.ActionDef{
			ID: name, Name: name, Source: registry.SourceBuiltin,
			RequiredCaps: caps, Handler: h,
		})
	}

	curCaps := registry.Set(registry.CapText | registry.CapCursor | registry.CapSelection)
	editCaps := curCaps.With(registry.CapEdit)

	motion("move.left", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return moveHorizontal(ctx.Text, p, -int(ctx.Count))
		}))
	})
	motion("move.right", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return moveHorizontal(ctx.Text, p, int(ctx.Count))
		}))
	})
	motion("move.up", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return moveVertical(ctx.Text, p, -int(ctx.Count))
		}))
	})
	motion("move.down", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return moveVertical(ctx.Text, p, int(ctx.Count))
		}))
	})
	motion("move.line-start", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return ctx.Text.LineToChar(ctx.Text.CharToLine(p))
		}))
	})
	motion("move.line-end", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(p selection.CharIdx) selection.CharIdx {
			return lineEndChar(ctx.Text, ctx.Text.CharToLine(p))
		}))
	})
	motion("goto.file-start", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(selection.CharIdx) selection.CharIdx {
			return 0
		}))
	})
	motion("goto.file-end", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(perRangePoint(ctx.Selection, ctx.Extend, func(selection.CharIdx) selection.CharIdx {
			return ctx.Text.LenChars()
		}))
	})

	motion("move.next-word-start", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(repeatMotion(ctx, nextWordStart))
	})
	motion("move.next-word-end", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(repeatMotion(ctx, nextWordEnd))
	})
	motion("move.prev-word-start", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(repeatMotion(ctx, prevWordStart))
	})

	motion("find.char", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if !ctx.HasCharArg {
			return registry.Pending(registry.PendingFindChar)
		}
		return findResult(ctx, false, false)
	})
	motion("find.till", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if !ctx.HasCharArg {
			return registry.Pending(registry.PendingFindChar)
		}
		return findResult(ctx, false, true)
	})
	motion("find.char-reverse", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if !ctx.HasCharArg {
			return registry.Pending(registry.PendingFindCharReverse)
		}
		return findResult(ctx, true, false)
	})

	motion("select.collapse", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(ctx.Selection.Transform(selection.Range.Collapse))
	})
	motion("select.flip", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(ctx.Selection.Transform(selection.Range.Flip))
	})
	motion("select.line", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Motion(ctx.Selection.Transform(func(r selection.Range) selection.Range {
			line := ctx.Text.CharToLine(r.Head)
			start := ctx.Text.LineToChar(line)
			end := lineEndChar(ctx.Text, line)
			if end < ctx.Text.LenChars() {
				end++ // include the newline
			}
			return selection.Range{Anchor: start, Head: end}
		}))
	})
	motion("select.rotate-forward", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		sel := ctx.Selection
		sel.RotateForward()
		return registry.Motion(sel)
	})
	motion("select.rotate-backward", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		sel := ctx.Selection
		sel.RotateBackward()
		return registry.Motion(sel)
	})
	motion("select.remove-primary", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		sel := ctx.Selection
		if sel.Len() <= 1 {
			return registry.Error(fmt.Errorf("%w: cannot remove the only selection", dispatch.ErrCommand))
		}
		sel.RemovePrimary()
		return registry.Motion(sel)
	})

	motion("mode.insert", curCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.ModeChange("insert")
	})
	motion("mode.normal", curCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.ModeChange("normal")
	})

	motion("insert.char", editCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if !ctx.HasCharArg {
			return registry.Error(fmt.Errorf("%w: insert.char needs a character", dispatch.ErrCommand))
		}
		return registry.Edit(registry.EditAction{
			Kind: registry.EditInsert,
			Text: strings.Repeat(string(ctx.CharArg), int(ctx.Count)),
		})
	})
	motion("insert.newline", editCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.Edit(registry.EditAction{Kind: registry.EditInsert, Text: "\n"})
	})
	motion("insert.tab", editCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.Edit(registry.EditAction{Kind: registry.EditInsert, Text: "\t"})
	})

	motion("edit.delete-selection", editCaps, func(ctx registry.ActionContext) registry.ActionResult {
		return registry.Edit(registry.EditAction{Kind: registry.EditDelete})
	})
	motion("edit.delete-char-back", editCaps, func(ctx registry.ActionContext) registry.ActionResult {
		changes := backspaceChanges(ctx)
		if len(changes) == 0 {
			return registry.Ok()
		}
		return registry.Edit(registry.EditAction{Kind: registry.EditChange, Changes: changes})
	})
	motion("edit.replace-char", editCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if !ctx.HasCharArg {
			return registry.Pending(registry.PendingReplaceChar)
		}
		var changes []registry.EditChangeSpec
		for _, r := range ctx.Selection.Ranges() {
			start, end := r.Min(), r.Max()
			if r.IsEmpty() {
				end = start + 1
			}
			if end > ctx.Text.LenChars() {
				continue
			}
			n := int(end - start)
			changes = append(changes, registry.EditChangeSpec{
				Start: start, End: end,
				Replacement:    strings.Repeat(string(ctx.CharArg), n),
				HasReplacement: true,
			})
		}
		if len(changes) == 0 {
			return registry.Ok()
		}
		return registry.Edit(registry.EditAction{Kind: registry.EditChange, Changes: changes})
	})

	motion("edit.yank", curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		var sb strings.Builder
		for i, r := range ctx.Selection.Ranges() {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(ctx.Text.SliceChars(r.Min(), r.Max()))
		}
		return registry.Yank(sb.String())
	})
	motion("edit.paste", editCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if ctx.RegisterText == "" {
			return registry.Error(fmt.Errorf("%w: register is empty", dispatch.ErrCommand))
		}
		return registry.Edit(registry.EditAction{Kind: registry.EditInsert, Text: ctx.RegisterText})
	})

	undoCaps := editCaps.With(registry.CapUndo)
	motion("edit.undo", undoCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.Undo()
	})
	motion("edit.redo", undoCaps, func(registry.ActionContext) registry.ActionResult {
		return registry.Redo()
	})

	searchCaps := curCaps.With(registry.CapSearch)
	motion("search.next", searchCaps, e.searchHandler(false))
	motion("search.prev", searchCaps, e.searchHandler(true))

	motion("editor.quit", 0, func(registry.ActionContext) registry.ActionResult {
		return registry.Quit()
	})
}

// repeatMotion applies a word-style motion per range, count times.
func repeatMotion(ctx registry.ActionContext, f func(doc rope.Rope, pos selection.CharIdx) (selection.Range, bool)) selection.Selection {
	return perRangeMotion(ctx.Selection, ctx.Extend, func(cur selection.Range) (selection.Range, bool) {
		r := cur
		pos := cur.Head
		found := false
		for i := uint32(0); i < ctx.Count; i++ {
			next, ok := f(ctx.Text, pos)
			if !ok {
				break
			}
			r = next
			pos = next.Head
			found = true
		}
		return r, found
	})
}

func findResult(ctx registry.ActionContext, reverse, till bool) registry.ActionResult {
	sel := perRangeMotion(ctx.Selection, ctx.Extend, func(cur selection.Range) (selection.Range, bool) {
		var target selection.CharIdx
		var ok bool
		if reverse {
			target, ok = findCharBackward(ctx.Text, cur.Head, ctx.CharArg, ctx.Count, till)
		} else {
			target, ok = findCharForward(ctx.Text, cur.Head, ctx.CharArg, ctx.Count, till)
		}
		if !ok {
			return selection.Range{}, false
		}
		return selection.Range{Anchor: cur.Head, Head: target}, true
	})
	return registry.Motion(sel)
}

// backspaceChanges builds the delete-one-back change list, skipping ranges
// already at the document start and collapsing duplicates.
func backspaceChanges(ctx registry.ActionContext) []registry.EditChangeSpec {
	seen := map[selection.CharIdx]bool{}
	var changes []registry.EditChangeSpec
	for _, r := range ctx.Selection.Ranges() {
		p := r.Head
		if p == 0 || seen[p] {
			continue
		}
		seen[p] = true
		changes = append(changes, registry.EditChangeSpec{Start: p - 1, End: p})
	}
	return changes
}
