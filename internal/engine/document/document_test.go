package document

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/transaction"
)

func selEqual(a, b selection.Selection) bool {
	if a.Len() != b.Len() || a.PrimaryIndex() != b.PrimaryIndex() {
		return false
	}
	ar, br := a.Ranges(), b.Ranges()
	for i := range ar {
		if ar[i] != br[i] {
			return false
		}
	}
	return true
}

func TestUndoRedoSingleEdit(t *testing.T) {
	d := NewFromString("abc")
	sel := selection.PointSelection(0)

	tx := transaction.Insert(int(d.Text().LenChars()), sel, "X")
	text, sel, err := d.Apply(tx, sel)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if text.String() != "Xabc" {
		t.Fatalf("text = %q, want %q", text.String(), "Xabc")
	}

	if !d.CanUndo() {
		t.Fatalf("expected CanUndo true")
	}
	restored, err := d.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if d.Text().String() != "abc" {
		t.Fatalf("after undo text = %q, want %q", d.Text().String(), "abc")
	}
	if !selEqual(restored, selection.PointSelection(0)) {
		t.Fatalf("restored selection = %v, want point(0)", restored)
	}

	if !d.CanRedo() {
		t.Fatalf("expected CanRedo true")
	}
	redone, err := d.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if d.Text().String() != "Xabc" {
		t.Fatalf("after redo text = %q, want %q", d.Text().String(), "Xabc")
	}
	if !selEqual(redone, sel) {
		t.Fatalf("redone selection = %v, want %v", redone, sel)
	}
}

func TestUndoAcrossCoalescedInsert(t *testing.T) {
	// Spec §8 scenario 5: empty scratch buffer, enter Insert mode, type "a",
	// "b", "c" as three coalesced keystrokes, leave Insert mode, Undo should
	// revert the whole run in one step, Redo should replay it in one step.
	d := New()
	sel := selection.PointSelection(0)

	d.BeginInsertCoalesce()

	for _, ch := range []string{"a", "b", "c"} {
		tx := transaction.Insert(int(d.Text().LenChars()), sel, ch)
		_, newSel, err := d.Apply(tx, sel)
		if err != nil {
			t.Fatalf("Apply(%q): %v", ch, err)
		}
		sel = newSel
	}

	d.EndInsertCoalesce()

	if d.Text().String() != "abc" {
		t.Fatalf("text after coalesced inserts = %q, want %q", d.Text().String(), "abc")
	}
	if !selEqual(sel, selection.PointSelection(3)) {
		t.Fatalf("cursor after coalesced inserts = %v, want point(3)", sel)
	}

	restored, err := d.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if d.Text().String() != "" {
		t.Fatalf("after undo text = %q, want empty", d.Text().String())
	}
	if !selEqual(restored, selection.PointSelection(0)) {
		t.Fatalf("restored selection = %v, want point(0)", restored)
	}
	if d.CanUndo() {
		t.Fatalf("expected no further undo entries")
	}

	redone, err := d.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if d.Text().String() != "abc" {
		t.Fatalf("after redo text = %q, want %q", d.Text().String(), "abc")
	}
	if !selEqual(redone, selection.PointSelection(3)) {
		t.Fatalf("redone selection = %v, want point(3)", redone)
	}
}

func TestUndoOnEmptyStackReturnsError(t *testing.T) {
	d := New()
	if _, err := d.Undo(); err != ErrNothingToUndo {
		t.Fatalf("Undo() error = %v, want ErrNothingToUndo", err)
	}
	if _, err := d.Redo(); err != ErrNothingToRedo {
		t.Fatalf("Redo() error = %v, want ErrNothingToRedo", err)
	}
}

func TestApplyOnReadOnlyDocumentFails(t *testing.T) {
	d := NewFromString("abc")
	d.SetReadOnly(true)
	sel := selection.PointSelection(0)
	tx := transaction.Insert(int(d.Text().LenChars()), sel, "X")
	if _, _, err := d.Apply(tx, sel); err != ErrReadOnly {
		t.Fatalf("Apply() error = %v, want ErrReadOnly", err)
	}
}
