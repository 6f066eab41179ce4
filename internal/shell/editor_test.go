package shell

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/workqueue"
)

func typeString(e *Editor, s string) {
	for _, r := range s {
		e.HandleKey(key.NewRuneEvent(r, key.ModNone))
	}
}

func pressEscape(e *Editor) {
	e.HandleKey(key.NewSpecialEvent(key.KeyEscape, key.ModNone))
}

func setDocContent(e *Editor, content string) {
	e.FocusedDoc().Reload(content)
	e.FocusedView().SetSelection(selection.PointSelection(0))
}

func docText(e *Editor) string {
	return e.FocusedDoc().Text().String()
}

func TestMultiCursorInsert(t *testing.T) {
	e := New()
	setDocContent(e, "ab\ncd\n")
	e.FocusedView().SetSelection(selection.FromVec([]selection.Range{
		selection.Point(0), selection.Point(3),
	}, 0))

	typeString(e, "i") // enter insert mode
	typeString(e, "X")

	if got := docText(e); got != "Xab\nXcd\n" {
		t.Fatalf("document = %q, want %q", got, "Xab\nXcd\n")
	}
	sel := e.FocusedView().Selection
	if sel.Len() != 2 {
		t.Fatalf("selection len = %d", sel.Len())
	}
	if sel.Range(0) != selection.Point(1) || sel.Range(1) != selection.Point(5) {
		t.Errorf("selection = %v, want [point(1) point(5)]", sel.Ranges())
	}
	if sel.PrimaryIndex() != 0 {
		t.Errorf("primary = %d, want 0", sel.PrimaryIndex())
	}
}

func TestDeleteAcrossNewline(t *testing.T) {
	e := New()
	setDocContent(e, "hello\nworld")
	e.FocusedView().SetSelection(selection.Single(4, 7))

	typeString(e, "d")

	if got := docText(e); got != "hellorld" {
		t.Fatalf("document = %q, want %q", got, "hellorld")
	}
	sel := e.FocusedView().Selection
	if sel.Len() != 1 || sel.Primary() != selection.Point(4) {
		t.Errorf("selection = %v, want point(4)", sel.Ranges())
	}
}

func TestWordMotionAcrossEOLPunctuation(t *testing.T) {
	e := New()
	setDocContent(e, "[profile.dev]\nnext_word")
	e.FocusedView().SetSelection(selection.PointSelection(11)) // on the 'v' of dev

	typeString(e, "e") // move.next-word-end

	sel := e.FocusedView().Selection
	primary := sel.Primary()
	if primary.Head != 22 {
		t.Errorf("cursor = %d, want 22 (the 'd' of next_word)", primary.Head)
	}
	if primary.Anchor != 14 {
		t.Errorf("anchor = %d, want 14 (the 'n' of next_word)", primary.Anchor)
	}
}

func TestUndoAcrossCoalescedInsert(t *testing.T) {
	e := New()

	typeString(e, "i")
	typeString(e, "abc")
	pressEscape(e)

	if got := docText(e); got != "abc" {
		t.Fatalf("document = %q after insert", got)
	}

	typeString(e, "u")
	if got := docText(e); got != "" {
		t.Fatalf("after undo: document = %q, want empty", got)
	}
	if sel := e.FocusedView().Selection; sel.Primary() != selection.Point(0) {
		t.Errorf("after undo: selection = %v, want point(0)", sel.Ranges())
	}

	e.HandleKey(key.NewRuneEvent('r', key.ModCtrl)) // redo
	if got := docText(e); got != "abc" {
		t.Fatalf("after redo: document = %q, want %q", got, "abc")
	}
	if sel := e.FocusedView().Selection; sel.Primary().Head != 3 {
		t.Errorf("after redo: cursor = %d, want 3", sel.Primary().Head)
	}
}

func TestCountedMotion(t *testing.T) {
	e := New()
	setDocContent(e, "abcdefgh")

	typeString(e, "3l")
	if got := e.FocusedView().Cursor(); got != 3 {
		t.Errorf("cursor = %d, want 3", got)
	}
}

func TestShiftFoldExtendsSelection(t *testing.T) {
	e := New()
	setDocContent(e, "one two three")

	typeString(e, "w") // select to start of "two"
	anchorBefore := e.FocusedView().Selection.Primary().Anchor
	typeString(e, "W") // no W binding: folds to w with extend
	sel := e.FocusedView().Selection.Primary()
	if sel.Anchor != anchorBefore {
		t.Errorf("extend motion moved the anchor: %d -> %d", anchorBefore, sel.Anchor)
	}
	if sel.Head != 8 {
		t.Errorf("head = %d, want 8 (start of three)", sel.Head)
	}
}

func TestFindCharPending(t *testing.T) {
	e := New()
	setDocContent(e, "abcXdef")

	typeString(e, "fX")
	if got := e.FocusedView().Cursor(); got != 3 {
		t.Errorf("cursor = %d, want 3", got)
	}
}

func TestYankAndPaste(t *testing.T) {
	e := New()
	setDocContent(e, "hello world")
	e.FocusedView().SetSelection(selection.Single(0, 5))

	typeString(e, "y")
	if got := e.registers.Get(DefaultRegister); got != "hello" {
		t.Fatalf("register = %q, want %q", got, "hello")
	}

	e.FocusedView().SetSelection(selection.PointSelection(11))
	typeString(e, "p")
	if got := docText(e); got != "hello worldhello" {
		t.Errorf("document = %q", got)
	}
}

func TestNamedRegister(t *testing.T) {
	e := New()
	setDocContent(e, "abc")
	e.FocusedView().SetSelection(selection.Single(0, 3))

	typeString(e, "\"ay")
	if got := e.registers.Get('a'); got != "abc" {
		t.Errorf("register a = %q", got)
	}
}

func TestReplaceChar(t *testing.T) {
	e := New()
	setDocContent(e, "abc")

	typeString(e, "rx")
	if got := docText(e); got != "xbc" {
		t.Errorf("document = %q, want %q", got, "xbc")
	}
}

func TestSearchCommandAndRepeat(t *testing.T) {
	e := New()
	setDocContent(e, "foo bar foo baz")

	if out := e.RunEx(":search foo"); out != dispatch.OutcomeOk {
		t.Fatalf("search outcome = %v", out)
	}
	if got := e.FocusedView().Selection.Primary().Anchor; got != 8 {
		t.Errorf("first match anchor = %d, want 8", got)
	}

	typeString(e, "n") // wraps to the first occurrence
	if got := e.FocusedView().Selection.Primary().Anchor; got != 0 {
		t.Errorf("wrapped match anchor = %d, want 0", got)
	}
}

func TestQuitWithUnsavedChangesRefuses(t *testing.T) {
	e := New()
	typeString(e, "i")
	typeString(e, "x")
	pressEscape(e)

	if out := e.RunEx(":quit"); out != dispatch.OutcomeCommandError {
		t.Fatalf("quit outcome = %v, want command-error", out)
	}
	if e.ShouldQuit() {
		t.Error("editor quit despite unsaved changes")
	}
	if out := e.RunEx(":quit!"); out != dispatch.OutcomeForceQuit {
		t.Fatalf("quit! outcome = %v", out)
	}
	if !e.ShouldQuit() {
		t.Error("force quit did not set quit flag")
	}
}

func TestReadonlyBufferRejectsEdits(t *testing.T) {
	e := New()
	setDocContent(e, "abc")
	e.FocusedDoc().SetReadOnly(true)

	out := e.RunInvocation(invocation.Action("edit.delete-selection"))
	if out != dispatch.OutcomeReadonlyDenied {
		t.Fatalf("outcome = %v, want readonly-denied", out)
	}
	if got := docText(e); got != "abc" {
		t.Errorf("read-only document mutated: %q", got)
	}
}

func TestSplitSharesDocument(t *testing.T) {
	e := New()
	setDocContent(e, "shared")
	firstView := e.FocusedView()

	e.RunEx(":split")
	if e.FocusedView() == firstView {
		t.Fatal("split did not focus a new view")
	}
	if e.FocusedView().DocID != firstView.DocID {
		t.Fatal("split views do not share the document")
	}

	typeString(e, "i")
	typeString(e, "Z")
	pressEscape(e)

	// The edit lands in the one document that both views display.
	if got := docText(e); got != "Zshared" {
		t.Errorf("document = %q", got)
	}
}

func TestDeferredInvocationRunsOnTick(t *testing.T) {
	e := New()
	setDocContent(e, "abcd")

	e.WorkQueue().EnqueueInvocation(invocation.Action("move.right"), workqueue.Global)
	if got := e.FocusedView().Cursor(); got != 0 {
		t.Fatalf("invocation ran before tick")
	}
	e.Tick()
	if got := e.FocusedView().Cursor(); got != 1 {
		t.Errorf("cursor = %d after tick, want 1", got)
	}
}

func TestEscapeInNormalModeIsHarmless(t *testing.T) {
	e := New()
	setDocContent(e, "abc")
	pressEscape(e)
	if got := docText(e); got != "abc" {
		t.Errorf("document changed: %q", got)
	}
}
