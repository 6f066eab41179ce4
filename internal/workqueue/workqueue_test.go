package workqueue

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/invocation"
)

func TestFIFOOrderAndSeq(t *testing.T) {
	q := New()
	a := q.EnqueueInvocation(invocation.Action("first"), Global)
	b := q.EnqueueInvocation(invocation.Action("second"), Global)
	if b <= a {
		t.Fatalf("sequence not monotonic: %d then %d", a, b)
	}

	item, ok := q.PopFront()
	if !ok || item.Invocation.Name != "first" {
		t.Fatalf("got %v %q, want first", ok, item.Invocation.Name)
	}
	item, _ = q.PopFront()
	if item.Invocation.Name != "second" {
		t.Fatalf("got %q, want second", item.Invocation.Name)
	}
	if _, ok := q.PopFront(); ok {
		t.Fatal("pop from empty queue succeeded")
	}
}

func TestRemoveScope(t *testing.T) {
	q := New()
	q.EnqueueInvocation(invocation.Action("keep"), Global)
	q.EnqueueInvocation(invocation.Action("stale-1"), ScriptScope(1))
	q.EnqueueInvocation(invocation.Action("fresh"), ScriptScope(2))
	q.EnqueueInvocation(invocation.Action("stale-2"), ScriptScope(1))

	if removed := q.RemoveScope(ScriptScope(1)); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	var names []string
	for {
		item, ok := q.PopFront()
		if !ok {
			break
		}
		names = append(names, item.Invocation.Name)
	}
	if len(names) != 2 || names[0] != "keep" || names[1] != "fresh" {
		t.Fatalf("surviving items = %v", names)
	}
}

func TestWorkspaceEditItem(t *testing.T) {
	q := New()
	q.EnqueueWorkspaceEdit(WorkspaceEdit{
		URI:     "file:///tmp/x.go",
		Changes: []TextEdit{{Start: 0, End: 3, NewText: "abc"}},
	}, Global)
	item, ok := q.PopFront()
	if !ok || item.Kind != KindWorkspaceEdit {
		t.Fatalf("got %v kind=%v", ok, item.Kind)
	}
	if item.Edit.URI != "file:///tmp/x.go" || len(item.Edit.Changes) != 1 {
		t.Fatalf("edit = %+v", item.Edit)
	}
}
