package changeset

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/engine/rope"
)

func TestApplyBasic(t *testing.T) {
	doc := rope.FromString("abcde")
	cs := New()
	cs.Retain(2)
	cs.Insert("X")
	cs.Delete(1)
	cs.Retain(2)

	if cs.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", cs.Len())
	}
	if cs.LenAfter() != 5 {
		t.Fatalf("LenAfter() = %d, want 5", cs.LenAfter())
	}

	got := cs.Apply(doc).String()
	if got != "abXde" {
		t.Fatalf("Apply() = %q, want %q", got, "abXde")
	}
}

func TestInvertRoundTrip(t *testing.T) {
	doc := rope.FromString("hello world")
	cs := New()
	cs.Retain(6)
	cs.Delete(5)
	cs.Insert("there")
	cs.Retain(0)

	after := cs.Apply(doc)
	inv := cs.Invert(doc)
	back := inv.Apply(after)

	if back.String() != doc.String() {
		t.Fatalf("round trip: got %q, want %q", back.String(), doc.String())
	}
	if inv.Len() != cs.LenAfter() || inv.LenAfter() != cs.Len() {
		t.Fatalf("invert length witnesses wrong: inv.Len=%d inv.LenAfter=%d", inv.Len(), inv.LenAfter())
	}
}

func TestComposition(t *testing.T) {
	// Scenario from spec §8.6.
	docA := rope.FromString("abcde")
	a := New()
	a.Retain(2)
	a.Insert("X")
	a.Delete(1)
	a.Retain(2)

	docB := a.Apply(docA)
	if docB.String() != "abXde" {
		t.Fatalf("docB = %q, want abXde", docB.String())
	}

	b := New()
	b.Retain(4)
	b.Insert("!")
	b.Retain(1)

	docC := b.Apply(docB)
	if docC.String() != "abXd!e" {
		t.Fatalf("docC = %q, want abXd!e", docC.String())
	}

	composed := Compose(a, b)
	gotC := composed.Apply(docA)
	if gotC.String() != "abXd!e" {
		t.Fatalf("composed.Apply(docA) = %q, want abXd!e", gotC.String())
	}
	if composed.LenAfter() != 6 {
		t.Fatalf("composed.LenAfter() = %d, want 6", composed.LenAfter())
	}
}

func TestMapPosBias(t *testing.T) {
	cs := New()
	cs.Retain(2)
	cs.Insert("XYZ")
	cs.Retain(3)

	if got := cs.MapPos(2, BiasLeft); got != 2 {
		t.Fatalf("MapPos(2, Left) = %d, want 2", got)
	}
	if got := cs.MapPos(2, BiasRight); got != 5 {
		t.Fatalf("MapPos(2, Right) = %d, want 5", got)
	}
	if got := cs.MapPos(4, BiasLeft); got != 7 {
		t.Fatalf("MapPos(4, Left) = %d, want 7", got)
	}
}

func TestIdentity(t *testing.T) {
	doc := rope.FromString("hello")
	cs := Identity(doc)
	if !cs.IsIdentity() {
		t.Fatalf("Identity() should be identity")
	}
	if cs.Apply(doc).String() != "hello" {
		t.Fatalf("identity apply changed document")
	}
}

func TestCanonicalFormInsertBeforeDelete(t *testing.T) {
	cs := New()
	cs.Retain(1)
	cs.Delete(2)
	cs.Insert("Z")

	ops := cs.Ops()
	// The Insert following a Delete must be reordered ahead of it.
	foundInsert := false
	foundDelete := false
	for _, op := range ops {
		if op.Kind == OpInsert {
			foundInsert = true
			if foundDelete {
				t.Fatalf("Insert appeared after Delete: %v", ops)
			}
		}
		if op.Kind == OpDelete {
			foundDelete = true
		}
	}
	if !foundInsert || !foundDelete {
		t.Fatalf("expected both insert and delete ops, got %v", ops)
	}
}
