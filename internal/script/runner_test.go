package script

import (
	"testing"

	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/workqueue"
)

func scriptInv(name, source string) invocation.Invocation {
	inv := invocation.Invocation{Kind: invocation.KindScript, Name: name}
	inv.Args = []string{source}
	return inv
}

func TestRunScriptEnqueuesInvocations(t *testing.T) {
	q := workqueue.New()
	r := NewRunner(q)

	err := r.RunScript(scriptInv("demo", `
		editor.invoke("move.right", 3)
		editor.command("write", "/tmp/out.txt")
	`))
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}

	item, ok := q.PopFront()
	if !ok || item.Invocation.Name != "move.right" || item.Invocation.Count != 3 {
		t.Fatalf("first item = %+v", item.Invocation)
	}
	if item.Scope != workqueue.ScriptScope(0) {
		t.Errorf("scope = %+v, want script epoch 0", item.Scope)
	}

	item, _ = q.PopFront()
	if item.Invocation.Kind != invocation.KindCommand || item.Invocation.Name != "write" {
		t.Fatalf("second item = %+v", item.Invocation)
	}
	if len(item.Invocation.Args) != 1 || item.Invocation.Args[0] != "/tmp/out.txt" {
		t.Errorf("args = %v", item.Invocation.Args)
	}
}

func TestStopCancelsQueuedContinuations(t *testing.T) {
	q := workqueue.New()
	r := NewRunner(q)

	if err := r.RunScript(scriptInv("a", `editor.invoke("x")`)); err != nil {
		t.Fatal(err)
	}
	q.EnqueueInvocation(invocation.Action("keep"), workqueue.Global)

	if removed := r.Stop(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	item, ok := q.PopFront()
	if !ok || item.Invocation.Name != "keep" {
		t.Fatalf("surviving item = %+v", item.Invocation)
	}

	// Scripts run after a stop tag the new epoch.
	if err := r.RunScript(scriptInv("b", `editor.invoke("y")`)); err != nil {
		t.Fatal(err)
	}
	item, _ = q.PopFront()
	if item.Scope != workqueue.ScriptScope(1) {
		t.Errorf("scope = %+v, want epoch 1", item.Scope)
	}
}

func TestScriptErrorsSurface(t *testing.T) {
	r := NewRunner(workqueue.New())
	if err := r.RunScript(scriptInv("bad", `this is not lua`)); err == nil {
		t.Error("expected a parse error")
	}
	if err := r.RunScript(invocation.Invocation{Kind: invocation.KindScript, Name: "empty"}); err == nil {
		t.Error("expected an error for empty source")
	}
}

func TestSandboxHasNoIO(t *testing.T) {
	r := NewRunner(workqueue.New())
	err := r.RunScript(scriptInv("io", `io.write("x")`))
	if err == nil {
		t.Error("io library should be unavailable")
	}
	err = r.RunScript(scriptInv("os", `os.exit(1)`))
	if err == nil {
		t.Error("os library should be unavailable")
	}
}
