package dispatch

import (
	"errors"
	"testing"

	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/registry"
)

type fakeHost struct {
	caps     registry.Set
	readOnly bool

	applied  []registry.ActionResult
	hooks    []registry.EventKind
	notices  []string
	applyErr error
}

func (h *fakeHost) Context(invocation.Invocation) registry.ActionContext {
	return registry.ActionContext{}
}

func (h *fakeHost) Apply(_ invocation.Invocation, res registry.ActionResult) error {
	h.applied = append(h.applied, res)
	return h.applyErr
}

func (h *fakeHost) EmitHook(ctx registry.HookContext) {
	h.hooks = append(h.hooks, ctx.Event)
}

func (h *fakeHost) Capabilities() registry.Set { return h.caps }
func (h *fakeHost) ActiveReadOnly() bool       { return h.readOnly }
func (h *fakeHost) Notify(_ NotifyLevel, msg string) {
	h.notices = append(h.notices, msg)
}

func buildRegistry(t *testing.T, defs ...registry.ActionDef) *registry.Registry {
	t.Helper()
	b := registry.NewBuilder(registry.DuplicatePanic)
	for _, d := range defs {
		b.PushAction(d)
	}
	return registry.New(b.Build())
}

func okAction(name string, caps registry.Set) registry.ActionDef {
	return registry.ActionDef{
		ID: name, Name: name, RequiredCaps: caps,
		Handler: func(registry.ActionContext) registry.ActionResult { return registry.Ok() },
	}
}

func TestRunUnknownActionIsNotFound(t *testing.T) {
	h := &fakeHost{caps: registry.AllCapabilities}
	d := New(buildRegistry(t), h, Policy{EnforceCaps: true, EnforceReadonly: true})
	if got := d.Run(invocation.Action("nope")); got != OutcomeNotFound {
		t.Fatalf("outcome = %v, want not-found", got)
	}
	if len(h.notices) != 1 {
		t.Errorf("expected a notification, got %v", h.notices)
	}
}

func TestRunEmitsPrePostHooks(t *testing.T) {
	h := &fakeHost{caps: registry.AllCapabilities}
	d := New(buildRegistry(t, okAction("x", 0)), h, Policy{})
	if got := d.Run(invocation.Action("x")); got != OutcomeOk {
		t.Fatalf("outcome = %v", got)
	}
	if len(h.hooks) != 2 || h.hooks[0] != registry.EventActionPre || h.hooks[1] != registry.EventActionPost {
		t.Errorf("hooks = %v, want pre then post", h.hooks)
	}
}

func TestCapabilityGate(t *testing.T) {
	act := okAction("danger", registry.Set(registry.CapFileOps))
	h := &fakeHost{caps: registry.Set(registry.CapText)}

	enforcing := New(buildRegistry(t, act), h, Policy{EnforceCaps: true})
	if got := enforcing.Run(invocation.Action("danger")); got != OutcomeCapabilityDenied {
		t.Fatalf("outcome = %v, want capability-denied", got)
	}
	if len(h.applied) != 0 {
		t.Errorf("handler ran despite denied capability")
	}

	// Migration mode: log only, still execute.
	h2 := &fakeHost{caps: registry.Set(registry.CapText)}
	lenient := New(buildRegistry(t, act), h2, Policy{})
	if got := lenient.Run(invocation.Action("danger")); got != OutcomeOk {
		t.Fatalf("outcome = %v, want ok under lenient policy", got)
	}
	if len(h2.applied) != 1 {
		t.Errorf("handler did not run under lenient policy")
	}
}

func TestReadonlyGate(t *testing.T) {
	act := okAction("edit.x", registry.Set(registry.CapEdit))
	h := &fakeHost{caps: registry.AllCapabilities, readOnly: true}
	d := New(buildRegistry(t, act), h, Policy{EnforceReadonly: true})
	if got := d.Run(invocation.Action("edit.x")); got != OutcomeReadonlyDenied {
		t.Fatalf("outcome = %v, want readonly-denied", got)
	}
}

func TestErrorResultBecomesNotification(t *testing.T) {
	act := registry.ActionDef{
		ID: "bad", Name: "bad",
		Handler: func(registry.ActionContext) registry.ActionResult {
			return registry.Error(errors.New("boom"))
		},
	}
	h := &fakeHost{caps: registry.AllCapabilities}
	d := New(buildRegistry(t, act), h, Policy{})
	if got := d.Run(invocation.Action("bad")); got != OutcomeCommandError {
		t.Fatalf("outcome = %v, want command-error", got)
	}
	if len(h.notices) != 1 || h.notices[0] != "boom" {
		t.Errorf("notices = %v", h.notices)
	}
}

func TestQuitPropagates(t *testing.T) {
	act := registry.ActionDef{
		ID: "q", Name: "q",
		Handler: func(registry.ActionContext) registry.ActionResult { return registry.Quit() },
	}
	h := &fakeHost{caps: registry.AllCapabilities}
	d := New(buildRegistry(t, act), h, Policy{})
	if got := d.Run(invocation.Action("q")); got != OutcomeQuit {
		t.Fatalf("outcome = %v, want quit", got)
	}
}

func TestLevelFor(t *testing.T) {
	if LevelFor(ErrCancelled) != NotifyInfo {
		t.Errorf("cancelled should be info")
	}
	if LevelFor(ErrReadonlyDenied) != NotifyWarn {
		t.Errorf("readonly should be warn")
	}
	if LevelFor(errors.New("anything else")) != NotifyError {
		t.Errorf("default should be error")
	}
}
