// Package dispatch is the uniform invocation entry point of spec §4.7
// (C8): every invocation — keymap, palette, hook, ex-command, script —
// funnels through Dispatcher.Run, which resolves the definition, gates on
// capabilities and read-only state, emits ActionPre/ActionPost hooks, runs
// the pure handler, and hands the resulting effect to the host shell to
// apply.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/registry"
)

// Outcome is Run's summary result (spec §4.7 step 6, plus ReadonlyDenied
// from step 2).
type Outcome uint8

const (
	OutcomeOk Outcome = iota
	OutcomeQuit
	OutcomeForceQuit
	OutcomeCommandError
	OutcomeCapabilityDenied
	OutcomeReadonlyDenied
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOk:
		return "ok"
	case OutcomeQuit:
		return "quit"
	case OutcomeForceQuit:
		return "force-quit"
	case OutcomeCommandError:
		return "command-error"
	case OutcomeCapabilityDenied:
		return "capability-denied"
	case OutcomeReadonlyDenied:
		return "readonly-denied"
	case OutcomeNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Policy carries the dispatch enforcement knobs. Migration mode starts
// with both off (violations logged only); production flips both on.
type Policy struct {
	EnforceCaps     bool
	EnforceReadonly bool
}

// Host is the narrow surface the dispatcher needs from the editor shell.
// The dispatcher never touches documents directly: it snapshots state
// through Context, and effects flow back through Apply.
type Host interface {
	// Context builds the immutable ActionContext snapshot a handler runs
	// against.
	Context(inv invocation.Invocation) registry.ActionContext

	// Apply realizes a handler's result: selection/cursor updates, edits
	// via the transaction pipeline, mode changes, notifications. It
	// returns an error only for CommandError-grade failures.
	Apply(inv invocation.Invocation, res registry.ActionResult) error

	// EmitHook runs the synchronous hooks subscribed to ctx.Event and
	// schedules any async continuations on the hook runtime.
	EmitHook(ctx registry.HookContext)

	// Capabilities returns the editor's current capability set.
	Capabilities() registry.Set

	// ActiveReadOnly reports whether the focused buffer is read-only.
	ActiveReadOnly() bool

	// Notify surfaces a user-visible message.
	Notify(level NotifyLevel, msg string)
}

// ScriptRunner executes KindScript invocations. The plugin host is an
// external collaborator; the dispatcher only knows this interface.
type ScriptRunner interface {
	RunScript(inv invocation.Invocation) error
}

// Dispatcher resolves and executes invocations against a registry
// snapshot.
type Dispatcher struct {
	reg     *registry.Registry
	host    Host
	policy  Policy
	scripts ScriptRunner
	logger  *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithScriptRunner installs the script collaborator.
func WithScriptRunner(r ScriptRunner) Option {
	return func(d *Dispatcher) { d.scripts = r }
}

// WithLogger sets the structured logger used for policy-off violation
// logging.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New returns a Dispatcher bound to reg and host under policy.
func New(reg *registry.Registry, host Host, policy Policy, opts ...Option) *Dispatcher {
	d := &Dispatcher{reg: reg, host: host, policy: policy, logger: slog.Default()}
	for _, o := range opts {
		o(d)
	}
	return d
}

// SetPolicy replaces the enforcement policy (e.g. flipping migration mode
// off once defaults have registered their capability sets).
func (d *Dispatcher) SetPolicy(p Policy) { d.policy = p }

// Run executes one invocation through the full dispatch path of spec §4.7.
func (d *Dispatcher) Run(inv invocation.Invocation) Outcome {
	snap := d.reg.Current()

	var (
		id      string
		caps    registry.Set
		handler registry.Handler
	)
	switch inv.Kind {
	case invocation.KindAction:
		def, ok := snap.Action(inv.Name)
		if !ok {
			d.host.Notify(NotifyWarn, fmt.Sprintf("unknown action: %s", inv.Name))
			return OutcomeNotFound
		}
		id, caps, handler = def.ID, def.RequiredCaps, def.Handler
	case invocation.KindCommand:
		def, ok := snap.Command(inv.Name)
		if !ok {
			d.host.Notify(NotifyWarn, fmt.Sprintf("unknown command: %s", inv.Name))
			return OutcomeNotFound
		}
		id, caps, handler = def.ID, def.RequiredCaps, def.Handler
	case invocation.KindScript:
		return d.runScript(inv)
	default:
		return OutcomeNotFound
	}

	if !d.host.Capabilities().HasAll(caps) {
		if d.policy.EnforceCaps {
			d.host.Notify(NotifyWarn, fmt.Sprintf("%s: %v", inv.Name, ErrCapabilityDenied))
			return OutcomeCapabilityDenied
		}
		d.logger.Warn("capability check failed (policy off)", "invocation", inv.Name)
	}
	if caps.Has(registry.CapEdit) && d.host.ActiveReadOnly() {
		if d.policy.EnforceReadonly {
			d.host.Notify(NotifyWarn, fmt.Sprintf("%s: %v", inv.Name, ErrReadonlyDenied))
			return OutcomeReadonlyDenied
		}
		d.logger.Warn("read-only check failed (policy off)", "invocation", inv.Name)
	}

	d.host.EmitHook(registry.HookContext{Event: registry.EventActionPre, ActionID: id})

	ctx := d.host.Context(inv)
	res := handler(ctx)
	applyErr := d.host.Apply(inv, res)

	d.host.EmitHook(registry.HookContext{Event: registry.EventActionPost, ActionID: id})

	switch {
	case res.Kind == registry.ResultQuit:
		return OutcomeQuit
	case res.Kind == registry.ResultForceQuit:
		return OutcomeForceQuit
	case res.Kind == registry.ResultError:
		d.host.Notify(LevelFor(res.Err), res.Err.Error())
		return OutcomeCommandError
	case applyErr != nil:
		d.host.Notify(LevelFor(applyErr), applyErr.Error())
		return OutcomeCommandError
	default:
		return OutcomeOk
	}
}

func (d *Dispatcher) runScript(inv invocation.Invocation) Outcome {
	if d.scripts == nil {
		d.host.Notify(NotifyWarn, "no script runner installed")
		return OutcomeNotFound
	}
	if err := d.scripts.RunScript(inv); err != nil {
		d.host.Notify(LevelFor(err), err.Error())
		return OutcomeCommandError
	}
	return OutcomeOk
}
