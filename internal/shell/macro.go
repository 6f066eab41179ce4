package shell

import (
	"fmt"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/registry"
)

// Macro recording: key events are captured at the shell boundary and
// replayed through the same HandleKey path, so a macro behaves exactly as
// if the user typed it — counts, registers, and pending states included.
// Keys that dispatch macro.* actions themselves are never captured.

const defaultMacroRegister = '@'

type macroState struct {
	recording bool
	register  rune
	events    []key.Event

	macros map[rune][]key.Event
}

func (e *Editor) macroStateLazy() *macroState {
	if e.macro == nil {
		e.macro = &macroState{macros: make(map[rune][]key.Event)}
	}
	return e.macro
}

// recordKey captures ev if a recording is active.
func (e *Editor) recordKey(ev key.Event) {
	m := e.macroStateLazy()
	if m.recording {
		m.events = append(m.events, ev)
	}
}

func (e *Editor) startMacro(register rune) {
	m := e.macroStateLazy()
	if register == 0 {
		register = defaultMacroRegister
	}
	m.recording = true
	m.register = register
	m.events = nil
}

func (e *Editor) stopMacro() {
	m := e.macroStateLazy()
	if !m.recording {
		return
	}
	m.recording = false
	m.macros[m.register] = m.events
	m.events = nil
	e.Notify(dispatch.NotifyInfo, fmt.Sprintf("recorded macro @%c", m.register))
}

// playMacro replays the macro in register, count times. Replaying while
// recording is rejected to keep the capture loop-free.
func (e *Editor) playMacro(register rune, count uint32) error {
	m := e.macroStateLazy()
	if m.recording {
		return fmt.Errorf("%w: cannot play a macro while recording", dispatch.ErrCommand)
	}
	if register == 0 {
		register = defaultMacroRegister
	}
	events, ok := m.macros[register]
	if !ok || len(events) == 0 {
		return fmt.Errorf("%w: no macro in @%c", dispatch.ErrCommand, register)
	}
	for i := uint32(0); i < count; i++ {
		for _, ev := range events {
			e.HandleKey(ev)
		}
	}
	return nil
}

// registerMacroActions pushes the macro actions; their handlers run
// against the shell directly since recording state lives outside the
// document model.
func (e *Editor) registerMacroActions(b *registry.Builder) {
	push := func(name string, h registry.Handler) {
		b.PushAction(registry.ActionDef{
			ID: name, Name: name, Source: registry.SourceBuiltin, Handler: h,
		})
	}
	push("macro.record", func(ctx registry.ActionContext) registry.ActionResult {
		if e.macroStateLazy().recording {
			e.stopMacro()
			return registry.Ok()
		}
		reg := rune(0)
		if ctx.HasCharArg {
			reg = ctx.CharArg
		}
		e.startMacro(reg)
		return registry.Ok()
	})
	push("macro.stop", func(registry.ActionContext) registry.ActionResult {
		e.stopMacro()
		return registry.Ok()
	})
	push("macro.play", func(ctx registry.ActionContext) registry.ActionResult {
		reg := rune(0)
		if ctx.HasCharArg {
			reg = ctx.CharArg
		}
		if err := e.playMacro(reg, ctx.Count); err != nil {
			return registry.Error(err)
		}
		return registry.Ok()
	})
}
