// Package script runs KindScript invocations on a sandboxed gopher-lua
// interpreter. The full plugin host is an external collaborator (spec §1);
// this runner only covers the narrow ScriptRunner surface the dispatcher
// needs: execute a script, let it defer invocations through the work
// queue, and cancel its queued continuations on stop.
package script

import (
	"fmt"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/workqueue"
)

// Runner implements dispatch.ScriptRunner.
type Runner struct {
	queue *workqueue.Queue
	epoch atomic.Uint64
}

// NewRunner returns a Runner deferring script-produced invocations into
// queue.
func NewRunner(queue *workqueue.Queue) *Runner {
	return &Runner{queue: queue}
}

// Epoch returns the current script epoch; items the runner enqueues are
// scoped to it.
func (r *Runner) Epoch() uint64 { return r.epoch.Load() }

// Stop bumps the epoch and removes every queued item the previous epoch
// produced, so a stopped script's continuations never run (spec §4.11).
func (r *Runner) Stop() int {
	old := r.epoch.Add(1) - 1
	return r.queue.RemoveScope(workqueue.ScriptScope(old))
}

// RunScript executes a script invocation. The script source travels in
// the invocation's Args (joined by newlines). Scripts cannot mutate
// editor state directly; they emit invocations via editor.invoke, which
// land on the deferred-work queue tagged with the current epoch.
func (r *Runner) RunScript(inv invocation.Invocation) error {
	if len(inv.Args) == 0 {
		return fmt.Errorf("script %q: no source", inv.Name)
	}
	source := strings.Join(inv.Args, "\n")

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSandboxedLibs(L)

	epoch := r.epoch.Load()
	editor := L.NewTable()
	L.SetField(editor, "invoke", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		qinv := invocation.Action(name)
		if L.GetTop() >= 2 {
			qinv.Count = uint32(L.CheckInt(2))
		}
		qinv.Source = "script"
		r.queue.EnqueueInvocation(qinv, workqueue.ScriptScope(epoch))
		return 0
	}))
	L.SetField(editor, "command", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		var args []string
		for i := 2; i <= L.GetTop(); i++ {
			args = append(args, L.CheckString(i))
		}
		qinv := invocation.Command(name, args...)
		qinv.Source = "script"
		r.queue.EnqueueInvocation(qinv, workqueue.ScriptScope(epoch))
		return 0
	}))
	L.SetGlobal("editor", editor)

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("script %q: %w", inv.Name, err)
	}
	return nil
}

// openSandboxedLibs loads only the side-effect-free parts of the Lua
// standard library: base, table, string, math. No io, no os, no package
// loader.
func openSandboxedLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// base brings in dofile/loadfile; drop them to keep the sandbox closed.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}
