package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/match"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/view"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/keymap"
	"github.com/wisp-editor/wisp/internal/registry"
	"github.com/wisp-editor/wisp/internal/viewport"
)

// ParseEx parses an ex-style command line (":write foo.txt") into an
// invocation. The leading colon is optional.
func ParseEx(line string) (invocation.Invocation, error) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if line == "" {
		return invocation.Invocation{}, fmt.Errorf("%w: empty command", dispatch.ErrParse)
	}
	fields := strings.Fields(line)
	name := fields[0]
	// "quit!" style force suffix becomes its own command name.
	inv := invocation.Command(name, fields[1:]...)
	inv.Source = "ex"
	return inv, nil
}

// RunEx parses and dispatches an ex command line.
func (e *Editor) RunEx(line string) dispatch.Outcome {
	inv, err := ParseEx(line)
	if err != nil {
		e.Notify(dispatch.LevelFor(err), err.Error())
		return dispatch.OutcomeCommandError
	}
	return e.RunInvocation(inv)
}

// registerCommands pushes the builtin ex-command set (spec §6 CLI surface)
// plus the mouse pseudo-commands. Command handlers, unlike action
// handlers, may touch the filesystem and shell state directly.
func (e *Editor) registerCommands(b *registry.Builder) {
	cmd := func(name string, aliases []string, caps registry.Set, h registry.Handler) {
		b.PushCommand(registry.CommandDef{
			ID: "cmd." + name, Name: name, Aliases: aliases,
			Source: registry.SourceBuiltin, RequiredCaps: caps, Handler: h,
		})
	}

	fileCaps := registry.Set(registry.CapFileOps)

	cmd("write", []string{"w"}, fileCaps, func(ctx registry.ActionContext) registry.ActionResult {
		path := ""
		if len(ctx.Args) > 0 {
			path = ctx.Args[0]
		}
		if err := e.Save(path); err != nil {
			return registry.Error(err)
		}
		return registry.Ok()
	})

	cmd("quit", []string{"q"}, 0, func(registry.ActionContext) registry.ActionResult {
		if e.anyModified() {
			return registry.Error(fmt.Errorf("%w: unsaved changes (use :quit! to discard)", dispatch.ErrCommand))
		}
		return registry.Quit()
	})
	cmd("quit!", []string{"q!"}, 0, func(registry.ActionContext) registry.ActionResult {
		return registry.ForceQuit()
	})

	cmd("edit", []string{"e"}, fileCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if len(ctx.Args) == 0 {
			return registry.Error(fmt.Errorf("%w: edit needs a path", dispatch.ErrCommand))
		}
		if err := e.OpenFile(ctx.Args[0]); err != nil {
			return registry.Error(err)
		}
		return registry.Ok()
	})

	cmd("split", []string{"sp"}, 0, func(registry.ActionContext) registry.ActionResult {
		e.Split()
		return registry.Ok()
	})
	cmd("vsplit", []string{"vs"}, 0, func(registry.ActionContext) registry.ActionResult {
		// The shell tracks views, not layout; the renderer collaborator
		// decides horizontal versus vertical placement.
		e.Split()
		return registry.Ok()
	})

	cmd("theme", nil, 0, func(ctx registry.ActionContext) registry.ActionResult {
		if len(ctx.Args) == 0 {
			return registry.Error(fmt.Errorf("%w: theme needs a name", dispatch.ErrCommand))
		}
		e.theme = ctx.Args[0]
		return registry.Ok()
	})

	cmd("reg", nil, 0, func(ctx registry.ActionContext) registry.ActionResult {
		pattern := "*"
		if len(ctx.Args) > 0 {
			pattern = ctx.Args[0] + "*"
		}
		snap := e.reg.Current()
		var lines []string
		for _, name := range snap.ActionNames() {
			if match.Match(name, pattern) {
				lines = append(lines, "action "+name)
			}
		}
		for _, name := range snap.CommandNames() {
			if match.Match(name, pattern) {
				lines = append(lines, "command "+name)
			}
		}
		e.Notify(dispatch.NotifyInfo, strings.Join(lines, "\n"))
		return registry.Ok()
	})

	cmd("stats", nil, 0, func(registry.ActionContext) registry.ActionResult {
		e.Notify(dispatch.NotifyInfo, e.statsReport())
		return registry.Ok()
	})

	cmd("search", []string{"s"}, registry.Set(registry.CapSearch), e.searchHandler(false))

	e.registerMouseCommands(cmd)
}

func (e *Editor) anyModified() bool {
	for _, doc := range e.docs {
		if doc.CanUndo() {
			return true
		}
	}
	return false
}

func (e *Editor) registerMouseCommands(cmd func(string, []string, registry.Set, registry.Handler)) {
	curCaps := registry.Set(registry.CapCursor | registry.CapSelection)

	cmd(keymap.ActionMouseClick, nil, curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		pos, ok := e.mouseDocPosition(ctx.Args)
		if !ok {
			return registry.Ok()
		}
		if ctx.Extend {
			sel := ctx.Selection
			sel = sel.Transform(func(cur selection.Range) selection.Range {
				return selection.Range{Anchor: cur.Anchor, Head: pos}
			})
			return registry.Motion(sel)
		}
		return registry.Motion(selection.PointSelection(pos))
	})

	cmd(keymap.ActionMouseDrag, nil, curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		pos, ok := e.mouseDocPosition(ctx.Args)
		if !ok {
			return registry.Ok()
		}
		sel := ctx.Selection
		sel = sel.Transform(func(cur selection.Range) selection.Range {
			return selection.Range{Anchor: cur.Anchor, Head: pos}
		})
		return registry.Motion(sel)
	})

	cmd(keymap.ActionMouseScroll, nil, curCaps, func(ctx registry.ActionContext) registry.ActionResult {
		if len(ctx.Args) == 0 {
			return registry.Ok()
		}
		v := e.FocusedView()
		delta := int(ctx.Count) * 3
		switch ctx.Args[0] {
		case "up":
			delta = -delta
		case "down":
		default:
			return registry.Ok() // horizontal scroll is a renderer concern
		}
		e.scrollByRows(v, delta)
		return registry.Ok()
	})
}

// mouseDocPosition converts "row col" args to a document position in the
// focused view.
func (e *Editor) mouseDocPosition(args []string) (selection.CharIdx, bool) {
	if len(args) < 2 {
		return 0, false
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	v := e.FocusedView()
	area, ok := e.viewAreas[e.focus]
	if !ok {
		return 0, false
	}
	doc := e.docs[v.DocID]
	return viewport.ScreenToDocPosition(v, doc.Text(), area, e.tabWidth, row, col), true
}

// scrollByRows moves the focused viewport by wrap rows without touching
// the cursor.
func (e *Editor) scrollByRows(v *view.View, rows int) {
	area, ok := e.viewAreas[e.focus]
	if !ok {
		return
	}
	doc := e.docs[v.DocID]
	viewport.ScrollBy(v, doc.Text(), area, e.tabWidth, rows)
}

func (e *Editor) statsReport() string {
	drain := e.hooks
	var sb strings.Builder
	fmt.Fprintf(&sb, "docs: %d views: %d\n", len(e.docs), len(e.views))
	fmt.Fprintf(&sb, "work queue: %d\n", e.work.Len())
	fmt.Fprintf(&sb, "hooks: interactive=%d background=%d dropped=%d\n",
		drain.InteractiveOutstanding(), drain.BackgroundOutstanding(), drain.DroppedTotal())
	if e.sync != nil {
		m := e.sync.Metrics()
		fmt.Fprintf(&sb, "lsp: full=%d incr=%d errors=%d in-flight=%d\n",
			m.FullSyncs.Load(), m.IncrementalBatches.Load(), m.SendErrors.Load(), e.sync.InFlightCount())
	}
	return strings.TrimRight(sb.String(), "\n")
}
