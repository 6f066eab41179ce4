// Package shell glues the editor core together (spec §4.12, C13): it owns
// the open documents and views, focus, registers, notifications, the
// keymap engine, the dispatcher, the hook runtime, the deferred-work
// queue, and the per-frame pump ordering that keeps them correct.
package shell

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/document"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/engine/view"
	"github.com/wisp-editor/wisp/internal/hookrt"
	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/invocation"
	"github.com/wisp-editor/wisp/internal/keymap"
	"github.com/wisp-editor/wisp/internal/lsp"
	"github.com/wisp-editor/wisp/internal/lspsync"
	"github.com/wisp-editor/wisp/internal/notify"
	"github.com/wisp-editor/wisp/internal/registry"
	"github.com/wisp-editor/wisp/internal/script"
	"github.com/wisp-editor/wisp/internal/viewport"
	"github.com/wisp-editor/wisp/internal/workqueue"
)

// Default pump budgets (spec §4.11/§4.12): how much deferred work one tick
// may drain before yielding back to foreground input.
const (
	workItemsPerTick    = 16
	hookDrainBudget     = 2 * time.Millisecond
	hookDrainMaxPerTick = 32
	scrollMargin        = 2
	defaultTabWidth     = 4
)

// Diagnostic is one inbound LSP diagnostic, kept only as far as the render
// cache needs it.
type Diagnostic = lsp.Diagnostic

// Editor is the shell: the single owner of all mutable editor state. All
// mutation happens on the pump goroutine; collaborators reach it through
// the work queue handle.
type Editor struct {
	logger *slog.Logger

	docs     map[string]*document.Document
	views    map[string]*view.View
	focus    string // focused view id
	nextDoc  int
	nextView int

	keys      *keymap.Engine
	reg       *registry.Registry
	disp      *dispatch.Dispatcher
	hooks     *hookrt.Runtime
	work      *workqueue.Queue
	notes     *notify.Collector
	registers *Registers
	scripts   *script.Runner
	sync      *lspsync.Manager // nil when no server is attached

	// diagnostics is interior-mutable: written by the shell when LSP
	// events apply, read by the render path.
	diagMu      sync.RWMutex
	diagnostics map[string][]Diagnostic

	caps     registry.Set
	theme    string
	tabWidth int

	// viewAreas remembers each view's last render rectangle, consulted by
	// mouse handling and ensure-visible.
	viewAreas map[string]viewport.Area

	macro *macroState

	quit      bool
	forceQuit bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithLSPSync attaches an LSP sync manager.
func WithLSPSync(m *lspsync.Manager) Option {
	return func(e *Editor) { e.sync = m }
}

// WithCapabilities overrides the editor's capability set.
func WithCapabilities(caps registry.Set) Option {
	return func(e *Editor) { e.caps = caps }
}

// New builds an Editor with the default registry, keymap, and a single
// scratch document, ready to pump.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger:      slog.Default(),
		docs:        make(map[string]*document.Document),
		views:       make(map[string]*view.View),
		keys:        keymap.NewEngine(keymap.Behavior{NormalDigitPrefixCount: true, ShiftFold: true}),
		hooks:       hookrt.New(),
		work:        workqueue.New(),
		notes:       notify.New(),
		registers:   NewRegisters(),
		diagnostics: make(map[string][]Diagnostic),
		caps:        registry.AllCapabilities,
		theme:       "default",
		tabWidth:    defaultTabWidth,
		viewAreas:   make(map[string]viewport.Area),
	}
	for _, o := range opts {
		o(e)
	}

	b := registry.NewBuilder(registry.DuplicatePanic)
	e.registerActions(b)
	e.registerCommands(b)
	e.registerMacroActions(b)
	e.registerTextObjects(b)
	e.reg = registry.New(b.Build())
	e.scripts = script.NewRunner(e.work)
	e.disp = dispatch.New(e.reg, e, dispatch.Policy{EnforceCaps: true, EnforceReadonly: true},
		dispatch.WithLogger(e.logger), dispatch.WithScriptRunner(e.scripts))

	e.bindDefaults()

	_, viewID := e.newScratch()
	e.focus = viewID
	return e
}

// Registry exposes the action/command registry (for :reg and plugins).
func (e *Editor) Registry() *registry.Registry { return e.reg }

// Keymap exposes the keymap engine (for config-driven binding overrides).
func (e *Editor) Keymap() *keymap.Engine { return e.keys }

// Notifications exposes the collector for the render path.
func (e *Editor) Notifications() *notify.Collector { return e.notes }

// WorkQueue exposes the deferred-work handle other tasks enqueue through.
func (e *Editor) WorkQueue() *workqueue.Queue { return e.work }

// Hooks exposes the hook runtime.
func (e *Editor) Hooks() *hookrt.Runtime { return e.hooks }

// ShouldQuit reports whether a quit invocation has been accepted.
func (e *Editor) ShouldQuit() bool { return e.quit }

func (e *Editor) newScratch() (docID, viewID string) {
	e.nextDoc++
	docID = fmt.Sprintf("doc-%d", e.nextDoc)
	e.docs[docID] = document.New()
	viewID = e.newView(docID)
	return docID, viewID
}

func (e *Editor) newView(docID string) string {
	e.nextView++
	viewID := fmt.Sprintf("view-%d", e.nextView)
	e.views[viewID] = view.New(docID)
	return viewID
}

// FocusedView returns the focused view.
func (e *Editor) FocusedView() *view.View { return e.views[e.focus] }

// FocusedDoc returns the focused view's document.
func (e *Editor) FocusedDoc() *document.Document {
	return e.docs[e.FocusedView().DocID]
}

func (e *Editor) focusedDocID() string { return e.FocusedView().DocID }

// OpenFile loads path into a new document and focuses a view over it.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: open %s: %v", dispatch.ErrIo, path, err)
	}

	e.nextDoc++
	docID := fmt.Sprintf("doc-%d", e.nextDoc)
	doc := document.NewFromString(string(data))
	doc.SetPath(path)
	e.docs[docID] = doc
	e.focus = e.newView(docID)

	if e.sync != nil {
		e.sync.EnsureTracked(docID, lspsync.Config{
			Path:                path,
			LanguageID:          doc.Language(),
			SupportsIncremental: true,
		}, doc.Version())
	}
	e.EmitHook(registry.HookContext{
		Event: registry.EventBufferOpen,
		DocID: docID, Text: doc.Text(), Version: doc.Version(),
	})
	return nil
}

// Save writes the focused document to path ("" = its own path).
func (e *Editor) Save(path string) error {
	doc := e.FocusedDoc()
	docID := e.focusedDocID()
	if path == "" {
		path = doc.Path()
	}
	if path == "" {
		return fmt.Errorf("%w: no file name", dispatch.ErrCommand)
	}

	e.EmitHook(registry.HookContext{
		Event: registry.EventBufferWritePre,
		DocID: docID, Text: doc.Text(), Version: doc.Version(),
	})

	if err := os.WriteFile(path, []byte(doc.Text().String()), 0o644); err != nil {
		// A write failure leaves the buffer modified (spec §7).
		return fmt.Errorf("%w: write %s: %v", dispatch.ErrIo, path, err)
	}

	renamed := doc.Path() != "" && doc.Path() != path
	doc.SetPath(path)
	if e.sync != nil && renamed {
		e.sync.ResetTracked(docID, lspsync.Config{
			Path: path, LanguageID: doc.Language(), SupportsIncremental: true,
		}, doc.Version())
	}

	e.EmitHook(registry.HookContext{
		Event: registry.EventBufferWrite,
		DocID: docID, Text: doc.Text(), Version: doc.Version(),
	})
	return nil
}

// Split opens another view over the focused document and focuses it.
func (e *Editor) Split() { e.focus = e.newView(e.focusedDocID()) }

// HandleKey feeds one key event through the keymap and dispatches any
// resulting invocation (spec §4.12 step 1-2).
func (e *Editor) HandleKey(ev key.Event) dispatch.Outcome {
	res := e.keys.HandleKey(ev)
	if !(res.Kind == keymap.ResultDispatch && strings.HasPrefix(res.Invocation.Name, "macro.")) {
		e.recordKey(ev)
	}
	switch res.Kind {
	case keymap.ResultDispatch:
		return e.RunInvocation(res.Invocation)
	case keymap.ResultUnhandled:
		// Insert mode fallback: printable keys self-insert; enter, tab and
		// backspace map to their editing actions.
		if e.keys.Mode() == "insert" {
			if inv, ok := insertFallback(ev); ok {
				return e.RunInvocation(inv)
			}
		}
		return dispatch.OutcomeOk
	default:
		if res.ModeReset {
			e.finishModeReset(res.PrevMode)
		}
		return dispatch.OutcomeOk
	}
}

// finishModeReset completes an engine-side Escape reset: the keymap has
// already returned to Normal, so only the shell-side mode bookkeeping
// (coalescing, hooks) remains.
func (e *Editor) finishModeReset(prev string) {
	if prev == "insert" {
		e.FocusedDoc().EndInsertCoalesce()
	}
	e.EmitHook(registry.HookContext{
		Event:    registry.EventModeChange,
		FromMode: prev, ToMode: "normal",
	})
}

func insertFallback(ev key.Event) (invocation.Invocation, bool) {
	switch {
	case ev.IsChar():
		inv := invocation.Action("insert.char")
		inv.CharArg, inv.HasCharArg = ev.Rune, true
		return inv, true
	case ev.Key == key.KeyEnter:
		return invocation.Action("insert.newline"), true
	case ev.Key == key.KeyTab:
		return invocation.Action("insert.tab"), true
	case ev.Key == key.KeyBackspace:
		return invocation.Action("edit.delete-char-back"), true
	}
	return invocation.Invocation{}, false
}

// HandleMouse translates and dispatches a mouse event.
func (e *Editor) HandleMouse(ev keymap.MouseEvent) dispatch.Outcome {
	inv, ok := keymap.TranslateMouse(ev)
	if !ok {
		return dispatch.OutcomeOk
	}
	return e.RunInvocation(inv)
}

// RunInvocation dispatches one invocation and folds quit outcomes into
// shell state.
func (e *Editor) RunInvocation(inv invocation.Invocation) dispatch.Outcome {
	out := e.disp.Run(inv)
	switch out {
	case dispatch.OutcomeQuit:
		e.quit = true
	case dispatch.OutcomeForceQuit:
		e.quit = true
		e.forceQuit = true
	}
	return out
}

// Tick runs one pump iteration after input has been applied: drain the
// deferred-work queue (bounded), drain the hook budget, then flush outbound
// LSP document sync. Rendering is the caller's step 6; this ordering keeps
// BufferChange hooks visible before the renderer reads document versions
// (spec §5).
func (e *Editor) Tick() {
	for i := 0; i < workItemsPerTick; i++ {
		item, ok := e.work.PopFront()
		if !ok {
			break
		}
		e.processWorkItem(item)
	}

	e.hooks.DrainBudget(hookDrainBudget, hookDrainMaxPerTick)

	e.flushLSP()
}

func (e *Editor) processWorkItem(item workqueue.Item) {
	switch item.Kind {
	case workqueue.KindInvocation:
		e.RunInvocation(item.Invocation)
	case workqueue.KindWorkspaceEdit:
		e.applyWorkspaceEdit(item.Edit)
	case workqueue.KindOverlayCommit:
		// Overlay surfaces (palette, prompts) are external collaborators;
		// their commit lands here as a deferred invocation already.
	}
}

func (e *Editor) flushLSP() {
	if e.sync == nil {
		return
	}
	for docID, doc := range e.docs {
		if doc.Path() == "" {
			continue
		}
		_, err := e.sync.FlushNow(docID, doc.Text().String())
		if err != nil && err != lspsync.ErrFlushInFlight && err != lspsync.ErrUntracked {
			e.logger.Warn("lsp flush failed", "doc", docID, "error", err)
		}
	}
}

// ApplyDiagnostics installs a document's diagnostics for the render cache.
func (e *Editor) ApplyDiagnostics(uri string, diags []Diagnostic) {
	e.diagMu.Lock()
	defer e.diagMu.Unlock()
	e.diagnostics[uri] = diags
}

// DiagnosticsFor reads a document's diagnostics; safe from the render path.
func (e *Editor) DiagnosticsFor(uri string) []Diagnostic {
	e.diagMu.RLock()
	defer e.diagMu.RUnlock()
	out := make([]Diagnostic, len(e.diagnostics[uri]))
	copy(out, e.diagnostics[uri])
	return out
}

func (e *Editor) applyWorkspaceEdit(edit workqueue.WorkspaceEdit) {
	path := lsp.URIPath(edit.URI)
	for docID, doc := range e.docs {
		if doc.Path() != path {
			continue
		}
		changes := make([]registry.EditChangeSpec, 0, len(edit.Changes))
		for _, c := range edit.Changes {
			changes = append(changes, registry.EditChangeSpec{
				Start:       selection.CharIdx(c.Start),
				End:         selection.CharIdx(c.End),
				Replacement: c.NewText, HasReplacement: true,
			})
		}
		v := e.viewForDoc(docID)
		if v == nil {
			return
		}
		if err := e.applyEdit(docID, v, registry.EditAction{Kind: registry.EditChange, Changes: changes}); err != nil {
			e.Notify(dispatch.LevelFor(err), err.Error())
		}
		return
	}
}

func (e *Editor) viewForDoc(docID string) *view.View {
	if v := e.FocusedView(); v.DocID == docID {
		return v
	}
	for _, v := range e.views {
		if v.DocID == docID {
			return v
		}
	}
	return nil
}

// SetViewArea records a view's render rectangle (called by the renderer
// before EnsureVisible and consulted by mouse translation).
func (e *Editor) SetViewArea(viewID string, area viewport.Area) {
	e.viewAreas[viewID] = area
}

// EnsureVisible clamps every sized view's scroll so its cursor stays on
// screen (spec §4.12 step 6).
func (e *Editor) EnsureVisible() {
	for viewID, v := range e.views {
		area, ok := e.viewAreas[viewID]
		if !ok {
			continue
		}
		doc := e.docs[v.DocID]
		viewport.EnsureCursorVisible(v, doc.Text(), area, e.tabWidth, scrollMargin)
	}
}

// Theme returns the active theme name.
func (e *Editor) Theme() string { return e.theme }

// SetTheme selects the active theme by name.
func (e *Editor) SetTheme(name string) { e.theme = name }

// SetTabWidth sets the tab display width used by wrap segmentation.
func (e *Editor) SetTabWidth(w int) {
	if w > 0 {
		e.tabWidth = w
	}
}
