package keymap

import (
	"unicode"

	"github.com/wisp-editor/wisp/internal/input/key"
	"github.com/wisp-editor/wisp/internal/invocation"
)

// Behavior carries the keymap engine's behavior flags (spec §4.5, §9
// "Shift semantics").
type Behavior struct {
	// NormalDigitPrefixCount enables bare-digit count accumulation in
	// Normal mode.
	NormalDigitPrefixCount bool

	// ShiftFold enables the Vim-style shift fallback in Normal mode: an
	// unbound uppercase key retries as its lowercase form with Extend set.
	ShiftFold bool
}

// ResultKind tags what HandleKey did with a key event.
type ResultKind uint8

const (
	// ResultUnhandled means the key matched nothing; the caller may apply
	// its own fallback (e.g. self-insert in Insert mode).
	ResultUnhandled ResultKind = iota
	// ResultConsumed means the key was absorbed into engine state (count
	// digit, register prefix, cancelled sequence) with nothing to run.
	ResultConsumed
	// ResultPending means the accumulated sequence is a valid prefix of a
	// longer binding; the engine is waiting for more keys.
	ResultPending
	// ResultDispatch carries an invocation for the dispatcher.
	ResultDispatch
)

// Result is the outcome of feeding one key event to the engine.
type Result struct {
	Kind       ResultKind
	Invocation invocation.Invocation

	// KeysSoFar echoes the pending sequence for status-line display.
	KeysSoFar []string

	// ModeReset is set when Escape reset a non-Normal mode back to Normal;
	// the shell uses it to end insert coalescing and fire ModeChange hooks.
	// PrevMode names the mode that was left.
	ModeReset bool
	PrevMode  string
}

// Engine is the mode-scoped trie matcher plus count/register/extend state
// machine of spec §4.5 (C6).
type Engine struct {
	behavior Behavior
	tries    map[string]*Trie
	state    *State

	awaitingRegister bool
}

// NewEngine returns an engine in Normal mode with empty tries for the
// given behavior flags.
func NewEngine(behavior Behavior) *Engine {
	return &Engine{
		behavior: behavior,
		tries:    make(map[string]*Trie),
		state:    NewState(),
	}
}

// Bind parses seq (whitespace-separated nodes, see ParseSequence) and
// installs the binding into mode's trie.
func (e *Engine) Bind(mode, seq string, b Binding) error {
	path, err := ParseSequence(seq)
	if err != nil {
		return err
	}
	e.trie(mode).Insert(path, b)
	return nil
}

// BindAction is shorthand for binding a plain action invocation.
func (e *Engine) BindAction(mode, seq, action string) error {
	return e.Bind(mode, seq, Binding{Invocation: invocation.Action(action)})
}

func (e *Engine) trie(mode string) *Trie {
	t, ok := e.tries[mode]
	if !ok {
		t = NewTrie()
		e.tries[mode] = t
	}
	return t
}

// Mode returns the current mode name.
func (e *Engine) Mode() string { return e.state.ModeName }

// SetBehavior replaces the behavior flags (config override).
func (e *Engine) SetBehavior(b Behavior) { e.behavior = b }

// BehaviorFlags returns the current behavior flags.
func (e *Engine) BehaviorFlags() Behavior { return e.behavior }

// SetMode switches the engine's mode, clearing any accumulated sequence
// and pending state. Params (count/register/extend) are reset too: a
// half-entered count never survives a mode change.
func (e *Engine) SetMode(name string, tag Tag) {
	e.state.ModeName = name
	e.state.Tag = tag
	e.state.resetSequence()
	e.state.resetParams()
	e.awaitingRegister = false
}

// EnterPending drops the engine into a pending-input state: the next
// character key is consumed as the argument of continuation (spec §4.5
// "Pending kinds").
func (e *Engine) EnterPending(kind PendingKind, inclusive bool, objKind ObjectSelectionKind, continuation invocation.Invocation) {
	e.state.Tag = TagPending
	e.state.PendingKind = kind
	e.state.PendingInclusive = inclusive
	e.state.PendingObjectKind = objKind
	e.state.PendingContinuation = continuation
}

// LastSearch returns the remembered search pattern, if any.
func (e *Engine) LastSearch() *SearchState { return e.state.LastSearch }

// SetLastSearch remembers a search for repeat-search actions.
func (e *Engine) SetLastSearch(pattern string, reverse bool) {
	e.state.LastSearch = &SearchState{Pattern: pattern, Reverse: reverse}
}

// Count returns the currently accumulated prefix count (0 = none).
func (e *Engine) Count() uint32 { return e.state.Count }

// PendingSequence returns the accumulated key nodes as display strings.
func (e *Engine) PendingSequence() []string {
	return nodeStrings(e.state.Sequence)
}

func nodeStrings(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Str
	}
	return out
}

func (e *Engine) resetToNormal() {
	e.state.ModeName = "normal"
	e.state.Tag = TagNormal
	e.state.resetSequence()
	e.state.resetParams()
	e.awaitingRegister = false
}

// HandleKey feeds one key event through the state machine of spec §4.5.
func (e *Engine) HandleKey(ev key.Event) Result {
	s := e.state

	if s.Tag == TagPending {
		return e.handlePendingKey(ev)
	}

	if e.awaitingRegister {
		e.awaitingRegister = false
		if ev.IsRune() {
			s.Register = ev.Rune
			s.HasRegister = true
			return Result{Kind: ResultConsumed}
		}
		if ev.Key == key.KeyEscape {
			s.resetParams()
			return Result{Kind: ResultConsumed}
		}
		return Result{Kind: ResultUnhandled}
	}

	if ev.Key == key.KeyEscape {
		if len(s.Sequence) > 0 {
			s.resetSequence()
			s.resetParams()
			return Result{Kind: ResultConsumed}
		}
		if s.Tag != TagNormal || s.ModeName != "normal" {
			prev := s.ModeName
			e.resetToNormal()
			return Result{Kind: ResultConsumed, ModeReset: true, PrevMode: prev}
		}
		// Escape in Normal with nothing pending falls through to the trie:
		// keymaps may bind it (e.g. collapse selection to a point).
	}

	if e.behavior.NormalDigitPrefixCount && s.Tag == TagNormal && len(s.Sequence) == 0 &&
		ev.IsRune() && !ev.IsModified() && ev.Rune >= '0' && ev.Rune <= '9' {
		d := uint32(ev.Rune - '0')
		if d != 0 || s.Count > 0 {
			s.Count = saturatingAccumulateDigit(s.Count, d)
			return Result{Kind: ResultConsumed}
		}
	}

	if s.Tag == TagNormal && len(s.Sequence) == 0 && ev.IsRune() && ev.Rune == '"' && !ev.IsModified() {
		e.awaitingRegister = true
		return Result{Kind: ResultConsumed}
	}

	primary := nodeFor(ev)
	fallback, fallbackOK := e.shiftFoldFallback(ev)

	s.Sequence = append(s.Sequence, primary)
	res := e.trie(s.ModeName).query(s.Sequence)
	switch res.kind {
	case matchOK:
		return e.dispatch(res)
	case matchPending:
		return Result{Kind: ResultPending, KeysSoFar: nodeStrings(s.Sequence)}
	}

	s.Sequence = s.Sequence[:len(s.Sequence)-1]
	if fallbackOK {
		s.Sequence = append(s.Sequence, fallback)
		res = e.trie(s.ModeName).query(s.Sequence)
		switch res.kind {
		case matchOK:
			s.Extend = true
			return e.dispatch(res)
		case matchPending:
			s.Extend = true
			return Result{Kind: ResultPending, KeysSoFar: nodeStrings(s.Sequence)}
		}
		s.Sequence = s.Sequence[:len(s.Sequence)-1]
	}

	s.resetSequence()
	s.resetParams()
	return Result{Kind: ResultUnhandled}
}

func (e *Engine) handlePendingKey(ev key.Event) Result {
	s := e.state
	if ev.Key == key.KeyEscape {
		s.Tag = TagNormal
		s.resetSequence()
		s.resetParams()
		return Result{Kind: ResultConsumed}
	}
	if ev.IsRune() {
		inv := s.PendingContinuation
		inv.CharArg = ev.Rune
		inv.HasCharArg = true
		s.Tag = TagNormal
		s.resetSequence()
		s.resetParams()
		return Result{Kind: ResultDispatch, Invocation: inv}
	}
	s.Tag = TagNormal
	s.resetSequence()
	s.resetParams()
	return Result{Kind: ResultUnhandled}
}

// shiftFoldFallback computes the lowered fallback node for a shifted key in
// Normal mode, per spec §4.5 step 4: an uppercase letter falls back to its
// lowercase binding with extend; a shifted special key falls back to the
// unshifted key with extend.
func (e *Engine) shiftFoldFallback(ev key.Event) (Node, bool) {
	if !e.behavior.ShiftFold || e.state.Tag != TagNormal {
		return Node{}, false
	}
	if ev.IsRune() && unicode.IsUpper(ev.Rune) && !ev.IsModified() {
		low := unicode.ToLower(ev.Rune)
		return nodeFor(key.NewRuneEvent(low, ev.Modifiers.Without(key.ModShift))), true
	}
	if !ev.IsRune() && ev.Modifiers.HasShift() {
		return nodeFor(key.NewSpecialEvent(ev.Key, ev.Modifiers.Without(key.ModShift))), true
	}
	return Node{}, false
}

// dispatch consumes the engine state into the matched binding's invocation:
// counts multiply (clamped), extend ORs, and a prefix register overrides
// the binding's default.
func (e *Engine) dispatch(res queryResult) Result {
	s := e.state
	b := res.binding

	inv := b.Invocation
	inv.Count = clampCount(uint64(maxu32(1, s.Count)) * uint64(maxu32(1, inv.Count)))
	inv.Extend = inv.Extend || s.Extend
	if s.HasRegister {
		inv.Register = s.Register
		inv.HasRegister = true
	}
	if res.hasCaptured && !inv.HasCharArg {
		inv.CharArg = res.captured
		inv.HasCharArg = true
	}
	if inv.Source == "" {
		inv.Source = "keymap"
	}

	if b.Sticky && len(s.Sequence) > 0 {
		s.Sequence = s.Sequence[:len(s.Sequence)-1]
	} else {
		s.resetSequence()
	}
	s.resetParams()

	return Result{Kind: ResultDispatch, Invocation: inv}
}
