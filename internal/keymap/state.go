package keymap

import "github.com/wisp-editor/wisp/internal/invocation"

// Tag is the coarse mode category the keymap engine dispatches on. The
// editor shell tracks finer-grained named modes ("normal", "insert",
// "visual", ...); Tag only distinguishes the three shapes spec §3's Mode
// type names: Normal, Insert, and PendingAction(kind).
type Tag uint8

const (
	TagNormal Tag = iota
	TagInsert
	TagPending
)

// PendingKind names what a pending-input state is waiting for (spec §4.5).
type PendingKind uint8

const (
	PendingFindChar PendingKind = iota
	PendingFindCharReverse
	PendingReplaceChar
	PendingObject
)

// ObjectSelectionKind further qualifies a PendingObject state (spec §4.5).
type ObjectSelectionKind uint8

const (
	ObjectInner ObjectSelectionKind = iota
	ObjectAround
)

// SearchState remembers the last search for repeat-search actions ("n"/"N"
// in Vim-derived keymaps).
type SearchState struct {
	Pattern string
	Reverse bool
}

// MaxActionCount bounds the multiplied count product so a pathological
// digit run or binding-count cannot overflow into something the dispatcher
// would choke on (spec §4.5 "clamp(..., 1, MAX_ACTION_COUNT)").
const MaxActionCount = 1 << 20

// State is the keymap engine's mutable per-view state (spec §4.5).
type State struct {
	ModeName string // selects which mode's Trie to query ("normal", "insert", ...)
	Tag      Tag

	PendingKind         PendingKind
	PendingInclusive    bool
	PendingObjectKind   ObjectSelectionKind
	PendingContinuation invocation.Invocation

	Count       uint32
	Register    rune
	HasRegister bool
	Extend      bool

	Sequence []Node // accumulated key nodes since the last reset

	LastSearch *SearchState
}

// NewState returns a State starting in Normal mode with no accumulated
// input.
func NewState() *State {
	return &State{ModeName: "normal", Tag: TagNormal}
}

// resetSequence clears the accumulated key sequence without touching mode
// or count/register/extend (used after a successful Dispatch, where the
// engine's caller is responsible for any mode transition the invocation
// implies).
func (s *State) resetSequence() {
	s.Sequence = nil
}

// resetParams clears count, register, and extend back to their defaults,
// used on Escape and after a completed dispatch.
func (s *State) resetParams() {
	s.Count = 0
	s.Register = 0
	s.HasRegister = false
	s.Extend = false
}

func saturatingAccumulateDigit(count uint32, d uint32) uint32 {
	next := uint64(count)*10 + uint64(d)
	if next > MaxActionCount {
		return MaxActionCount
	}
	return uint32(next)
}

func clampCount(n uint64) uint32 {
	if n < 1 {
		return 1
	}
	if n > MaxActionCount {
		return MaxActionCount
	}
	return uint32(n)
}

func maxu32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
