package registry

import (
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// EventKind enumerates the hook lifecycle events the core emits (spec §3
// "Hook context").
type EventKind uint8

const (
	EventBufferOpen EventKind = iota
	EventBufferWritePre
	EventBufferWrite
	EventModeChange
	EventCursorMove
	EventActionPre
	EventActionPost
	EventBufferChange
)

func (e EventKind) String() string {
	switch e {
	case EventBufferOpen:
		return "buffer-open"
	case EventBufferWritePre:
		return "buffer-write-pre"
	case EventBufferWrite:
		return "buffer-write"
	case EventModeChange:
		return "mode-change"
	case EventCursorMove:
		return "cursor-move"
	case EventActionPre:
		return "action-pre"
	case EventActionPost:
		return "action-post"
	case EventBufferChange:
		return "buffer-change"
	default:
		return "unknown"
	}
}

// HookContext is an immutable snapshot of editor state passed to a hook.
// Hooks never mutate the rope through the context — if a hook needs to
// mutate state, it must emit an Invocation through the runtime work queue
// (spec §3).
type HookContext struct {
	Event EventKind

	DocID     string
	Text      rope.Rope
	Selection selection.Selection
	Version   uint64

	// ActionID names the action for ActionPre/ActionPost events.
	ActionID string

	// FromMode/ToMode are populated for ModeChange events.
	FromMode string
	ToMode   string
}

// HookFunc is a synchronous hook handler. Hooks that need to do async work
// set a non-nil HookDef.Async, which the caller schedules on the hook
// runtime (C10) rather than running inline.
type HookFunc func(HookContext)

// AsyncHookFunc is the async continuation a hook may request.
type AsyncHookFunc func(HookContext) error
