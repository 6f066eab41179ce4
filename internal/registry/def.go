package registry

// Source tags where a definition came from, for duplicate-resolution
// policy and for `:reg` registry-inspector output (spec §6).
type Source uint8

const (
	SourceBuiltin Source = iota
	SourceUser
	SourcePlugin
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourcePlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// ActionDef is a registered action, motion, or text-object definition
// (spec §4.6). Motions and text objects are modeled as ActionDefs whose
// handler returns ResultMotion — the registry does not distinguish them by
// type, only by the caller-supplied Kind tag, mirroring the teacher's
// single Handler interface serving every dispatcher/handlers/* package.
type ActionDef struct {
	ID           string
	Name         string
	Aliases      []string
	Description  string
	Priority     int16
	Source       Source
	RequiredCaps Set
	Handler      Handler
}

// CommandDef is a registered ex-command (":write", ":quit", ...).
type CommandDef struct {
	ID           string
	Name         string
	Aliases      []string
	Description  string
	Priority     int16
	Source       Source
	RequiredCaps Set
	Handler      Handler
}

// HookDef is a registered hook subscriber for one event kind.
type HookDef struct {
	ID       string
	Name     string
	Event    EventKind
	Priority int16
	Source   Source
	Sync     HookFunc
	Async    AsyncHookFunc

	// Background schedules the async continuation on the hook runtime's
	// background pool instead of the interactive one.
	Background bool
}

// ThemeDef is a named theme (palette + ui + syntax styling); the styling
// payload itself is out of scope for the core (spec §1) — the registry
// only tracks identity (ID, name, source) so the renderer collaborator can
// look a theme up by name.
type ThemeDef struct {
	ID     string
	Name   string
	Source Source
}
