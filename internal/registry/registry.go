// Package registry implements the link-time action/command/hook/theme
// registry described in spec §4.6 (C7): immutable snapshots built by a
// Builder and installed via atomic pointer swap, so readers never block on
// writers and never observe a partially-built index.
package registry

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// DuplicatePolicy controls what happens when two definitions register the
// same name within one Builder.
type DuplicatePolicy uint8

const (
	// DuplicatePanic fails the build outright — the default, matching a
	// link-time registry where a colliding name is a programmer error.
	DuplicatePanic DuplicatePolicy = iota
	// DuplicateLastWins keeps whichever definition was pushed last.
	DuplicateLastWins
	// DuplicateByPriority keeps the definition with the highest Priority,
	// breaking ties in favor of the one pushed last.
	DuplicateByPriority
)

// Snapshot is an immutable, fully-indexed collection of definitions. Once
// built it is never mutated; plugin-style augmentation installs a new
// Snapshot rather than editing this one (spec's "Design notes" on registries).
type Snapshot struct {
	actions  map[string]ActionDef
	commands map[string]CommandDef
	hooksBy  map[EventKind][]HookDef
	themes   map[string]ThemeDef
	objects  map[rune]TextObjectDef

	actionAliases  map[string]string
	commandAliases map[string]string
}

func (s *Snapshot) Action(name string) (ActionDef, bool) {
	if a, ok := s.actions[name]; ok {
		return a, true
	}
	if real, ok := s.actionAliases[name]; ok {
		a, ok := s.actions[real]
		return a, ok
	}
	return ActionDef{}, false
}

func (s *Snapshot) Command(name string) (CommandDef, bool) {
	if c, ok := s.commands[name]; ok {
		return c, true
	}
	if real, ok := s.commandAliases[name]; ok {
		c, ok := s.commands[real]
		return c, ok
	}
	return CommandDef{}, false
}

func (s *Snapshot) Theme(name string) (ThemeDef, bool) {
	t, ok := s.themes[name]
	return t, ok
}

// TextObject resolves a text object by its trigger character.
func (s *Snapshot) TextObject(trigger rune) (TextObjectDef, bool) {
	o, ok := s.objects[trigger]
	return o, ok
}

// HooksFor returns the hooks subscribed to event, sorted by descending
// priority (ties broken by registration order, which Builder preserves).
func (s *Snapshot) HooksFor(event EventKind) []HookDef {
	return s.hooksBy[event]
}

// ActionNames returns every registered action name, sorted, for the
// `:reg` registry-inspector command.
func (s *Snapshot) ActionNames() []string {
	names := make([]string, 0, len(s.actions))
	for n := range s.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// CommandNames returns every registered command name, sorted.
func (s *Snapshot) CommandNames() []string {
	names := make([]string, 0, len(s.commands))
	for n := range s.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Builder accumulates definitions for a single Snapshot build pass.
type Builder struct {
	policy DuplicatePolicy

	actions  []ActionDef
	commands []CommandDef
	hooks    []HookDef
	themes   []ThemeDef
	objects  []TextObjectDef
}

// NewBuilder returns a Builder with the given duplicate-resolution policy.
func NewBuilder(policy DuplicatePolicy) *Builder {
	return &Builder{policy: policy}
}

func (b *Builder) PushAction(d ActionDef) *Builder {
	b.actions = append(b.actions, d)
	return b
}

func (b *Builder) PushCommand(d CommandDef) *Builder {
	b.commands = append(b.commands, d)
	return b
}

func (b *Builder) PushHook(d HookDef) *Builder {
	b.hooks = append(b.hooks, d)
	return b
}

func (b *Builder) PushTheme(d ThemeDef) *Builder {
	b.themes = append(b.themes, d)
	return b
}

func (b *Builder) PushTextObject(d TextObjectDef) *Builder {
	b.objects = append(b.objects, d)
	return b
}

// Build resolves duplicates per policy and produces an immutable Snapshot.
// Under DuplicatePanic, a colliding name panics; callers that want
// plugin-style soft-fail augmentation should use DuplicateLastWins or
// DuplicateByPriority instead.
func (b *Builder) Build() *Snapshot {
	s := &Snapshot{
		actions:        make(map[string]ActionDef, len(b.actions)),
		commands:       make(map[string]CommandDef, len(b.commands)),
		hooksBy:        make(map[EventKind][]HookDef),
		themes:         make(map[string]ThemeDef, len(b.themes)),
		objects:        make(map[rune]TextObjectDef),
		actionAliases:  make(map[string]string),
		commandAliases: make(map[string]string),
	}

	for _, a := range b.actions {
		if existing, dup := s.actions[a.Name]; dup {
			a = resolveAction(b.policy, existing, a)
		}
		s.actions[a.Name] = a
		for _, alias := range a.Aliases {
			s.actionAliases[alias] = a.Name
		}
	}

	for _, c := range b.commands {
		if existing, dup := s.commands[c.Name]; dup {
			c = resolveCommand(b.policy, existing, c)
		}
		s.commands[c.Name] = c
		for _, alias := range c.Aliases {
			s.commandAliases[alias] = c.Name
		}
	}

	for _, h := range b.hooks {
		s.hooksBy[h.Event] = append(s.hooksBy[h.Event], h)
	}
	for event, hs := range s.hooksBy {
		hs := hs
		sort.SliceStable(hs, func(i, j int) bool { return hs[i].Priority > hs[j].Priority })
		s.hooksBy[event] = hs
	}

	for _, t := range b.themes {
		s.themes[t.Name] = t
	}

	for _, o := range b.objects {
		for _, trigger := range o.Triggers {
			if existing, dup := s.objects[trigger]; dup && b.policy == DuplicatePanic {
				panic(fmt.Sprintf("registry: text-object trigger %q bound by both %s and %s",
					trigger, existing.Name, o.Name))
			}
			s.objects[trigger] = o
		}
	}

	return s
}

func resolveAction(policy DuplicatePolicy, existing, incoming ActionDef) ActionDef {
	switch policy {
	case DuplicateLastWins:
		return incoming
	case DuplicateByPriority:
		if incoming.Priority >= existing.Priority {
			return incoming
		}
		return existing
	default:
		panic(fmt.Sprintf("registry: duplicate action name %q", incoming.Name))
	}
}

func resolveCommand(policy DuplicatePolicy, existing, incoming CommandDef) CommandDef {
	switch policy {
	case DuplicateLastWins:
		return incoming
	case DuplicateByPriority:
		if incoming.Priority >= existing.Priority {
			return incoming
		}
		return existing
	default:
		panic(fmt.Sprintf("registry: duplicate command name %q", incoming.Name))
	}
}

// Registry owns the currently-installed Snapshot behind an atomic pointer.
// Readers call Current() and hold the returned *Snapshot for the duration
// of a lookup (it never mutates); writers call Install to swap in a new one,
// or CompareAndInstall to CAS it in.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

// New returns a Registry installed with snap.
func New(snap *Snapshot) *Registry {
	r := &Registry{}
	r.current.Store(snap)
	return r
}

// Current returns the currently-installed Snapshot.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Install atomically swaps in a new Snapshot, e.g. after plugin-style
// runtime augmentation rebuilds the index with an extra definition.
func (r *Registry) Install(snap *Snapshot) {
	r.current.Store(snap)
}

// CompareAndInstall installs next only if the currently-installed snapshot
// is still old — used when a writer built next from a read of old and
// wants to detect a concurrent installer rather than clobber it.
func (r *Registry) CompareAndInstall(old, next *Snapshot) bool {
	return r.current.CompareAndSwap(old, next)
}
