package registry

import (
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
)

// ObjectHandler resolves a text object around pos: the word, pair, or
// quoted span the position sits in. around includes the delimiters (or
// surrounding whitespace for words); inner excludes them.
type ObjectHandler func(text rope.Rope, pos selection.CharIdx, around bool) (selection.Range, bool)

// TextObjectDef is a registered text object, looked up by its trigger
// character (the key pressed after an inner/around selector).
type TextObjectDef struct {
	ID          string
	Name        string
	Triggers    []rune
	Description string
	Source      Source
	Handler     ObjectHandler
}
