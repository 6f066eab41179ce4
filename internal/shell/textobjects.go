package shell

import (
	"fmt"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/registry"
)

// Builtin text objects (spec §4.5 Object pending kind, §4.6 trigger-char
// index): words, bracket pairs, and quoted spans. The object selector
// actions drop the keymap into a pending state; the next character key is
// the trigger looked up in the registry.

func (e *Editor) registerTextObjects(b *registry.Builder) {
	push := func(name string, triggers []rune, h registry.ObjectHandler) {
		b.PushTextObject(registry.TextObjectDef{
			ID: "object." + name, Name: name, Triggers: triggers,
			Source: registry.SourceBuiltin, Handler: h,
		})
	}
	push("word", []rune{'w'}, wordObject)
	push("parens", []rune{'(', ')', 'b'}, pairObject('(', ')'))
	push("brackets", []rune{'[', ']'}, pairObject('[', ']'))
	push("braces", []rune{'{', '}'}, pairObject('{', '}'))
	push("double-quotes", []rune{'"'}, quoteObject('"'))
	push("single-quotes", []rune{'\''}, quoteObject('\''))

	selector := func(name string, around bool) {
		b.PushAction(registry.ActionDef{
			ID: name, Name: name, Source: registry.SourceBuiltin,
			RequiredCaps: registry.Set(registry.CapText | registry.CapSelection),
			Handler: func(ctx registry.ActionContext) registry.ActionResult {
				if !ctx.HasCharArg {
					return registry.Pending(registry.PendingObject)
				}
				obj, ok := e.reg.Current().TextObject(ctx.CharArg)
				if !ok {
					return registry.Error(fmt.Errorf("%w: no text object for %q", dispatch.ErrNotFound, ctx.CharArg))
				}
				sel := perRangeMotion(ctx.Selection, false, func(cur selection.Range) (selection.Range, bool) {
					return obj.Handler(ctx.Text, cur.Head, around)
				})
				return registry.Motion(sel)
			},
		})
	}
	selector("select.inner", false)
	selector("select.around", true)
}

// wordObject selects the word under pos; around extends over the
// following run of spaces.
func wordObject(text rope.Rope, pos selection.CharIdx, around bool) (selection.Range, bool) {
	n := text.LenChars()
	if pos >= n {
		return selection.Range{}, false
	}
	if r, ok := runeAt(text, pos); !ok || !isWordChar(r) {
		return selection.Range{}, false
	}
	start := pos
	for start > 0 {
		r, ok := runeAt(text, start-1)
		if !ok || !isWordChar(r) {
			break
		}
		start--
	}
	end := pos
	for end+1 < n {
		r, ok := runeAt(text, end+1)
		if !ok || !isWordChar(r) {
			break
		}
		end++
	}
	if around {
		for end+1 < n {
			r, ok := runeAt(text, end+1)
			if !ok || r != ' ' {
				break
			}
			end++
		}
	}
	return selection.Range{Anchor: start, Head: end}, true
}

// pairObject selects the span between the innermost open/close pair
// containing pos, tracking nesting.
func pairObject(open, close rune) registry.ObjectHandler {
	return func(text rope.Rope, pos selection.CharIdx, around bool) (selection.Range, bool) {
		n := text.LenChars()
		if n == 0 {
			return selection.Range{}, false
		}
		if pos >= n {
			pos = n - 1
		}

		depth := 0
		var start selection.CharIdx = -1
		for p := pos; p >= 0; p-- {
			r, ok := runeAt(text, p)
			if !ok {
				break
			}
			if r == close && p != pos {
				depth++
			} else if r == open {
				if depth == 0 {
					start = p
					break
				}
				depth--
			}
		}
		if start < 0 {
			return selection.Range{}, false
		}

		depth = 0
		var end selection.CharIdx = -1
		for p := start + 1; p < n; p++ {
			r, ok := runeAt(text, p)
			if !ok {
				break
			}
			if r == open {
				depth++
			} else if r == close {
				if depth == 0 {
					end = p
					break
				}
				depth--
			}
		}
		if end < 0 {
			return selection.Range{}, false
		}

		if around {
			return selection.Range{Anchor: start, Head: end}, true
		}
		if start+1 > end-1 {
			return selection.Range{Anchor: start + 1, Head: start + 1}, true
		}
		return selection.Range{Anchor: start + 1, Head: end - 1}, true
	}
}

// quoteObject selects the span between the nearest quote pair on the
// current line containing pos.
func quoteObject(quote rune) registry.ObjectHandler {
	return func(text rope.Rope, pos selection.CharIdx, around bool) (selection.Range, bool) {
		line := text.CharToLine(pos)
		lineStart := text.LineToChar(line)
		lineEnd := lineEndChar(text, line)

		// Collect quote positions on the line; pairs are consecutive
		// occurrences.
		var quotes []selection.CharIdx
		for p := lineStart; p < lineEnd; p++ {
			if r, ok := runeAt(text, p); ok && r == quote {
				quotes = append(quotes, p)
			}
		}
		for i := 0; i+1 < len(quotes); i += 2 {
			start, end := quotes[i], quotes[i+1]
			if pos >= start && pos <= end {
				if around {
					return selection.Range{Anchor: start, Head: end}, true
				}
				if start+1 > end-1 {
					return selection.Range{Anchor: start + 1, Head: start + 1}, true
				}
				return selection.Range{Anchor: start + 1, Head: end - 1}, true
			}
		}
		return selection.Range{}, false
	}
}
