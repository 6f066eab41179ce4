package shell

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/wisp-editor/wisp/internal/dispatch"
	"github.com/wisp-editor/wisp/internal/engine/rope"
	"github.com/wisp-editor/wisp/internal/engine/selection"
	"github.com/wisp-editor/wisp/internal/registry"
)

// Match is one regex match in character coordinates.
type Match struct {
	Start selection.CharIdx
	End   selection.CharIdx
}

func compilePattern(pat string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatch.ErrParse, err)
	}
	return re, nil
}

// findAllMatches returns every match of pat in doc.
func findAllMatches(doc rope.Rope, pat string) ([]Match, error) {
	re, err := compilePattern(pat)
	if err != nil {
		return nil, err
	}
	text := doc.String()
	var out []Match
	for _, loc := range re.FindAllStringIndex(text, -1) {
		out = append(out, Match{
			Start: selection.CharIdx(utf8.RuneCountInString(text[:loc[0]])),
			End:   selection.CharIdx(utf8.RuneCountInString(text[:loc[1]])),
		})
	}
	return out, nil
}

// findNext returns the first match strictly after from, wrapping to the
// document start.
func findNext(doc rope.Rope, pat string, from selection.CharIdx) (Match, bool, error) {
	matches, err := findAllMatches(doc, pat)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	for _, m := range matches {
		if m.Start > from {
			return m, true, nil
		}
	}
	return matches[0], true, nil
}

// findPrev returns the last match strictly before from, wrapping to the
// document end.
func findPrev(doc rope.Rope, pat string, from selection.CharIdx) (Match, bool, error) {
	matches, err := findAllMatches(doc, pat)
	if err != nil || len(matches) == 0 {
		return Match{}, false, err
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Start < from {
			return matches[i], true, nil
		}
	}
	return matches[len(matches)-1], true, nil
}

// matchesPattern reports whether text matches pat anywhere.
func matchesPattern(text, pat string) (bool, error) {
	re, err := compilePattern(pat)
	if err != nil {
		return false, err
	}
	return re.MatchString(text), nil
}

// searchHandler builds the search.next / search.prev handler: it takes a
// pattern from the invocation args (":search foo" routes here) or falls
// back to the remembered last search.
func (e *Editor) searchHandler(reverse bool) registry.Handler {
	return func(ctx registry.ActionContext) registry.ActionResult {
		pattern := ""
		if len(ctx.Args) > 0 {
			pattern = ctx.Args[0]
		} else if last := e.keys.LastSearch(); last != nil {
			pattern = last.Pattern
		}
		if pattern == "" {
			return registry.Error(fmt.Errorf("%w: no search pattern", dispatch.ErrCommand))
		}

		var (
			m   Match
			ok  bool
			err error
		)
		if reverse {
			m, ok, err = findPrev(ctx.Text, pattern, ctx.Cursor)
		} else {
			m, ok, err = findNext(ctx.Text, pattern, ctx.Cursor)
		}
		if err != nil {
			return registry.Error(err)
		}
		if !ok {
			return registry.Error(fmt.Errorf("%w: no match for %q", dispatch.ErrCommand, pattern))
		}

		e.keys.SetLastSearch(pattern, reverse)
		head := m.End
		if head > m.Start {
			head-- // land the cursor on the match's last character
		}
		sel := ctx.Selection
		if ctx.Extend {
			sel = sel.Transform(func(cur selection.Range) selection.Range {
				if cur != sel.Primary() {
					return cur
				}
				return selection.Range{Anchor: cur.Anchor, Head: head}
			})
		} else {
			sel = selection.New(selection.Range{Anchor: m.Start, Head: head}, nil)
		}
		return registry.Motion(sel)
	}
}
