package termio

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the resolved color set the renderer draws with. Theme files
// declare colors as hex strings; ResolveTheme parses them through
// go-colorful so palette aliases stay in one color space.
type Theme struct {
	Name string

	Foreground colorful.Color
	Background colorful.Color
	Selection  colorful.Color
	CursorBg   colorful.Color
	StatusFg   colorful.Color
	StatusBg   colorful.Color
	NoteWarn   colorful.Color
	NoteError  colorful.Color
}

// DefaultTheme is the builtin fallback palette.
func DefaultTheme() Theme {
	t, _ := ResolveTheme("default", map[string]string{
		"foreground": "#c8ccd4",
		"background": "#1e222a",
		"selection":  "#3e4451",
		"cursor":     "#528bff",
		"status-fg":  "#1e222a",
		"status-bg":  "#98c379",
		"warn":       "#e5c07b",
		"error":      "#e06c75",
	})
	return t
}

// ResolveTheme parses a flat name→hex map into a Theme; unknown keys are
// ignored. Keys missing from colors are left at the zero color (black);
// they are not filled in from DefaultTheme.
func ResolveTheme(name string, colors map[string]string) (Theme, error) {
	t := Theme{Name: name}
	assign := map[string]*colorful.Color{
		"foreground": &t.Foreground,
		"background": &t.Background,
		"selection":  &t.Selection,
		"cursor":     &t.CursorBg,
		"status-fg":  &t.StatusFg,
		"status-bg":  &t.StatusBg,
		"warn":       &t.NoteWarn,
		"error":      &t.NoteError,
	}
	for k, hex := range colors {
		dst, ok := assign[k]
		if !ok {
			continue
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return t, fmt.Errorf("termio: theme %s color %s: %w", name, k, err)
		}
		*dst = c
	}
	return t, nil
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// styles precomputes the tcell styles for one theme.
type styles struct {
	base   tcell.Style
	status tcell.Style
	warn   tcell.Style
	err    tcell.Style
}

func stylesFor(t Theme) styles {
	base := tcell.StyleDefault.Foreground(toTcell(t.Foreground)).Background(toTcell(t.Background))
	return styles{
		base:   base,
		status: tcell.StyleDefault.Foreground(toTcell(t.StatusFg)).Background(toTcell(t.StatusBg)),
		warn:   base.Foreground(toTcell(t.NoteWarn)),
		err:    base.Foreground(toTcell(t.NoteError)),
	}
}
