package terminal

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modal/internal/highlight"
)

// Colorizer supplies syntax spans and the style that colours them.
// *highlight.Highlighter satisfies it.
type Colorizer interface {
	Line(name, text string) []highlight.Span
	Style() *chroma.Style
}

// tokenStyle converts a chroma style entry to a tcell style.
func tokenStyle(style *chroma.Style, tt chroma.TokenType) tcell.Style {
	s := tcell.StyleDefault
	if style == nil {
		return s
	}
	e := style.Get(tt)
	if e.Colour.IsSet() {
		s = s.Foreground(convertColour(e.Colour))
	}
	if e.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if e.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if e.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}

func convertColour(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

// styler caches tcell styles per token type for one style.
type styler struct {
	style *chroma.Style
	cache map[chroma.TokenType]tcell.Style
}

func newStyler(style *chroma.Style) *styler {
	return &styler{style: style, cache: make(map[chroma.TokenType]tcell.Style)}
}

func (s *styler) get(tt chroma.TokenType) tcell.Style {
	if st, ok := s.cache[tt]; ok {
		return st
	}
	st := tokenStyle(s.style, tt)
	s.cache[tt] = st
	return st
}
