package terminal

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/session"
	"github.com/dshills/modal/internal/vfs"
)

// fakeSource serves a fixed snapshot, slicing lines to the height.
type fakeSource struct {
	snap  session.Snapshot
	lines []string
}

func (f *fakeSource) Snapshot(height int) session.Snapshot {
	s := f.snap
	s.Lines = nil
	if height > 0 {
		end := min(s.Top+height, len(f.lines))
		s.Lines = f.lines[s.Top:end]
	}
	return s
}

func newScreen(t *testing.T, w, h int, opts ...Option) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := New(screen, opts...)
	require.NoError(t, term.Init())
	screen.SetSize(w, h)
	t.Cleanup(term.Fini)
	return term, screen
}

// row returns the text of screen row y with trailing blanks removed.
func row(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; {
		mainc, combc, _, width := screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		sb.WriteRune(mainc)
		for _, r := range combc {
			sb.WriteRune(r)
		}
		x += max(width, 1)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestDrawLayout(t *testing.T) {
	term, screen := newScreen(t, 20, 6)
	src := &fakeSource{
		lines: []string{"one", "two"},
		snap: session.Snapshot{
			Mode:        mode.Normal,
			Name:        "a.txt",
			Dirty:       true,
			BufferCount: 1,
			Cursor:      buffer.Position{Line: 1, Col: 2},
			Cursors:     []buffer.Position{{Line: 1, Col: 2}},
		},
	}

	term.Draw(src)

	assert.Equal(t, "one", row(screen, 0))
	assert.Equal(t, "two", row(screen, 1))
	assert.Equal(t, "~", row(screen, 2))
	assert.Equal(t, "~", row(screen, 3))
	assert.True(t, strings.HasPrefix(row(screen, 4), " a.txt [+]"))
	assert.True(t, strings.HasSuffix(row(screen, 4), "2,3"))

	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)
}

func TestDrawModeAndStatus(t *testing.T) {
	term, screen := newScreen(t, 30, 5)
	src := &fakeSource{lines: []string{"x"}, snap: session.Snapshot{Mode: mode.Insert}}

	term.Draw(src)
	assert.Equal(t, "-- INSERT --", row(screen, 4))

	src.snap.Status = "written"
	term.Draw(src)
	assert.Equal(t, "written", row(screen, 4))
}

func TestDrawMultiLineStatus(t *testing.T) {
	term, screen := newScreen(t, 30, 8)
	src := &fakeSource{
		lines: []string{"text"},
		snap:  session.Snapshot{Mode: mode.Normal, Status: "  1 %a a.txt\n  2    b.txt\n  3    c.txt"},
	}

	term.Draw(src)

	assert.Equal(t, "text", row(screen, 0))
	assert.Equal(t, "  1 %a a.txt", row(screen, 5))
	assert.Equal(t, "  2    b.txt", row(screen, 6))
	assert.Equal(t, "  3    c.txt", row(screen, 7))
}

func TestDrawCommandLine(t *testing.T) {
	term, screen := newScreen(t, 20, 4)
	src := &fakeSource{
		lines: []string{"abc"},
		snap:  session.Snapshot{Mode: mode.Command, CommandLine: "wq", CommandCursor: 1},
	}

	term.Draw(src)

	assert.Equal(t, ":wq", row(screen, 3))
	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 2, x)
	assert.Equal(t, 3, y)
}

func TestDrawTabsAndWideRunes(t *testing.T) {
	term, screen := newScreen(t, 20, 5, WithTabWidth(4))
	src := &fakeSource{
		lines: []string{"\tx", "日本z"},
		snap: session.Snapshot{
			Mode:   mode.Normal,
			Cursor: buffer.Position{Line: 1, Col: len("日本")},
		},
	}

	term.Draw(src)

	assert.Equal(t, "    x", row(screen, 0))
	assert.Equal(t, "日本z", row(screen, 1))
	x, _, _ := screen.GetCursor()
	assert.Equal(t, 4, x)
}

func TestDrawHorizontalScroll(t *testing.T) {
	term, screen := newScreen(t, 10, 3)
	src := &fakeSource{
		lines: []string{"0123456789abcdef"},
		snap:  session.Snapshot{Mode: mode.Normal, Cursor: buffer.Position{Line: 0, Col: 14}},
	}

	term.Draw(src)

	assert.Equal(t, "56789abcde", row(screen, 0))
	x, _, _ := screen.GetCursor()
	assert.Equal(t, 9, x)
}

func TestDrawSelection(t *testing.T) {
	term, screen := newScreen(t, 20, 3)
	src := &fakeSource{
		lines: []string{"hello"},
		snap: session.Snapshot{
			Mode:       mode.Visual,
			Selections: []buffer.Range{{Start: buffer.Position{Line: 0, Col: 1}, End: buffer.Position{Line: 0, Col: 3}}},
		},
	}

	term.Draw(src)

	for x, want := range []bool{false, true, true, false, false} {
		_, _, st, _ := screen.GetContent(x, 0) //nolint:staticcheck // GetContent is the correct API
		_, _, attrs := st.Decompose()
		assert.Equal(t, want, attrs&tcell.AttrReverse != 0, "column %d", x)
	}
}

type fakeColors struct{}

func (fakeColors) Line(_, text string) []highlight.Span {
	return []highlight.Span{{Start: 0, End: len(text), Token: chroma.Keyword}}
}

func (fakeColors) Style() *chroma.Style { return styles.Get("monokai") }

func TestDrawColours(t *testing.T) {
	term, screen := newScreen(t, 20, 3, WithColorizer(fakeColors{}))
	src := &fakeSource{lines: []string{"func"}, snap: session.Snapshot{Mode: mode.Normal}}

	term.Draw(src)

	_, _, st, _ := screen.GetContent(0, 0) //nolint:staticcheck // GetContent is the correct API
	fg, _, _ := st.Decompose()
	assert.NotEqual(t, tcell.ColorDefault, fg)
}

func TestDrawSession(t *testing.T) {
	fsys := vfs.NewMemFS()
	fsys.AddFile("/work/notes.txt", "first\nsecond\n")
	s := session.New(session.WithFS(fsys), session.WithStrict(true))
	require.NoError(t, s.Open("/work/notes.txt"))

	term, screen := newScreen(t, 30, 6)
	for _, ev := range key.MustSequence("jAX<Esc>") {
		require.NoError(t, s.HandleKey(context.Background(), ev))
	}
	term.Draw(s)

	assert.Equal(t, "first", row(screen, 0))
	assert.Equal(t, "secondX", row(screen, 1))
	assert.Equal(t, "", row(screen, 2))
	assert.True(t, strings.HasPrefix(row(screen, 4), " notes.txt [+]"))
}
