package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/session"
)

var (
	styleBar   = tcell.StyleDefault.Reverse(true)
	styleTilde = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// Draw renders src on the whole screen: the text area, a status bar and
// a message area at the bottom that grows for multi-line messages.
func (t *Terminal) Draw(src Source) {
	w, h := t.screen.Size()
	t.screen.Clear()
	if w <= 0 || h <= 0 {
		t.screen.Show()
		return
	}

	// Snapshot(0) reads the mode and status without scrolling.
	head := src.Snapshot(0)
	messages := messageLines(head, max((h-1)/2, 1))
	rows := max(h-1-len(messages), 0)

	snap := src.Snapshot(rows)
	cx, cy := t.drawText(snap, w, rows)
	if rows < h {
		t.drawBar(snap, w, rows)
	}
	mx, my := t.drawMessages(snap, messages, w, rows+1, h)

	switch {
	case snap.Mode == mode.Command:
		t.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
		t.screen.ShowCursor(mx, my)
	case snap.Mode == mode.Closing || cy < 0:
		t.screen.HideCursor()
	default:
		t.screen.SetCursorStyle(cursorStyle(snap.Mode))
		t.screen.ShowCursor(cx, cy)
	}
	t.screen.Show()
}

func cursorStyle(m mode.Mode) tcell.CursorStyle {
	switch m {
	case mode.Insert:
		return tcell.CursorStyleSteadyBar
	case mode.Replace:
		return tcell.CursorStyleSteadyUnderline
	}
	return tcell.CursorStyleSteadyBlock
}

// drawText draws the visible lines and returns the screen position of
// the primary cursor, or y -1 when it is off screen.
func (t *Terminal) drawText(snap session.Snapshot, w, rows int) (int, int) {
	cx, cy := 0, -1

	// Scroll horizontally so the primary cursor's column fits.
	left := 0
	if row := snap.Cursor.Line - snap.Top; row >= 0 && row < len(snap.Lines) {
		col := t.width(snap.Lines[row], snap.Cursor.Col)
		left = max(col-w+1, 0)
		cx, cy = col-left, row
	}

	name := snap.Path
	if name == "" {
		name = snap.Name
	}
	for y := 0; y < rows; y++ {
		if y >= len(snap.Lines) {
			t.screen.SetContent(0, y, '~', nil, styleTilde)
			continue
		}
		var spans []highlight.Span
		if t.colors != nil {
			spans = t.colors.Line(name, snap.Lines[y])
		}
		t.drawLine(snap, snap.Top+y, snap.Lines[y], spans, y, left, w)
	}
	return cx, cy
}

// drawLine draws one buffer line at screen row y, skipping the first
// left display columns.
func (t *Terminal) drawLine(snap session.Snapshot, line int, text string, spans []highlight.Span, y, left, w int) {
	x := 0
	span := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		from, _ := g.Positions()
		for span < len(spans) && spans[span].End <= from {
			span++
		}
		st := tcell.StyleDefault
		if t.styles != nil && span < len(spans) && spans[span].Start <= from {
			st = t.styles.get(spans[span].Token)
		}
		pos := buffer.Position{Line: line, Col: from}
		if marked(snap, pos) {
			st = st.Reverse(true)
		}

		cluster := g.Str()
		runes := g.Runes()
		cw := runewidth.StringWidth(cluster)
		if cluster == "\t" {
			cw = t.tabWidth - x%t.tabWidth
		}
		for i := 0; i < cw; i++ {
			sx := x + i - left
			if sx < 0 || sx >= w {
				continue
			}
			switch {
			case cluster == "\t":
				t.screen.SetContent(sx, y, ' ', nil, st)
			case i == 0:
				t.screen.SetContent(sx, y, runes[0], runes[1:], st)
			}
		}
		x += cw
	}

	// A selection that covers the newline shows one marked cell past the
	// end of the line.
	if eol := (buffer.Position{Line: line, Col: len(text)}); marked(snap, eol) {
		if sx := x - left; sx >= 0 && sx < w {
			t.screen.SetContent(sx, y, ' ', nil, tcell.StyleDefault.Reverse(true))
		}
	}
}

// marked reports whether pos is selected or holds a secondary cursor.
func marked(snap session.Snapshot, pos buffer.Position) bool {
	for _, r := range snap.Selections {
		if r.Contains(pos) {
			return true
		}
	}
	for i, c := range snap.Cursors {
		if i > 0 && c == pos {
			return true
		}
	}
	return false
}

// width returns the display width of line up to byte column col.
func (t *Terminal) width(line string, col int) int {
	col = min(col, len(line))
	x := 0
	g := uniseg.NewGraphemes(line[:col])
	for g.Next() {
		if s := g.Str(); s == "\t" {
			x += t.tabWidth - x%t.tabWidth
		} else {
			x += runewidth.StringWidth(s)
		}
	}
	return x
}

// drawBar draws the reverse-video status bar at row y.
func (t *Terminal) drawBar(snap session.Snapshot, w, y int) {
	for x := 0; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, styleBar)
	}

	name := snap.Name
	if name == "" {
		name = "[No Name]"
	}
	if snap.Dirty {
		name += " [+]"
	}
	if snap.BufferCount > 1 {
		name = fmt.Sprintf("%s (%d/%d)", name, snap.BufferIndex+1, snap.BufferCount)
	}
	right := fmt.Sprintf("%s  %d,%d ", snap.Pending, snap.Cursor.Line+1, snap.Cursor.Col+1)

	t.drawString(1, y, w, name, styleBar)
	t.drawString(w-runewidth.StringWidth(right), y, w, right, styleBar)
}

// messageLines returns the rows of the message area, at most limit.
func messageLines(snap session.Snapshot, limit int) []string {
	if snap.Mode == mode.Command {
		return []string{":" + snap.CommandLine}
	}
	if snap.Status == "" {
		return []string{snap.Mode.DisplayName()}
	}
	lines := strings.Split(strings.TrimRight(snap.Status, "\n"), "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

// drawMessages draws the message area from row top and returns where
// the command line cursor goes.
func (t *Terminal) drawMessages(snap session.Snapshot, lines []string, w, top, h int) (int, int) {
	for i, line := range lines {
		if top+i >= h {
			break
		}
		t.drawString(0, top+i, w, line, tcell.StyleDefault)
	}
	if snap.Mode != mode.Command {
		return 0, h - 1
	}
	rs := []rune(snap.CommandLine)
	x := 1 + runewidth.StringWidth(string(rs[:min(snap.CommandCursor, len(rs))]))
	return min(x, w-1), min(top, h-1)
}

// drawString draws s from column x, clipped to w.
func (t *Terminal) drawString(x, y, w int, s string, st tcell.Style) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		cw := runewidth.StringWidth(g.Str())
		if x >= 0 && x+cw <= w {
			t.screen.SetContent(x, y, runes[0], runes[1:], st)
		}
		x += cw
	}
}
