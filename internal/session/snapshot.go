package session

import (
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/mode"
)

// Snapshot is everything a renderer draws after an event.
type Snapshot struct {
	Mode    mode.Mode
	Pending string

	// Text is the active buffer's content at this moment.
	Text        buffer.Snapshot
	Name        string
	Path        string
	Dirty       bool
	BufferIndex int
	BufferCount int

	// Top is the first visible line; Lines holds the visible lines.
	Top   int
	Lines []string

	Cursor  buffer.Position
	Cursors []buffer.Position

	// Selections holds the Visual mode selection, including the
	// character under the head as d and y do. Empty outside Visual mode.
	Selections []buffer.Range

	CommandLine   string
	CommandCursor int
	Status        string
}

// Snapshot describes the editor for a window of height text lines,
// scrolling so the primary cursor stays visible with scroll_off lines
// of context where the buffer allows.
func (s *Session) Snapshot(height int) Snapshot {
	snap := Snapshot{
		Mode:        s.machine.Mode(),
		Pending:     s.machine.Pending().String(),
		Status:      s.status,
		BufferCount: len(s.views),
	}
	if snap.Mode == mode.Command {
		cl := s.machine.CommandLine()
		snap.CommandLine = cl.Text()
		snap.CommandCursor = cl.Cursor()
	}

	v := s.view()
	if v == nil {
		return snap
	}
	b := v.buf
	snap.Text = b.Snapshot()
	snap.Name = b.Name()
	snap.Path = b.Path()
	snap.Dirty = b.Dirty()
	snap.BufferIndex = s.active
	snap.Cursor = v.cursor.Primary()
	snap.Cursors = v.cursor.Heads()

	if snap.Mode == mode.Visual {
		snap.Selections = []buffer.Range{selection(v)}
	}

	if height > 0 {
		s.scroll(v, height)
		snap.Top = v.top
		snap.Lines = snap.Text.Lines(v.top, v.top+height)
	}
	return snap
}

// scroll moves the view's top line so the primary cursor is visible.
func (s *Session) scroll(v *view, height int) {
	off := min(s.cfg.Editor.ScrollOff, (height-1)/2)
	line := v.cursor.Primary().Line
	if line-off < v.top {
		v.top = line - off
	}
	if line+off >= v.top+height {
		v.top = line + off - height + 1
	}
	v.top = max(min(v.top, v.buf.LineCount()-1), 0)
}
