package cursor

import (
	"unicode/utf8"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/engine/text"
)

// Model owns the cursors of one buffer view and moves them over a Text.
// Every motion clamps at the edges of the text; nothing here fails.
type Model struct {
	text Text
	set  *Set

	// goal is the desired grapheme column kept across vertical motions,
	// or -1 when the next vertical motion should take it from the head.
	goal int
}

// NewModel creates a model with one cursor at (0, 0).
func NewModel(t Text) *Model {
	return &Model{text: t, set: NewSet(Position{}), goal: -1}
}

// SetText points the model at another text and re-clamps the cursors.
func (m *Model) SetText(t Text) {
	m.text = t
	m.Clamp()
}

// Primary returns the primary cursor's head position.
func (m *Model) Primary() Position {
	return m.set.Primary().Head
}

// PrimarySelection returns the primary selection.
func (m *Model) PrimarySelection() Selection {
	return m.set.Primary()
}

// All returns a copy of all selections.
func (m *Model) All() []Selection {
	return m.set.All()
}

// Heads returns every cursor position, in order.
func (m *Model) Heads() []Position {
	out := make([]Position, 0, m.set.Count())
	for _, sel := range m.set.selections {
		out = append(out, sel.Head)
	}
	return out
}

// Count returns the number of cursors.
func (m *Model) Count() int {
	return m.set.Count()
}

// MoveTo collapses to a single cursor at p, clamped.
func (m *Model) MoveTo(p Position) {
	m.set.Set(NewCursorSelection(m.clamp(p)))
	m.goal = -1
}

// AddCursor adds a cursor at p, clamped. A cursor already there is
// merged.
func (m *Model) AddCursor(p Position) {
	m.set.Add(NewCursorSelection(m.clamp(p)))
}

// Collapse drops every cursor but the primary one and clears its
// selection.
func (m *Model) Collapse() {
	m.set.Set(m.set.Primary().Collapse())
}

// ClearSelections collapses every selection to its head. Entering
// Visual mode uses it too: the collapsed head becomes the anchor that
// ExtendSelection leaves in place.
func (m *Model) ClearSelections() {
	m.set.Map(Selection.Collapse)
}

// HasSelection returns true if any selection is non-empty.
func (m *Model) HasSelection() bool {
	return m.set.HasSelection()
}

// MoveBy moves every cursor by mo and collapses their selections.
func (m *Model) MoveBy(mo Motion) {
	goal := m.goalFor(mo)
	m.set.Map(func(sel Selection) Selection {
		return sel.MoveTo(m.clamp(m.move(sel.Head, mo, goal)))
	})
	m.keepGoal(mo, goal)
}

// ExtendSelection moves only the heads by mo, keeping the anchors.
func (m *Model) ExtendSelection(mo Motion) {
	goal := m.goalFor(mo)
	m.set.Map(func(sel Selection) Selection {
		return sel.Extend(m.clamp(m.move(sel.Head, mo, goal)))
	})
	m.keepGoal(mo, goal)
}

// ExtendTo moves every head to p, clamped, keeping the anchors.
func (m *Model) ExtendTo(p Position) {
	p = m.clamp(p)
	m.set.Map(func(sel Selection) Selection {
		return sel.Extend(p)
	})
	m.goal = -1
}

func (m *Model) goalFor(mo Motion) int {
	if !mo.Vertical() {
		return -1
	}
	if m.goal >= 0 {
		return m.goal
	}
	h := m.set.Primary().Head
	return graphemeIndex(line(m.text, h.Line), h.Col)
}

func (m *Model) keepGoal(mo Motion, goal int) {
	if mo.Vertical() {
		m.goal = goal
	} else {
		m.goal = -1
	}
}

// Clamp pulls every cursor back inside the text.
func (m *Model) Clamp() {
	m.set.Map(func(sel Selection) Selection {
		return Selection{Anchor: m.clamp(sel.Anchor), Head: m.clamp(sel.Head)}
	})
}

// Remap updates every cursor after c was applied to the text. Positions
// before the edit stay, positions at or after its end shift with it and
// positions inside the replaced text collapse to its start.
func (m *Model) Remap(c buffer.Change) {
	m.set.Map(func(sel Selection) Selection {
		return Selection{
			Anchor: m.clamp(RemapPosition(sel.Anchor, c)),
			Head:   m.clamp(RemapPosition(sel.Head, c)),
		}
	})
}

// RemapPosition maps p from pre-edit to post-edit coordinates.
func RemapPosition(p Position, c buffer.Change) Position {
	switch {
	case p.Before(c.Start):
		return p
	case p.Before(c.OldEnd):
		return c.Start
	case p.Line == c.OldEnd.Line:
		return Position{Line: c.NewEnd.Line, Col: c.NewEnd.Col + p.Col - c.OldEnd.Col}
	default:
		return Position{Line: p.Line + c.NewEnd.Line - c.OldEnd.Line, Col: p.Col}
	}
}

func (m *Model) clamp(p Position) Position {
	n := m.text.LineCount()
	p.Line = min(max(p.Line, 0), n-1)
	s := line(m.text, p.Line)
	p.Col = text.SnapToRune(s, p.Col)
	return p
}

// move returns where mo takes p.
func (m *Model) move(p Position, mo Motion, goal int) Position {
	p = m.clamp(p)
	s := line(m.text, p.Line)
	last := m.text.LineCount() - 1

	switch mo {
	case CharLeft:
		p.Col = PrevBoundary(s, p.Col)
	case CharRight:
		p.Col = NextBoundary(s, p.Col)
	case LineUp:
		if p.Line > 0 {
			p.Line--
			p.Col = graphemeOffset(line(m.text, p.Line), goal)
		}
	case LineDown:
		if p.Line < last {
			p.Line++
			p.Col = graphemeOffset(line(m.text, p.Line), goal)
		}
	case WordForward:
		p = m.wordForward(p)
	case WordBackward:
		p = m.wordBackward(p)
	case WordEnd:
		p = m.wordEnd(p)
	case LineStart:
		p.Col = 0
	case FirstNonBlank:
		p.Col = FirstNonBlankCol(s)
	case LineEnd:
		p.Col = len(s)
	case BufferStart:
		p = Position{}
	case BufferEnd:
		p = Position{Line: last, Col: FirstNonBlankCol(line(m.text, last))}
	}
	return p
}

// walker steps through the text one character at a time, treating each
// line end as a single whitespace character.
type walker struct {
	t    Text
	p    Position
	line string
}

func newWalker(t Text, p Position) *walker {
	return &walker{t: t, p: p, line: line(t, p.Line)}
}

func (w *walker) class() charClass {
	if w.p.Col >= len(w.line) {
		return classSpace
	}
	r, _ := utf8.DecodeRuneInString(w.line[w.p.Col:])
	return classOf(r)
}

// emptyLine reports whether the walker sits on an empty line, which
// word motions treat as a word of its own.
func (w *walker) emptyLine() bool {
	return len(w.line) == 0
}

func (w *walker) next() bool {
	if w.p.Col < len(w.line) {
		w.p.Col = NextBoundary(w.line, w.p.Col)
		return true
	}
	if w.p.Line+1 >= w.t.LineCount() {
		return false
	}
	w.p = Position{Line: w.p.Line + 1}
	w.line = line(w.t, w.p.Line)
	return true
}

func (w *walker) prev() bool {
	if w.p.Col > 0 {
		w.p.Col = PrevBoundary(w.line, w.p.Col)
		return true
	}
	if w.p.Line == 0 {
		return false
	}
	w.p.Line--
	w.line = line(w.t, w.p.Line)
	w.p.Col = len(w.line)
	return true
}

func (m *Model) wordForward(p Position) Position {
	w := newWalker(m.text, p)
	start := w.class()
	if start != classSpace {
		for w.class() == start {
			if !w.next() {
				return w.p
			}
		}
	}
	for w.class() == classSpace {
		if !w.next() {
			return w.p
		}
		if w.emptyLine() {
			return w.p
		}
	}
	return w.p
}

func (m *Model) wordEnd(p Position) Position {
	w := newWalker(m.text, p)
	if !w.next() {
		return p
	}
	for w.class() == classSpace {
		if !w.next() {
			return w.p
		}
	}
	c := w.class()
	for {
		save := *w
		if !w.next() || w.class() != c {
			return save.p
		}
	}
}

func (m *Model) wordBackward(p Position) Position {
	w := newWalker(m.text, p)
	if !w.prev() {
		return p
	}
	for w.class() == classSpace && !(w.emptyLine() && w.p != p) {
		if !w.prev() {
			return w.p
		}
	}
	c := w.class()
	if c == classSpace {
		return w.p
	}
	for {
		save := *w
		if !w.prev() || w.class() != c || w.p.Line != save.p.Line {
			return save.p
		}
	}
}
