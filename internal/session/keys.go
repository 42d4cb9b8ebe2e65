package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/modal/internal/command"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/engine/cursor"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// HandleKey processes one key event to completion. The returned error
// is that of a command line the key executed; it is also on the status
// line. Keys the current mode does not bind change nothing.
func (s *Session) HandleKey(ctx context.Context, ev key.Event) error {
	if s.Closed() {
		return ErrClosed
	}
	from := s.machine.Mode()
	a := s.machine.Handle(ev)
	if !a.Handled {
		s.log.Debug().Stringer("key", ev).Stringer("mode", from).Msg("unhandled key")
		return nil
	}
	if a.Kind == mode.ActExecute {
		return s.Execute(ctx, a.Text)
	}
	if v := s.view(); v != nil {
		s.apply(v, a)
	}
	return nil
}

// apply performs a buffer or cursor action.
func (s *Session) apply(v *view, a mode.Action) {
	b := v.buf
	switch a.Kind {
	case mode.ActMove:
		for i := 0; i < a.Count; i++ {
			v.cursor.MoveBy(a.Motion)
		}
	case mode.ActExtend:
		for i := 0; i < a.Count; i++ {
			v.cursor.ExtendSelection(a.Motion)
		}
	case mode.ActGotoLine:
		s.gotoLine(v, a.Count)

	case mode.ActEnterInsert:
		s.status = ""
		s.enterInsert(v, a.Variant)
	case mode.ActEnterReplace:
		s.status = ""
		b.Begin(v.cursor.Primary())
	case mode.ActLeaveInsert:
		b.Commit(v.cursor.Primary())
	case mode.ActOpenCommand:
		s.status = ""
	case mode.ActStartVisual:
		v.cursor.ClearSelections()
	case mode.ActCancelVisual:
		v.cursor.ClearSelections()

	case mode.ActInsertText:
		s.eachCursorLogged(v, "insert", func(p buffer.Position) error {
			_, err := b.Insert(p, a.Text)
			return err
		})
	case mode.ActInsertTab:
		s.eachCursorLogged(v, "tab", func(p buffer.Position) error {
			_, err := b.Insert(p, s.tabText(b, p))
			return err
		})
	case mode.ActBackspace:
		s.eachCursorLogged(v, "backspace", func(p buffer.Position) error {
			return s.backspace(b, p)
		})
	case mode.ActDeleteForward:
		s.eachCursorLogged(v, "delete", func(p buffer.Position) error {
			return s.deleteForward(b, p)
		})
	case mode.ActOverwrite:
		s.eachCursorLogged(v, "overwrite", func(p buffer.Position) error {
			return s.overwrite(b, p, a.Text)
		})

	case mode.ActDeleteChar:
		s.deleteChars(v, a.Count)
	case mode.ActDeleteLine:
		s.deleteLines(v, a.Count)
	case mode.ActDeleteToEnd:
		s.deleteToEnd(v, a.Count)
	case mode.ActYankLine:
		s.yankLines(v, a.Count)
	case mode.ActPutAfter:
		s.put(v, true, a.Count)
	case mode.ActPutBefore:
		s.put(v, false, a.Count)
	case mode.ActUndo:
		s.undo(v, a.Count)
	case mode.ActRedo:
		s.redo(v, a.Count)

	case mode.ActVisualDelete:
		s.visualDelete(v)
	case mode.ActVisualYank:
		s.visualYank(v)
	}
}

// change runs fn as one undo transaction.
func (s *Session) change(v *view, fn func()) {
	v.buf.Begin(v.cursor.Primary())
	fn()
	v.buf.Commit(v.cursor.Primary())
}

// eachCursor calls fn with every cursor head in order. Heads are read
// again before each call, so edits made for one cursor shift the ones
// still to come.
func (s *Session) eachCursor(v *view, fn func(p buffer.Position) error) error {
	for i := 0; i < v.cursor.Count(); i++ {
		if err := fn(v.cursor.Heads()[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) eachCursorLogged(v *view, op string, fn func(p buffer.Position) error) {
	s.contract(op, s.eachCursor(v, fn))
}

func (s *Session) enterInsert(v *view, variant rune) {
	b := v.buf
	b.Begin(v.cursor.Primary())
	switch variant {
	case 'a':
		v.cursor.MoveBy(cursor.CharRight)
	case 'A':
		v.cursor.MoveBy(cursor.LineEnd)
	case 'I':
		v.cursor.MoveBy(cursor.FirstNonBlank)
	case 'o':
		v.cursor.Collapse()
		line := v.cursor.Primary().Line
		end, err := b.Insert(buffer.Pos(line, b.LineLen(line)), "\n")
		s.contract("open-below", err)
		v.cursor.MoveTo(end)
	case 'O':
		v.cursor.Collapse()
		line := v.cursor.Primary().Line
		_, err := b.Insert(buffer.Pos(line, 0), "\n")
		s.contract("open-above", err)
		v.cursor.MoveTo(buffer.Pos(line, 0))
	}
}

// tabText returns what Tab inserts at p: a tab, or spaces up to the
// next tab stop when expand_tab is set.
func (s *Session) tabText(b *buffer.Buffer, p buffer.Position) string {
	if !s.cfg.Editor.ExpandTab {
		return "\t"
	}
	line, _ := b.Line(p.Line)
	tw := s.cfg.Editor.TabWidth
	return strings.Repeat(" ", tw-displayWidth(line[:p.Col], tw)%tw)
}

// displayWidth returns the number of terminal columns s occupies, with
// tabs expanded to tabWidth stops.
func displayWidth(s string, tabWidth int) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tabWidth - w%tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// backspace deletes the character before p, joining with the previous
// line at column 0.
func (s *Session) backspace(b *buffer.Buffer, p buffer.Position) error {
	if p.Col == 0 {
		if p.Line == 0 {
			return nil
		}
		_, err := b.Delete(buffer.Range{Start: buffer.Pos(p.Line-1, b.LineLen(p.Line-1)), End: p})
		return err
	}
	line, _ := b.Line(p.Line)
	_, err := b.Delete(buffer.Range{Start: buffer.Pos(p.Line, cursor.PrevBoundary(line, p.Col)), End: p})
	return err
}

// deleteForward deletes the character at p, joining the next line at
// the end of a line.
func (s *Session) deleteForward(b *buffer.Buffer, p buffer.Position) error {
	line, _ := b.Line(p.Line)
	end := buffer.Pos(p.Line, cursor.NextBoundary(line, p.Col))
	if p.Col >= len(line) {
		if p.Line+1 >= b.LineCount() {
			return nil
		}
		end = buffer.Pos(p.Line+1, 0)
	}
	_, err := b.Delete(buffer.Range{Start: p, End: end})
	return err
}

// overwrite replaces the character at p with text, or appends at the
// end of the line.
func (s *Session) overwrite(b *buffer.Buffer, p buffer.Position, text string) error {
	line, _ := b.Line(p.Line)
	if p.Col < len(line) {
		r := buffer.Range{Start: p, End: buffer.Pos(p.Line, cursor.NextBoundary(line, p.Col))}
		if _, err := b.Delete(r); err != nil {
			return err
		}
	}
	_, err := b.Insert(p, text)
	return err
}

// deleteChars is x: delete count characters under each cursor, never
// past the end of the line.
func (s *Session) deleteChars(v *view, count int) {
	b := v.buf
	var yanked string
	s.change(v, func() {
		first := true
		s.eachCursorLogged(v, "delete-char", func(p buffer.Position) error {
			primary := first
			first = false
			line, _ := b.Line(p.Line)
			end := p.Col
			for i := 0; i < count; i++ {
				end = cursor.NextBoundary(line, end)
			}
			if end == p.Col {
				return nil
			}
			text, err := b.Delete(buffer.Range{Start: p, End: buffer.Pos(p.Line, end)})
			if primary {
				yanked = text
			}
			return err
		})
	})
	if yanked != "" {
		s.Yank(yanked, false)
	}
}

// lineSpan returns the inclusive line range of count lines from the
// primary cursor.
func lineSpan(v *view, count int) (from, to int) {
	from = v.cursor.Primary().Line
	return from, min(from+count-1, v.buf.LineCount()-1)
}

func (s *Session) deleteLines(v *view, count int) {
	v.cursor.Collapse()
	b := v.buf
	from, to := lineSpan(v, count)
	r, text := command.LineSpan(b, from, to)
	s.change(v, func() {
		_, err := b.Delete(r)
		s.contract("delete-line", err)
	})
	s.Yank(text, true)
	s.GotoLine(min(from, b.LineCount()-1))
	if n := to - from + 1; n >= 3 {
		s.status = fmt.Sprintf("%d fewer lines", n)
	}
}

// deleteToEnd is D: delete to the end of the line, and through count-1
// more lines.
func (s *Session) deleteToEnd(v *view, count int) {
	v.cursor.Collapse()
	b := v.buf
	p := v.cursor.Primary()
	_, last := lineSpan(v, count)
	r := buffer.Range{Start: p, End: buffer.Pos(last, b.LineLen(last))}
	if r.IsEmpty() {
		return
	}
	var text string
	s.change(v, func() {
		var err error
		text, err = b.Delete(r)
		s.contract("delete-to-end", err)
	})
	s.Yank(text, false)
}

func (s *Session) yankLines(v *view, count int) {
	from, to := lineSpan(v, count)
	_, text := command.LineSpan(v.buf, from, to)
	s.Yank(text, true)
	if n := to - from + 1; n >= 3 {
		s.status = fmt.Sprintf("%d lines yanked", n)
	}
}

// put is p (after) and P (before): insert the register count times.
// Linewise text goes on its own lines and the cursor lands on the first
// non-blank of the first new line; other text goes next to the cursor,
// which ends on its last character.
func (s *Session) put(v *view, after bool, count int) {
	reg := s.register
	if reg.Text == "" {
		s.status = "nothing in register"
		return
	}
	v.cursor.Collapse()
	b := v.buf
	p := v.cursor.Primary()

	if reg.Linewise {
		text := reg.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text = strings.Repeat(text, count)
		target := p.Line
		s.change(v, func() {
			var err error
			switch {
			case !after:
				_, err = b.Insert(buffer.Pos(p.Line, 0), text)
			case p.Line+1 < b.LineCount():
				_, err = b.Insert(buffer.Pos(p.Line+1, 0), text)
				target = p.Line + 1
			default:
				_, err = b.Insert(b.End(), "\n"+strings.TrimSuffix(text, "\n"))
				target = p.Line + 1
			}
			s.contract("put", err)
			s.GotoLine(target)
		})
		return
	}

	at := p
	if after {
		line, _ := b.Line(p.Line)
		at.Col = cursor.NextBoundary(line, p.Col)
	}
	s.change(v, func() {
		end, err := b.Insert(at, strings.Repeat(reg.Text, count))
		s.contract("put", err)
		v.cursor.MoveTo(end)
		v.cursor.MoveBy(cursor.CharLeft)
	})
}

func (s *Session) undo(v *view, count int) {
	for i := 0; i < count; i++ {
		pos, err := v.buf.Undo()
		if errors.Is(err, buffer.ErrNothingToUndo) {
			s.status = "Already at oldest change"
			return
		}
		s.contract("undo", err)
		v.cursor.MoveTo(pos)
	}
}

func (s *Session) redo(v *view, count int) {
	for i := 0; i < count; i++ {
		pos, err := v.buf.Redo()
		if errors.Is(err, buffer.ErrNothingToRedo) {
			s.status = "Already at newest change"
			return
		}
		s.contract("redo", err)
		v.cursor.MoveTo(pos)
	}
}

// gotoLine handles G and gg: target is the 1-based line, or 0 for the
// last line. In Visual mode the selection is extended instead.
func (s *Session) gotoLine(v *view, target int) {
	last := v.buf.LineCount() - 1
	line := last
	if target > 0 {
		line = min(target-1, last)
	}
	if s.machine.Mode() == mode.Visual {
		v.cursor.ExtendTo(buffer.Pos(line, 0))
		v.cursor.ExtendSelection(cursor.FirstNonBlank)
		return
	}
	s.GotoLine(line)
}

// selection returns the primary selection as Visual mode sees it: both
// ends inclusive, so the character under the head is part of it. A
// head past the end of a line takes the line break.
func selection(v *view) buffer.Range {
	b := v.buf
	sel := v.cursor.PrimarySelection()
	start, end := sel.Start(), sel.End()
	line, _ := b.Line(end.Line)
	switch {
	case end.Col < len(line):
		end.Col = cursor.NextBoundary(line, end.Col)
	case end.Line+1 < b.LineCount():
		end = buffer.Pos(end.Line+1, 0)
	}
	return buffer.Range{Start: start, End: end}
}

func (s *Session) visualDelete(v *view) {
	r := selection(v)
	v.cursor.MoveTo(r.Start)
	var text string
	s.change(v, func() {
		var err error
		text, err = v.buf.Delete(r)
		s.contract("visual-delete", err)
	})
	if text != "" {
		s.Yank(text, false)
	}
}

func (s *Session) visualYank(v *view) {
	r := selection(v)
	text, err := v.buf.TextRange(r)
	s.contract("visual-yank", err)
	v.cursor.MoveTo(r.Start)
	if text != "" {
		s.Yank(text, false)
	}
}
