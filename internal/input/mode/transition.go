package mode

import (
	"github.com/dshills/modal/internal/engine/cursor"
	"github.com/dshills/modal/internal/input/key"
)

// maxCount caps count prefixes.
const maxCount = 99999

// Transition is the complete transition table. It is a pure function:
// given the current state, the pending prefix and a key, it returns the
// action to perform and the next state. Unlisted pairs return an
// unhandled ActNone and the unchanged state; a pending prefix is dropped
// in that case, as Vim does.
func Transition(state Mode, pending Pending, ev key.Event) (Action, Mode) {
	switch state {
	case Normal:
		return normal(pending, ev)
	case Insert:
		return insert(ev)
	case Replace:
		return replace(ev)
	case Visual:
		return visual(pending, ev)
	case Command:
		return command(ev)
	}
	return unhandled(), state
}

func unhandled() Action {
	return Action{Kind: ActNone}
}

func handled(kind ActionKind) Action {
	return Action{Kind: kind, Handled: true, Count: 1}
}

// motionFor maps the motion keys shared by Normal and Visual mode.
func motionFor(ev key.Event) (cursor.Motion, bool) {
	if ev.IsRune() && !ev.IsModified() {
		switch ev.Rune {
		case 'h':
			return cursor.CharLeft, true
		case 'l':
			return cursor.CharRight, true
		case 'k':
			return cursor.LineUp, true
		case 'j':
			return cursor.LineDown, true
		case 'w':
			return cursor.WordForward, true
		case 'b':
			return cursor.WordBackward, true
		case 'e':
			return cursor.WordEnd, true
		case '0':
			return cursor.LineStart, true
		case '^':
			return cursor.FirstNonBlank, true
		case '$':
			return cursor.LineEnd, true
		}
		return 0, false
	}
	return arrowMotion(ev)
}

func arrowMotion(ev key.Event) (cursor.Motion, bool) {
	switch {
	case ev.IsKey(key.KeyLeft):
		return cursor.CharLeft, true
	case ev.IsKey(key.KeyRight):
		return cursor.CharRight, true
	case ev.IsKey(key.KeyUp):
		return cursor.LineUp, true
	case ev.IsKey(key.KeyDown):
		return cursor.LineDown, true
	case ev.IsKey(key.KeyHome):
		return cursor.LineStart, true
	case ev.IsKey(key.KeyEnd):
		return cursor.LineEnd, true
	}
	return 0, false
}

// countDigit handles a digit typed as part of a count prefix. '0' only
// counts after another digit; on its own it is the line-start motion.
func countDigit(p Pending, ev key.Event) (Pending, bool) {
	if !ev.IsRune() || ev.IsModified() || ev.Rune < '0' || ev.Rune > '9' || p.Op != 0 {
		return p, false
	}
	if ev.Rune == '0' && p.Count == 0 {
		return p, false
	}
	p.Count = min(p.Count*10+int(ev.Rune-'0'), maxCount)
	return p, true
}

// gotoLine builds the action for G and gg. With a count it targets that
// line; G alone targets the last line and gg alone the first.
func gotoLine(p Pending, first bool) Action {
	a := handled(ActGotoLine)
	a.Count = p.Count
	if a.Count == 0 && first {
		a.Count = 1
	}
	return a
}

func normal(p Pending, ev key.Event) (Action, Mode) {
	if np, ok := countDigit(p, ev); ok {
		a := handled(ActPending)
		a.Pending = np
		return a, Normal
	}

	if ev.IsKey(key.KeyEscape) && !p.IsZero() {
		return handled(ActNone), Normal
	}

	// Second key of a two-key command.
	switch p.Op {
	case 'g':
		if ev.Is('g') {
			return gotoLine(p, true), Normal
		}
		return unhandled(), Normal
	case 'd':
		if ev.Is('d') {
			a := handled(ActDeleteLine)
			a.Count = p.count()
			return a, Normal
		}
		return unhandled(), Normal
	case 'y':
		if ev.Is('y') {
			a := handled(ActYankLine)
			a.Count = p.count()
			return a, Normal
		}
		return unhandled(), Normal
	}

	if m, ok := motionFor(ev); ok {
		a := handled(ActMove)
		a.Motion = m
		a.Count = p.count()
		return a, Normal
	}

	if ev.IsCtrl('r') {
		a := handled(ActRedo)
		a.Count = p.count()
		return a, Normal
	}

	if ev.IsKey(key.KeyDelete) {
		a := handled(ActDeleteChar)
		a.Count = p.count()
		return a, Normal
	}

	if !ev.IsRune() || ev.IsModified() {
		return unhandled(), Normal
	}

	switch ev.Rune {
	case 'i', 'a', 'A', 'I', 'o', 'O':
		a := handled(ActEnterInsert)
		a.Variant = ev.Rune
		return a, Insert
	case 'R':
		return handled(ActEnterReplace), Replace
	case ':':
		return handled(ActOpenCommand), Command
	case 'v':
		return handled(ActStartVisual), Visual
	case 'G':
		return gotoLine(p, false), Normal
	case 'g', 'd', 'y':
		a := handled(ActPending)
		a.Pending = Pending{Count: p.Count, Op: ev.Rune}
		return a, Normal
	case 'x':
		a := handled(ActDeleteChar)
		a.Count = p.count()
		return a, Normal
	case 'D':
		return handled(ActDeleteToEnd), Normal
	case 'p':
		a := handled(ActPutAfter)
		a.Count = p.count()
		return a, Normal
	case 'P':
		a := handled(ActPutBefore)
		a.Count = p.count()
		return a, Normal
	case 'u':
		a := handled(ActUndo)
		a.Count = p.count()
		return a, Normal
	}
	return unhandled(), Normal
}

func insert(ev key.Event) (Action, Mode) {
	switch {
	case ev.IsKey(key.KeyEscape):
		return handled(ActLeaveInsert), Normal
	case ev.IsPrintable():
		a := handled(ActInsertText)
		a.Text = string(ev.Rune)
		return a, Insert
	case ev.IsKey(key.KeyEnter):
		a := handled(ActInsertText)
		a.Text = "\n"
		return a, Insert
	case ev.IsKey(key.KeyTab):
		return handled(ActInsertTab), Insert
	case ev.IsKey(key.KeyBackspace):
		return handled(ActBackspace), Insert
	case ev.IsKey(key.KeyDelete):
		return handled(ActDeleteForward), Insert
	}
	if m, ok := arrowMotion(ev); ok {
		a := handled(ActMove)
		a.Motion = m
		return a, Insert
	}
	return unhandled(), Insert
}

func replace(ev key.Event) (Action, Mode) {
	switch {
	case ev.IsKey(key.KeyEscape):
		return handled(ActLeaveInsert), Normal
	case ev.IsPrintable():
		a := handled(ActOverwrite)
		a.Text = string(ev.Rune)
		return a, Replace
	}
	return unhandled(), Replace
}

func visual(p Pending, ev key.Event) (Action, Mode) {
	if np, ok := countDigit(p, ev); ok {
		a := handled(ActPending)
		a.Pending = np
		return a, Visual
	}
	if ev.IsKey(key.KeyEscape) {
		return handled(ActCancelVisual), Normal
	}
	if p.Op == 'g' {
		if ev.Is('g') {
			return gotoLine(p, true), Visual
		}
		return unhandled(), Visual
	}

	if m, ok := motionFor(ev); ok {
		a := handled(ActExtend)
		a.Motion = m
		a.Count = p.count()
		return a, Visual
	}
	switch {
	case ev.Is('v'):
		return handled(ActCancelVisual), Normal
	case ev.Is('d'), ev.Is('x'), ev.IsKey(key.KeyDelete):
		return handled(ActVisualDelete), Normal
	case ev.Is('y'):
		return handled(ActVisualYank), Normal
	case ev.Is('g'):
		a := handled(ActPending)
		a.Pending = Pending{Count: p.Count, Op: 'g'}
		return a, Visual
	case ev.Is('G'):
		return gotoLine(p, false), Visual
	}
	return unhandled(), Visual
}

func command(ev key.Event) (Action, Mode) {
	switch {
	case ev.IsKey(key.KeyEscape):
		return handled(ActCancelCommand), Normal
	case ev.IsKey(key.KeyEnter):
		return handled(ActExecute), Normal
	case ev.IsPrintable():
		a := handled(ActCmdInsert)
		a.Text = string(ev.Rune)
		return a, Command
	case ev.IsKey(key.KeyBackspace):
		return handled(ActCmdBackspace), Command
	case ev.IsKey(key.KeyDelete):
		return handled(ActCmdDelete), Command
	case ev.IsKey(key.KeyUp):
		a := handled(ActCmdHistory)
		a.Count = -1
		return a, Command
	case ev.IsKey(key.KeyDown):
		a := handled(ActCmdHistory)
		a.Count = 1
		return a, Command
	}
	if m, ok := arrowMotion(ev); ok {
		a := handled(ActCmdCursor)
		a.Motion = m
		return a, Command
	}
	return unhandled(), Command
}
