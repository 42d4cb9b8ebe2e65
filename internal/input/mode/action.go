package mode

import (
	"fmt"

	"github.com/dshills/modal/internal/engine/cursor"
)

// ActionKind says what the session should do for a key.
type ActionKind uint8

const (
	ActNone ActionKind = iota
	ActPending

	// Normal
	ActMove
	ActGotoLine
	ActEnterInsert
	ActEnterReplace
	ActOpenCommand
	ActStartVisual
	ActDeleteChar
	ActDeleteLine
	ActDeleteToEnd
	ActYankLine
	ActPutAfter
	ActPutBefore
	ActUndo
	ActRedo

	// Insert and Replace
	ActInsertText
	ActInsertTab
	ActBackspace
	ActDeleteForward
	ActOverwrite
	ActLeaveInsert

	// Visual
	ActExtend
	ActVisualDelete
	ActVisualYank
	ActCancelVisual

	// Command
	ActCmdInsert
	ActCmdBackspace
	ActCmdDelete
	ActCmdCursor
	ActCmdHistory
	ActExecute
	ActCancelCommand
)

var actionNames = [...]string{
	ActNone:          "none",
	ActPending:       "pending",
	ActMove:          "move",
	ActGotoLine:      "goto-line",
	ActEnterInsert:   "enter-insert",
	ActEnterReplace:  "enter-replace",
	ActOpenCommand:   "open-command",
	ActStartVisual:   "start-visual",
	ActDeleteChar:    "delete-char",
	ActDeleteLine:    "delete-line",
	ActDeleteToEnd:   "delete-to-end",
	ActYankLine:      "yank-line",
	ActPutAfter:      "put-after",
	ActPutBefore:     "put-before",
	ActUndo:          "undo",
	ActRedo:          "redo",
	ActInsertText:    "insert-text",
	ActInsertTab:     "insert-tab",
	ActBackspace:     "backspace",
	ActDeleteForward: "delete-forward",
	ActOverwrite:     "overwrite",
	ActLeaveInsert:   "leave-insert",
	ActExtend:        "extend",
	ActVisualDelete:  "visual-delete",
	ActVisualYank:    "visual-yank",
	ActCancelVisual:  "cancel-visual",
	ActCmdInsert:     "cmd-insert",
	ActCmdBackspace:  "cmd-backspace",
	ActCmdDelete:     "cmd-delete",
	ActCmdCursor:     "cmd-cursor",
	ActCmdHistory:    "cmd-history",
	ActExecute:       "execute",
	ActCancelCommand: "cancel-command",
}

// String returns the action kind name.
func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", k)
}

// Action is the outcome of one key event.
type Action struct {
	Kind ActionKind

	// Handled is false when the (state, key) pair is not in the table.
	Handled bool

	// Motion for ActMove, ActExtend and ActCmdCursor.
	Motion cursor.Motion

	// Count is the repeat count, at least 1. For ActGotoLine (also sent
	// in Visual mode, where it extends the selection) it is the
	// 1-based target line, or 0 for the last line. For ActCmdHistory it
	// is -1 (older) or +1 (newer).
	Count int

	// Text for ActInsertText, ActOverwrite, ActCmdInsert and ActExecute.
	Text string

	// Variant is the key that entered Insert mode: i a A I o O.
	Variant rune

	// Pending is the prefix state after this event.
	Pending Pending
}

// String returns a compact description for logs.
func (a Action) String() string {
	switch a.Kind {
	case ActMove, ActExtend, ActCmdCursor:
		return fmt.Sprintf("%s(%s x%d)", a.Kind, a.Motion, a.Count)
	case ActInsertText, ActOverwrite, ActCmdInsert, ActExecute:
		return fmt.Sprintf("%s(%q)", a.Kind, a.Text)
	case ActEnterInsert:
		return fmt.Sprintf("%s(%c)", a.Kind, a.Variant)
	case ActNone:
		if !a.Handled {
			return "unhandled"
		}
	}
	if a.Count > 1 {
		return fmt.Sprintf("%s x%d", a.Kind, a.Count)
	}
	return a.Kind.String()
}

// Pending is a partially typed Normal/Visual command: a count prefix
// and an operator key waiting for its second key.
type Pending struct {
	Count int
	Op    rune // 'g', 'd', 'y' or 0
}

// IsZero reports whether nothing is pending.
func (p Pending) IsZero() bool {
	return p.Count == 0 && p.Op == 0
}

// String returns the typed prefix, e.g. "3d".
func (p Pending) String() string {
	s := ""
	if p.Count > 0 {
		s = fmt.Sprint(p.Count)
	}
	if p.Op != 0 {
		s += string(p.Op)
	}
	return s
}

// count returns the repeat count, defaulting to 1.
func (p Pending) count() int {
	return max(p.Count, 1)
}
