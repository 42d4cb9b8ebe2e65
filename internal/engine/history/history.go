package history

import (
	"errors"
	"time"

	"github.com/dshills/modal/internal/engine/text"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is the undo depth used when New is given zero.
const DefaultMaxEntries = 1000

// History manages the undo and redo stacks of one buffer.
type History struct {
	undo []*Transaction
	redo []*Transaction

	// open transaction
	depth   int
	pending *Transaction

	nextID     uint64
	floor      uint64 // ID of the newest transaction evicted by maxEntries
	maxEntries int
}

// New creates a history keeping at most maxEntries transactions.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries, nextID: 1}
}

// Begin opens a transaction, capturing the cursor for undo. Calls nest;
// only the outermost Begin/Commit pair delimits the transaction.
func (h *History) Begin(cursor text.Position) {
	h.depth++
	if h.depth == 1 {
		h.pending = &Transaction{CursorBefore: cursor, CursorAfter: cursor}
	}
}

// Commit closes the innermost transaction. When the outermost one closes
// and it holds records, it is pushed onto the undo stack. Commit without
// a matching Begin is ignored.
func (h *History) Commit(cursor text.Position) {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	t := h.pending
	h.pending = nil
	if len(t.Records) == 0 {
		return
	}
	t.CursorAfter = cursor
	h.push(t)
}

// IsOpen reports whether a transaction is open.
func (h *History) IsOpen() bool {
	return h.depth > 0
}

// Pending reports whether the open transaction already holds records.
func (h *History) Pending() bool {
	return h.pending != nil && len(h.pending.Records) > 0
}

// Add records an applied edit. Any redo state is discarded.
func (h *History) Add(r Record) {
	h.redo = nil
	if h.pending != nil {
		h.pending.Records = append(h.pending.Records, r)
		return
	}
	h.push(&Transaction{
		Records:      []Record{r},
		CursorBefore: r.Start,
		CursorAfter:  r.NewEnd,
	})
}

func (h *History) push(t *Transaction) {
	t.ID = h.nextID
	t.Time = time.Now()
	h.nextID++
	h.undo = append(h.undo, t)
	if excess := len(h.undo) - h.maxEntries; excess > 0 {
		h.floor = h.undo[excess-1].ID
		clear(h.undo[:excess])
		h.undo = h.undo[excess:]
	}
}

// Undo moves the newest transaction to the redo stack and returns it.
// The caller applies its Inverse.
func (h *History) Undo() (*Transaction, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	t := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, t)
	return t, nil
}

// Redo moves the newest undone transaction back to the undo stack and
// returns it. The caller re-applies its Records.
func (h *History) Redo() (*Transaction, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	t := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, t)
	return t, nil
}

// Current returns the ID of the transaction on top of the undo stack.
// An empty stack reports 0, or the newest evicted ID once entries have
// been dropped, so a trimmed history never looks like a pristine one.
func (h *History) Current() uint64 {
	if len(h.undo) == 0 {
		return h.floor
	}
	return h.undo[len(h.undo)-1].ID
}

// CanUndo returns true if there is something to undo.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo returns true if there is something to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoCount returns the number of transactions on the undo stack.
func (h *History) UndoCount() int { return len(h.undo) }

// RedoCount returns the number of transactions on the redo stack.
func (h *History) RedoCount() int { return len(h.redo) }

// Clear drops all history, including any open transaction.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.depth = 0
	h.pending = nil
}
