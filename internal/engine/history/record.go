package history

import (
	"fmt"
	"time"

	"github.com/dshills/modal/internal/engine/text"
)

// Record is one applied edit: OldText at [Start, OldEnd) became NewText
// at [Start, NewEnd).
type Record struct {
	Start   text.Position
	OldEnd  text.Position
	NewEnd  text.Position
	OldText string
	NewText string
}

// NewRecord builds a record for replacing oldText at start with newText.
func NewRecord(start text.Position, oldText, newText string) Record {
	return Record{
		Start:   start,
		OldEnd:  start.Advance(oldText),
		NewEnd:  start.Advance(newText),
		OldText: oldText,
		NewText: newText,
	}
}

// Invert returns the record that undoes r.
func (r Record) Invert() Record {
	return Record{
		Start:   r.Start,
		OldEnd:  r.NewEnd,
		NewEnd:  r.OldEnd,
		OldText: r.NewText,
		NewText: r.OldText,
	}
}

// IsInsert returns true if the record only adds text.
func (r Record) IsInsert() bool {
	return r.OldText == "" && r.NewText != ""
}

// IsDelete returns true if the record only removes text.
func (r Record) IsDelete() bool {
	return r.OldText != "" && r.NewText == ""
}

// String returns a human-readable representation of the record.
func (r Record) String() string {
	switch {
	case r.IsInsert():
		return fmt.Sprintf("Insert%s %q", r.Start, r.NewText)
	case r.IsDelete():
		return fmt.Sprintf("Delete[%s-%s)", r.Start, r.OldEnd)
	default:
		return fmt.Sprintf("Replace[%s-%s) %q", r.Start, r.OldEnd, r.NewText)
	}
}

// Transaction is a group of records undone and redone as one unit.
type Transaction struct {
	ID           uint64
	Records      []Record
	CursorBefore text.Position
	CursorAfter  text.Position
	Time         time.Time
}

// Inverse returns the records that undo the transaction, in the order
// they must be applied.
func (t *Transaction) Inverse() []Record {
	out := make([]Record, len(t.Records))
	for i, r := range t.Records {
		out[len(t.Records)-1-i] = r.Invert()
	}
	return out
}
