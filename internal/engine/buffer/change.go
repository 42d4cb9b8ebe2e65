package buffer

import "fmt"

// Change describes an edit that was applied to a buffer: the text at
// [Start, OldEnd) was replaced and the new text spans [Start, NewEnd).
type Change struct {
	Start   Position
	OldEnd  Position
	NewEnd  Position
	OldText string
	NewText string

	// Version is the buffer version after the edit.
	Version uint64

	// Replay is true for edits applied by Undo or Redo.
	Replay bool
}

// OldRange returns the replaced range in pre-edit coordinates.
func (c Change) OldRange() Range {
	return Range{Start: c.Start, End: c.OldEnd}
}

// NewRange returns the inserted range in post-edit coordinates.
func (c Change) NewRange() Range {
	return Range{Start: c.Start, End: c.NewEnd}
}

// LinesAffected returns the first and last post-edit lines touched.
func (c Change) LinesAffected() (first, last int) {
	return c.Start.Line, c.NewEnd.Line
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	return fmt.Sprintf("Change%s->%s %q=>%q", c.OldRange(), c.NewEnd, c.OldText, c.NewText)
}
