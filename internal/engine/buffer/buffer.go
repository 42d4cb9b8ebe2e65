package buffer

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/modal/internal/engine/history"
	"github.com/dshills/modal/internal/engine/rope"
	"github.com/dshills/modal/internal/engine/text"
)

// Position is a line/column position; Col is a byte offset in the line.
type Position = text.Position

// Range is a half-open span [Start, End) of positions.
type Range = text.Range

// Pos is shorthand for Position{Line: line, Col: col}.
func Pos(line, col int) Position { return text.Pos(line, col) }

// ID identifies a buffer for its whole lifetime.
type ID = uuid.UUID

// NoName is the display name of a buffer without a path.
const NoName = "[No Name]"

// Buffer is a line-addressed text buffer with undo history.
type Buffer struct {
	id         ID
	rope       rope.Rope
	path       string
	lineEnding LineEnding
	version    uint64

	history *history.History
	maxUndo int
	savedAt uint64
	lastEnd Position

	listeners []*listener
}

type listener struct {
	fn func(Change)
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{id: uuid.New()}
	for _, opt := range opts {
		opt(b)
	}
	b.history = history.New(b.maxUndo)
	return b
}

// NewFromString creates a buffer holding s. The buffer starts clean.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(s)
	return b
}

// ID returns the buffer's identity.
func (b *Buffer) ID() ID { return b.id }

// Path returns the backing file path, or "" if there is none.
func (b *Buffer) Path() string { return b.path }

// SetPath changes the backing file path.
func (b *Buffer) SetPath(path string) { b.path = path }

// Name returns the base name of the path, or NoName.
func (b *Buffer) Name() string {
	if b.path == "" {
		return NoName
	}
	return filepath.Base(b.path)
}

// LineEnding returns the line ending used when saving.
func (b *Buffer) LineEnding() LineEnding { return b.lineEnding }

// Version increases with every applied edit, including undo and redo.
func (b *Buffer) Version() uint64 { return b.version }

// Len returns the total byte length of the text.
func (b *Buffer) Len() int { return b.rope.Len() }

// LineCount returns the number of lines; an empty buffer has one.
func (b *Buffer) LineCount() int { return b.rope.LineCount() }

// LineLen returns the byte length of line i without its newline, or 0
// if i is not a line.
func (b *Buffer) LineLen(i int) int {
	if i < 0 || i >= b.LineCount() {
		return 0
	}
	return b.rope.LineLen(i)
}

// Line returns the text of line i without its newline.
func (b *Buffer) Line(i int) (string, error) {
	if i < 0 || i >= b.LineCount() {
		return "", &EditError{Op: "line", Range: Range{Start: Pos(i, 0), End: Pos(i, 0)}, Err: ErrOutOfBounds}
	}
	return b.rope.Line(i), nil
}

// Text returns the full text.
func (b *Buffer) Text() string { return b.rope.String() }

// TextRange returns the text in r.
func (b *Buffer) TextRange(r Range) (string, error) {
	start, end, err := b.offsets("read", r)
	if err != nil {
		return "", err
	}
	return b.rope.Slice(start, end), nil
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool { return b.rope.IsEmpty() }

// Valid reports whether p addresses a rune boundary inside the buffer.
// Bytes that are not valid UTF-8 are runes of their own.
func (b *Buffer) Valid(p Position) bool {
	if p.Line < 0 || p.Line >= b.LineCount() || p.Col < 0 {
		return false
	}
	n := b.rope.LineLen(p.Line)
	if p.Col > n {
		return false
	}
	lo := max(p.Col-utf8.UTFMax, 0)
	start := b.rope.LineStart(p.Line)
	window := b.rope.Slice(start+lo, start+min(p.Col+utf8.UTFMax, n))
	return text.RuneBoundary(window, p.Col-lo)
}

// Offset converts a valid position to a byte offset.
func (b *Buffer) Offset(p Position) int {
	return b.rope.LineStart(p.Line) + p.Col
}

// PositionAt converts a byte offset to a position, clamping to the text.
func (b *Buffer) PositionAt(offset int) Position {
	pt := b.rope.OffsetToPoint(offset)
	return Pos(pt.Line, pt.Column)
}

// End returns the position after the last byte.
func (b *Buffer) End() Position {
	last := b.LineCount() - 1
	return Pos(last, b.rope.LineLen(last))
}

func (b *Buffer) offsets(op string, r Range) (int, int, error) {
	if r.Start.After(r.End) || !b.Valid(r.Start) || !b.Valid(r.End) {
		return 0, 0, &EditError{Op: op, Range: r, Err: ErrInvalidRange}
	}
	return b.Offset(r.Start), b.Offset(r.End), nil
}

// Insert inserts s at pos and returns the position after the inserted
// text.
func (b *Buffer) Insert(pos Position, s string) (Position, error) {
	if !b.Valid(pos) {
		return pos, &EditError{Op: "insert", Range: Range{Start: pos, End: pos}, Err: ErrOutOfBounds}
	}
	return b.replace(Range{Start: pos, End: pos}, s), nil
}

// Delete removes the text in r and returns it.
func (b *Buffer) Delete(r Range) (string, error) {
	start, end, err := b.offsets("delete", r)
	if err != nil {
		return "", err
	}
	removed := b.rope.Slice(start, end)
	b.replace(r, "")
	return removed, nil
}

// Replace replaces the text in r with s and returns the position after
// the new text.
func (b *Buffer) Replace(r Range, s string) (Position, error) {
	if _, _, err := b.offsets("replace", r); err != nil {
		return r.Start, err
	}
	return b.replace(r, s), nil
}

// replace applies a validated edit and records it for undo.
func (b *Buffer) replace(r Range, s string) Position {
	if r.IsEmpty() && s == "" {
		return r.Start
	}
	start, end := b.Offset(r.Start), b.Offset(r.End)
	rec := history.NewRecord(r.Start, b.rope.Slice(start, end), s)
	b.apply(rec, false)
	b.history.Add(rec)
	b.lastEnd = rec.NewEnd
	return rec.NewEnd
}

// apply writes rec into the rope and notifies listeners.
func (b *Buffer) apply(rec history.Record, replay bool) {
	start := b.Offset(rec.Start)
	b.rope = b.rope.Replace(start, start+len(rec.OldText), rec.NewText)
	b.version++

	c := Change{
		Start:   rec.Start,
		OldEnd:  rec.OldEnd,
		NewEnd:  rec.NewEnd,
		OldText: rec.OldText,
		NewText: rec.NewText,
		Version: b.version,
		Replay:  replay,
	}
	for _, l := range b.listeners {
		l.fn(c)
	}
}

// Begin opens an undo transaction; cursor is restored by Undo.
func (b *Buffer) Begin(cursor Position) {
	b.history.Begin(cursor)
}

// Commit closes the transaction opened by Begin; cursor is restored by
// Redo.
func (b *Buffer) Commit(cursor Position) {
	b.history.Commit(cursor)
}

// InTransaction reports whether an undo transaction is open.
func (b *Buffer) InTransaction() bool {
	return b.history.IsOpen()
}

// Undo reverts the newest transaction and returns the cursor captured
// before it. An open transaction is committed first.
func (b *Buffer) Undo() (Position, error) {
	for b.history.IsOpen() {
		b.history.Commit(b.lastEnd)
	}
	tx, err := b.history.Undo()
	if err != nil {
		return Position{}, err
	}
	for _, rec := range tx.Inverse() {
		b.apply(rec, true)
	}
	return tx.CursorBefore, nil
}

// Redo re-applies the newest undone transaction and returns the cursor
// captured after it.
func (b *Buffer) Redo() (Position, error) {
	tx, err := b.history.Redo()
	if err != nil {
		return Position{}, err
	}
	for _, rec := range tx.Records {
		b.apply(rec, true)
	}
	return tx.CursorAfter, nil
}

// CanUndo returns true if there is something to undo.
func (b *Buffer) CanUndo() bool { return b.history.CanUndo() || b.history.Pending() }

// CanRedo returns true if there is something to redo.
func (b *Buffer) CanRedo() bool { return b.history.CanRedo() }

// Dirty reports whether the text differs from the last save, judged by
// history position.
func (b *Buffer) Dirty() bool {
	return b.history.Current() != b.savedAt || b.history.Pending()
}

// MarkSaved records the current history position as saved.
func (b *Buffer) MarkSaved() {
	b.savedAt = b.history.Current()
}

// OnChange registers fn to run after every applied edit, undo and redo
// included. The returned function removes it.
func (b *Buffer) OnChange(fn func(Change)) (remove func()) {
	l := &listener{fn: fn}
	b.listeners = append(b.listeners, l)
	return func() {
		for i, x := range b.listeners {
			if x == l {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns an immutable view of the current text.
func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{rope: b.rope, id: b.id, version: b.version, path: b.path}
}
