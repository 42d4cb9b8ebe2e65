// Package text holds the line/column coordinate types shared by the
// buffer, cursor and history packages.
package text

import (
	"fmt"
	"strings"
)

// Position is a line and column in a buffer. Both are 0-indexed and
// Col is a byte offset within the line.
type Position struct {
	Line int
	Col  int
}

// Pos is shorthand for Position{Line: line, Col: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Col: col}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Col < other.Col:
		return -1
	case p.Col > other.Col:
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Advance returns the position reached after writing s starting at p.
func (p Position) Advance(s string) Position {
	n := strings.Count(s, "\n")
	if n == 0 {
		return Position{Line: p.Line, Col: p.Col + len(s)}
	}
	return Position{Line: p.Line + n, Col: len(s) - strings.LastIndexByte(s, '\n') - 1}
}

// Min returns the earlier of two positions.
func Min(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of two positions.
func Max(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}
