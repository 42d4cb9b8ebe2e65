package cursor

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// Text is the read-only view of a buffer the cursor model works on.
// *buffer.Buffer implements it.
type Text interface {
	LineCount() int
	Line(i int) (string, error)
}

func line(t Text, i int) string {
	s, _ := t.Line(i)
	return s
}

// NextBoundary returns the byte offset of the grapheme boundary after
// col in s, or len(s).
func NextBoundary(s string, col int) int {
	if col >= len(s) {
		return len(s)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[col:], -1)
	return col + len(cluster)
}

// PrevBoundary returns the byte offset of the grapheme boundary before
// col in s, or 0.
func PrevBoundary(s string, col int) int {
	prev, off := 0, 0
	state := -1
	rest := s
	for off < col && len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		prev = off
		off += len(cluster)
	}
	return prev
}

// graphemeIndex returns how many grapheme clusters precede col in s.
func graphemeIndex(s string, col int) int {
	n := 0
	g := uniseg.NewGraphemes(s[:min(col, len(s))])
	for g.Next() {
		n++
	}
	return n
}

// graphemeOffset returns the byte offset of the n-th grapheme cluster
// of s, or len(s) if s is shorter.
func graphemeOffset(s string, n int) int {
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n; i++ {
		if !g.Next() {
			return len(s)
		}
	}
	if g.Next() {
		from, _ := g.Positions()
		return from
	}
	return len(s)
}

// charClass groups characters for word motions.
type charClass uint8

const (
	classSpace charClass = iota
	classWord
	classPunct
)

func classOf(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// FirstNonBlankCol returns the offset of the first non-blank byte of s.
func FirstNonBlankCol(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return len(s)
}
