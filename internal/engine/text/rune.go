package text

import "unicode/utf8"

// RuneBoundary reports whether col starts a rune when s is decoded from
// its start. A byte that is not part of a valid UTF-8 sequence counts
// as a rune of its own, so lone continuation bytes are addressable.
func RuneBoundary(s string, col int) bool {
	if col < 0 || col > len(s) {
		return false
	}
	if col == 0 || col == len(s) || utf8.RuneStart(s[col]) {
		return true
	}
	for j := col - 1; j >= 0 && j > col-utf8.UTFMax; j-- {
		if utf8.RuneStart(s[j]) {
			_, w := utf8.DecodeRuneInString(s[j:])
			return j+w <= col
		}
	}
	return true
}

// SnapToRune moves col back onto the nearest rune boundary of s.
func SnapToRune(s string, col int) int {
	col = min(max(col, 0), len(s))
	for !RuneBoundary(s, col) {
		col--
	}
	return col
}
