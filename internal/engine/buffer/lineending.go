package buffer

import "strings"

// LineEnding specifies how a buffer's lines are terminated on disk.
type LineEnding uint8

const (
	// LineEndingLF stores the file bytes unchanged. Files with mixed or
	// lone-CR endings use it too, so they round-trip byte for byte.
	LineEndingLF LineEnding = iota
	// LineEndingCRLF is used for files where every newline is "\r\n".
	// The text is held with "\n" and re-expanded on save.
	LineEndingCRLF
)

// String returns the name shown on the status line.
func (le LineEnding) String() string {
	if le == LineEndingCRLF {
		return "dos"
	}
	return "unix"
}

// DetectLineEnding returns LineEndingCRLF when text has at least one
// newline and every newline is preceded by '\r'.
func DetectLineEnding(text string) LineEnding {
	lf := strings.Count(text, "\n")
	if lf > 0 && strings.Count(text, "\r\n") == lf {
		return LineEndingCRLF
	}
	return LineEndingLF
}

// decode converts file content to buffer text.
func (le LineEnding) decode(data string) string {
	if le == LineEndingCRLF {
		return strings.ReplaceAll(data, "\r\n", "\n")
	}
	return data
}

// encode converts buffer text to file content.
func (le LineEnding) encode(text string) string {
	if le == LineEndingCRLF {
		return strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}
