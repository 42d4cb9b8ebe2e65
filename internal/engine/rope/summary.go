package rope

import "strings"

// Summary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add, which is what lets internal nodes
// answer length and line queries without visiting their leaves.
type Summary struct {
	// Bytes is the UTF-8 byte count.
	Bytes int

	// Lines is the number of newline characters.
	Lines int
}

// Add combines two summaries.
func (s Summary) Add(other Summary) Summary {
	return Summary{Bytes: s.Bytes + other.Bytes, Lines: s.Lines + other.Lines}
}

// Summarize computes the metrics for a string.
func Summarize(s string) Summary {
	return Summary{Bytes: len(s), Lines: strings.Count(s, "\n")}
}

// Point is a line/column position. Column is a byte offset in the line.
type Point struct {
	Line   int
	Column int
}
