package rope

import (
	"io"
	"math/bits"
	"strings"
)

// Rope is an immutable rope. The zero value is an empty rope.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	return Rope{root: build(splitIntoChunks(s))}
}

// FromReader creates a rope from everything r yields.
func FromReader(r io.Reader) (Rope, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return Rope{}, err
	}
	return FromString(sb.String()), nil
}

// Summary returns the metrics of the whole rope.
func (r Rope) Summary() Summary {
	if r.root == nil {
		return Summary{}
	}
	return r.root.summary
}

// Len returns the total byte length.
func (r Rope) Len() int {
	return r.Summary().Bytes
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() int {
	return r.Summary().Lines + 1
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text. Use sparingly on large ropes.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

// WriteTo writes the rope's text to w chunk by chunk.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	if r.root == nil {
		return 0, nil
	}
	var total int64
	for _, c := range r.root.collectChunks(nil) {
		n, err := io.WriteString(w, c.data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Slice returns the text in [start, end), clamped to the rope.
func (r Rope) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if out of range.
func (r Rope) ByteAt(offset int) (byte, bool) {
	if offset < 0 || offset >= r.Len() {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// Insert returns a rope with text inserted at offset (clamped).
func (r Rope) Insert(offset int, text string) Rope {
	return r.Replace(offset, offset, text)
}

// Delete returns a rope with [start, end) removed (clamped).
func (r Rope) Delete(start, end int) Rope {
	return r.Replace(start, end, "")
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end int, text string) Rope {
	start = min(max(start, 0), r.Len())
	end = min(max(end, start), r.Len())
	if start == end && text == "" {
		return r
	}
	left, rest := r.Split(start)
	_, right := rest.Split(end - start)
	return left.Concat(FromString(text)).Concat(right).balanced()
}

// Split splits the rope at offset into [0, offset) and [offset, len).
func (r Rope) Split(offset int) (Rope, Rope) {
	if r.root == nil || offset <= 0 {
		return Rope{}, r
	}
	if offset >= r.Len() {
		return r, Rope{}
	}
	left, right := r.root.split(offset)
	return wrap(left), wrap(right)
}

// Concat returns the concatenation of r and other.
func (r Rope) Concat(other Rope) Rope {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rope{root: join(r.root, other.root)}
}

func wrap(n *node) Rope {
	if n == nil || n.summary.Bytes == 0 {
		return Rope{}
	}
	return Rope{root: n}
}

// balanced rebuilds the tree when repeated splits and joins have let
// its height drift well beyond what its chunk count needs.
func (r Rope) balanced() Rope {
	if r.root == nil {
		return r
	}
	chunks := r.root.summary.Bytes/MinChunkSize + 1
	limit := 2*bits.Len(uint(chunks)) + 2
	if r.root.height <= limit {
		return r
	}
	return Rope{root: build(r.root.collectChunks(nil))}
}

// Height returns the height of the tree (0 for an empty rope).
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return r.root.height + 1
}

// LineStart returns the byte offset where line begins. Lines past the
// end map to Len.
func (r Rope) LineStart(line int) int {
	if r.root == nil || line <= 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEnd returns the byte offset of the end of line, excluding its
// newline.
func (r Rope) LineEnd(line int) int {
	if line >= r.LineCount()-1 {
		return r.Len()
	}
	return r.LineStart(line+1) - 1
}

// LineLen returns the byte length of line, excluding its newline.
func (r Rope) LineLen(line int) int {
	return r.LineEnd(line) - r.LineStart(line)
}

// Line returns the text of line without its newline.
func (r Rope) Line(line int) string {
	return r.Slice(r.LineStart(line), r.LineEnd(line))
}

// OffsetToPoint converts a byte offset to a line/column point.
func (r Rope) OffsetToPoint(offset int) Point {
	offset = min(max(offset, 0), r.Len())
	if r.root == nil {
		return Point{}
	}
	line := r.root.linesBefore(offset)
	return Point{Line: line, Column: offset - r.LineStart(line)}
}

// PointToOffset converts a point to a byte offset, clamping the column
// to the line.
func (r Rope) PointToOffset(p Point) int {
	start := r.LineStart(p.Line)
	return start + min(max(p.Column, 0), r.LineEnd(p.Line)-start)
}

// Equals reports whether two ropes hold the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.root == other.root {
		return true
	}
	return r.String() == other.String()
}
