package rope

import "strings"

// Chunk size constants control the granularity of text storage.
const (
	// MinChunkSize is the size below which adjacent chunks are merged.
	MinChunkSize = 128

	// MaxChunkSize is the maximum bytes per chunk.
	MaxChunkSize = 512

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = 256
)

// Chunk is a bounded, immutable piece of text stored in a leaf.
type Chunk struct {
	data    string
	summary Summary
}

// NewChunk creates a chunk and computes its summary eagerly.
func NewChunk(s string) Chunk {
	return Chunk{data: s, summary: Summarize(s)}
}

// String returns the chunk's text.
func (c Chunk) String() string { return c.data }

// Len returns the byte length of the chunk.
func (c Chunk) Len() int { return len(c.data) }

// Summary returns the chunk's precomputed metrics.
func (c Chunk) Summary() Summary { return c.summary }

// split cuts the chunk at a byte offset.
func (c Chunk) split(at int) (Chunk, Chunk) {
	if at <= 0 {
		return Chunk{}, c
	}
	if at >= len(c.data) {
		return c, Chunk{}
	}
	return NewChunk(c.data[:at]), NewChunk(c.data[at:])
}

// lineStart returns the byte offset just after the n-th newline in the
// chunk (n >= 1), or -1 if the chunk has fewer newlines.
func (c Chunk) lineStart(n int) int {
	idx := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(c.data[idx:], '\n')
		if j < 0 {
			return -1
		}
		idx += j + 1
	}
	return idx
}

// splitIntoChunks splits s into chunks near TargetChunkSize, preferring
// to break after a newline and never inside a UTF-8 sequence.
func splitIntoChunks(s string) []Chunk {
	if len(s) == 0 {
		return nil
	}
	chunks := make([]Chunk, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		at := splitPoint(s, TargetChunkSize)
		chunks = append(chunks, NewChunk(s[:at]))
		s = s[at:]
	}
	return append(chunks, NewChunk(s))
}

// splitPoint picks a split offset near target.
func splitPoint(s string, target int) int {
	window := MinChunkSize / 2
	end := min(target+window, len(s))
	if i := strings.IndexByte(s[target:end], '\n'); i >= 0 {
		return target + i + 1
	}
	pos := target
	for pos < len(s) && pos-target < 4 && !isRuneStart(s[pos]) {
		pos++
	}
	if pos < len(s) && isRuneStart(s[pos]) {
		return pos
	}
	return target
}

// isRuneStart reports whether b starts a UTF-8 sequence.
func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// mergeChunks concatenates two chunk slices, fusing the boundary chunks
// when they are small enough to share one chunk.
func mergeChunks(left, right []Chunk) []Chunk {
	out := make([]Chunk, 0, len(left)+len(right))
	out = append(out, left...)
	if len(out) > 0 && len(right) > 0 {
		last := out[len(out)-1]
		first := right[0]
		if (last.Len() < MinChunkSize || first.Len() < MinChunkSize) &&
			last.Len()+first.Len() <= MaxChunkSize {
			out[len(out)-1] = NewChunk(last.data + first.data)
			right = right[1:]
		}
	}
	return append(out, right...)
}
