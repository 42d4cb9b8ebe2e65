package buffer

import (
	"path/filepath"

	"github.com/dshills/modal/internal/engine/rope"
)

// Snapshot is a read-only view of a buffer at one version. It never
// changes and is safe to read from any goroutine.
type Snapshot struct {
	rope    rope.Rope
	id      ID
	version uint64
	path    string
}

// BufferID returns the ID of the buffer the snapshot was taken from.
func (s Snapshot) BufferID() ID { return s.id }

// Version returns the buffer version the snapshot reflects.
func (s Snapshot) Version() uint64 { return s.version }

// Path returns the buffer's path at snapshot time.
func (s Snapshot) Path() string { return s.path }

// Name returns the base name of the path, or NoName.
func (s Snapshot) Name() string {
	if s.path == "" {
		return NoName
	}
	return filepath.Base(s.path)
}

// Text returns the full snapshot content.
func (s Snapshot) Text() string { return s.rope.String() }

// Len returns the total byte length.
func (s Snapshot) Len() int { return s.rope.Len() }

// LineCount returns the number of lines.
func (s Snapshot) LineCount() int { return s.rope.LineCount() }

// Line returns line i, or "" if i is out of range.
func (s Snapshot) Line(i int) string {
	if i < 0 || i >= s.rope.LineCount() {
		return ""
	}
	return s.rope.Line(i)
}

// Lines returns lines [from, to), clamped to the snapshot.
func (s Snapshot) Lines(from, to int) []string {
	from = max(from, 0)
	to = min(to, s.rope.LineCount())
	if from >= to {
		return nil
	}
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, s.rope.Line(i))
	}
	return out
}
