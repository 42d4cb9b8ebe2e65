// Package highlight connects buffer edits to syntax highlighting.
//
// The session calls Hook.Invalidate after every applied edit with the
// changed range and an immutable snapshot of the buffer. Hooks must
// return immediately; any real work happens elsewhere.
//
// Highlighter is the provided Hook. It coalesces invalidations per
// buffer, tokenises the affected lines with chroma on a background
// goroutine, and caches the resulting spans keyed by lexer and line
// text, so renderers asking for a line usually hit the cache.
package highlight

import (
	"github.com/dshills/modal/internal/engine/buffer"
)

// Invalidation reports that lines of a buffer changed.
type Invalidation struct {
	Buffer buffer.ID

	// Range covers the new text of the edit.
	Range buffer.Range

	// Snapshot is the buffer after the edit.
	Snapshot buffer.Snapshot
}

// Lines returns the first and last changed line.
func (inv Invalidation) Lines() (from, to int) {
	r := inv.Range.Normalize()
	return r.Start.Line, r.End.Line
}

// Hook receives invalidations. Invalidate must not block.
type Hook interface {
	Invalidate(inv Invalidation)
}

// HookFunc adapts a function to Hook.
type HookFunc func(inv Invalidation)

// Invalidate implements Hook.
func (f HookFunc) Invalidate(inv Invalidation) { f(inv) }

// Hooks fans an invalidation out to several hooks in order.
type Hooks []Hook

// Invalidate implements Hook.
func (hs Hooks) Invalidate(inv Invalidation) {
	for _, h := range hs {
		h.Invalidate(inv)
	}
}
