// Package rope implements an immutable B+ tree rope for text storage.
//
// Text is held in bounded chunks at the leaves. Every node caches a
// Summary (byte length and newline count) of its subtree, so length,
// line count, line lookup and offset/point conversion are O(log n)
// without scanning the document.
//
// Ropes are values: Insert, Delete and Replace return a new Rope that
// shares unchanged subtrees with the original. Holding on to an old
// Rope is therefore a cheap, read-only snapshot that is safe to hand to
// other goroutines.
package rope
