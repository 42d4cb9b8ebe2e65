// Package cursor provides cursor and selection management over a
// line-addressed buffer.
//
// The cursor package handles:
//
//   - Selections with an anchor/head model via Selection
//   - Multiple cursors kept sorted and merged in a Set
//   - Motions (character, line, word, line and buffer bounds) that clamp
//     at the edges of the text and never fail
//   - Remapping every cursor after a buffer edit
//
// Selection Model:
//
// Anchor is where a selection started and Head is where the cursor is.
// When Anchor == Head the selection is a plain cursor. Only the head
// moves while a selection is extended, so direction is preserved.
//
// Character motions step over whole grapheme clusters, so a cursor
// never lands between a base character and its combining marks.
package cursor
