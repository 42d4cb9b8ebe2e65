// Package buffer provides the text buffer of the editor: a sequence of
// lines stored in an immutable rope, addressed by line and column, with
// per-buffer undo history.
//
// The buffer package provides:
//
//   - Line/column editing (Insert, Delete, Replace) with strict bounds
//     checking; invalid positions are rejected, never truncated
//   - Undo/redo of whole transactions via the history package
//   - Dirty tracking relative to the last save
//   - Change listeners, notified after every applied edit
//   - O(1) read-only snapshots for background readers
//   - Exact byte round-trip through Load and Save
//
// Basic usage:
//
//	buf := buffer.NewFromString("abc")
//	buf.Begin(buffer.Pos(0, 1))
//	end, _ := buf.Insert(buffer.Pos(0, 1), "Z") // "aZbc", end (0:2)
//	buf.Commit(end)
//	cursor, _ := buf.Undo() // "abc", cursor (0:1)
//
// A Buffer is not safe for concurrent use. The editor drives buffers
// from a single goroutine and hands Snapshots to anything that reads
// text in the background.
package buffer
