// Package history records buffer edits as invertible records grouped
// into transactions, and keeps the undo and redo stacks for one buffer.
//
// # Records
//
// A Record describes one applied replacement: the text OldText that
// spanned [Start, OldEnd) was replaced by NewText, which now spans
// [Start, NewEnd). Inverting a record swaps the two sides, so undo is
// "apply the inverse records in reverse order".
//
// # Transactions
//
// Records are grouped into transactions. Begin opens one, Commit closes
// it; the buffer opens a transaction when the editor enters Insert or
// Replace mode and commits it on Escape, so a whole typing session is
// one undo unit. A record added while no transaction is open becomes a
// transaction of its own.
//
//	h := history.New(1000)
//	h.Begin(cursor)
//	h.Add(rec1)
//	h.Add(rec2)
//	h.Commit(cursor) // one undo unit
//
// # Saved marker
//
// Every transaction gets a unique, increasing ID. Current reports the ID
// of the transaction on top of the undo stack; a buffer compares it with
// the ID it saw when the file was last written to derive its dirty flag.
//
// History is not safe for concurrent use; it belongs to one buffer,
// which is driven by a single goroutine.
package history
