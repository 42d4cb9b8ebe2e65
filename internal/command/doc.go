// Package command parses and executes command-line instructions, the
// text typed after ':' in Normal mode.
//
// A line has the shape
//
//	[range]verb[!] [args...]
//
// where range is one or two addresses separated by ',' (N, '.', '$',
// each optionally followed by +N or -N) or '%' for the whole buffer. A
// range with no verb moves the cursor to that line.
//
// The Interpreter owns a fixed table of built-in verbs (write, quit,
// buffer switching, undo and so on) and a second table of verbs added
// at run time through Register, which is how plugins contribute
// commands. Built-ins cannot be shadowed.
//
// Handlers act on the editor through the Editor interface, which the
// session implements. Quitting or closing a modified buffer without '!'
// fails with ErrUnsavedChanges unless the Confirmer approves.
package command
