// Package mode implements the modal input state machine.
//
// Mode is a closed set of states: Normal, Insert, Replace, Visual,
// Command and the terminal Closing state. Transition is a total
// function from (state, pending prefix, key event) to an Action and the
// next state. Every pair it does not list yields ActNone with Handled
// false and leaves the state unchanged, so stray keys can never corrupt
// the editor.
//
// Transition never touches the buffer. The Machine feeds events through
// it, keeps the pending prefix (count, "g", "d", "y") and the command
// line, and returns the Action for the session to apply.
package mode
