// Package key defines the key events fed to the mode state machine.
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: Ctrl, Alt, Shift and Meta bit flags
//   - Event: a single key press
//
// # Key Specifications
//
// Events can be written in Vim notation, which tests and key scripts
// use:
//
//   - Simple keys: "a", "A", "1", ":"
//   - Special keys: "<Esc>", "<CR>", "<BS>", "<Tab>", "<Up>"
//   - With modifiers: "<C-r>", "<A-f>", "<C-S-Left>"
//
// Sequence parses a run of such keys, e.g. "iZ<Esc>:wq<CR>".
package key
