package mode

import "fmt"

// Mode is the editor's input state.
type Mode uint8

// The modes, Normal first so the zero value is the initial state.
const (
	Normal Mode = iota
	Insert
	Replace
	Visual
	Command
	Closing
)

var modeNames = [...]string{
	Normal:  "normal",
	Insert:  "insert",
	Replace: "replace",
	Visual:  "visual",
	Command: "command",
	Closing: "closing",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// DisplayName returns the name shown on the status line.
func (m Mode) DisplayName() string {
	switch m {
	case Insert:
		return "-- INSERT --"
	case Replace:
		return "-- REPLACE --"
	case Visual:
		return "-- VISUAL --"
	}
	return ""
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{Normal, Insert, Replace, Visual, Command, Closing}
}

// CursorStyle represents the visual style of the cursor.
type CursorStyle uint8

const (
	// CursorBlock is a block cursor (Normal, Visual).
	CursorBlock CursorStyle = iota
	// CursorBar is a vertical bar cursor (Insert, Command).
	CursorBar
	// CursorUnderline is an underline cursor (Replace).
	CursorUnderline
)

// CursorStyle returns the cursor style for the mode.
func (m Mode) CursorStyle() CursorStyle {
	switch m {
	case Insert, Command:
		return CursorBar
	case Replace:
		return CursorUnderline
	}
	return CursorBlock
}
