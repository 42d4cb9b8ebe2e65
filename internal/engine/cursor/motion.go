package cursor

// Motion is a cursor movement.
type Motion uint8

// Motions understood by Model.MoveBy and Model.ExtendSelection.
const (
	CharLeft Motion = iota
	CharRight
	LineUp
	LineDown
	WordForward
	WordBackward
	WordEnd
	LineStart
	FirstNonBlank
	LineEnd
	BufferStart
	BufferEnd
)

var motionNames = [...]string{
	CharLeft:      "char-left",
	CharRight:     "char-right",
	LineUp:        "line-up",
	LineDown:      "line-down",
	WordForward:   "word-forward",
	WordBackward:  "word-backward",
	WordEnd:       "word-end",
	LineStart:     "line-start",
	FirstNonBlank: "first-non-blank",
	LineEnd:       "line-end",
	BufferStart:   "buffer-start",
	BufferEnd:     "buffer-end",
}

// String returns the motion name.
func (m Motion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// Vertical reports whether the motion changes line while keeping the
// desired column.
func (m Motion) Vertical() bool {
	return m == LineUp || m == LineDown
}

// Motions lists every motion, in declaration order.
func Motions() []Motion {
	out := make([]Motion, len(motionNames))
	for i := range out {
		out[i] = Motion(i)
	}
	return out
}
