package mode

// DefaultHistorySize is the number of command lines remembered.
const DefaultHistorySize = 100

// CommandLine is the text being typed after ':' with its own cursor and
// a history of executed lines.
type CommandLine struct {
	// buf holds the command being typed.
	buf []rune

	// cursor is the insertion point within buf.
	cursor int

	history []string

	// histIdx is the position in history (-1 = current input).
	histIdx int

	// saved holds the draft while browsing history.
	saved []rune

	maxHistory int
}

// NewCommandLine creates an empty command line.
func NewCommandLine(maxHistory int) *CommandLine {
	if maxHistory <= 0 {
		maxHistory = DefaultHistorySize
	}
	return &CommandLine{
		buf:        make([]rune, 0, 64),
		histIdx:    -1,
		maxHistory: maxHistory,
	}
}

// Text returns the current line.
func (c *CommandLine) Text() string {
	return string(c.buf)
}

// Cursor returns the cursor position in runes.
func (c *CommandLine) Cursor() int {
	return c.cursor
}

// Set replaces the line and puts the cursor at its end.
func (c *CommandLine) Set(s string) {
	c.buf = append(c.buf[:0], []rune(s)...)
	c.cursor = len(c.buf)
}

// Reset clears the line and leaves history browsing.
func (c *CommandLine) Reset() {
	c.buf = c.buf[:0]
	c.cursor = 0
	c.histIdx = -1
	c.saved = nil
}

// Insert inserts s at the cursor.
func (c *CommandLine) Insert(s string) {
	rs := []rune(s)
	tail := append([]rune(nil), c.buf[c.cursor:]...)
	c.buf = append(append(c.buf[:c.cursor], rs...), tail...)
	c.cursor += len(rs)
}

// Backspace deletes the character before the cursor.
func (c *CommandLine) Backspace() bool {
	if c.cursor == 0 {
		return false
	}
	c.buf = append(c.buf[:c.cursor-1], c.buf[c.cursor:]...)
	c.cursor--
	return true
}

// Delete deletes the character at the cursor.
func (c *CommandLine) Delete() bool {
	if c.cursor >= len(c.buf) {
		return false
	}
	c.buf = append(c.buf[:c.cursor], c.buf[c.cursor+1:]...)
	return true
}

// MoveLeft moves the cursor left.
func (c *CommandLine) MoveLeft() bool {
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// MoveRight moves the cursor right.
func (c *CommandLine) MoveRight() bool {
	if c.cursor >= len(c.buf) {
		return false
	}
	c.cursor++
	return true
}

// Home moves the cursor to the start.
func (c *CommandLine) Home() {
	c.cursor = 0
}

// End moves the cursor to the end.
func (c *CommandLine) End() {
	c.cursor = len(c.buf)
}

// AddHistory appends line to the history. Empty lines and repeats of
// the newest entry are skipped.
func (c *CommandLine) AddHistory(line string) {
	if line == "" {
		return
	}
	if n := len(c.history); n > 0 && c.history[n-1] == line {
		return
	}
	c.history = append(c.history, line)
	if len(c.history) > c.maxHistory {
		c.history = c.history[len(c.history)-c.maxHistory:]
	}
}

// History returns a copy of the history, oldest first.
func (c *CommandLine) History() []string {
	return append([]string(nil), c.history...)
}

// HistoryPrev recalls the previous history entry.
func (c *CommandLine) HistoryPrev() bool {
	switch {
	case len(c.history) == 0:
		return false
	case c.histIdx == -1:
		c.saved = append([]rune(nil), c.buf...)
		c.histIdx = len(c.history) - 1
	case c.histIdx > 0:
		c.histIdx--
	default:
		return false
	}
	c.Set(c.history[c.histIdx])
	return true
}

// HistoryNext recalls the next history entry, restoring the draft after
// the newest one.
func (c *CommandLine) HistoryNext() bool {
	if c.histIdx == -1 {
		return false
	}
	c.histIdx++
	if c.histIdx >= len(c.history) {
		c.histIdx = -1
		c.Set(string(c.saved))
		c.saved = nil
		return true
	}
	c.Set(c.history[c.histIdx])
	return true
}
