package command

import (
	"fmt"
	"strings"
)

// AddrKind is the base of a line address.
type AddrKind uint8

const (
	// AddrLine is an absolute 1-based line number.
	AddrLine AddrKind = iota
	// AddrCurrent is the cursor line, written '.'.
	AddrCurrent
	// AddrLast is the last line, written '$'.
	AddrLast
)

// Address is one end of a range.
type Address struct {
	Kind   AddrKind
	Line   int // for AddrLine
	Offset int // +N / -N
}

// String returns the address in command-line notation.
func (a Address) String() string {
	var s string
	switch a.Kind {
	case AddrCurrent:
		s = "."
	case AddrLast:
		s = "$"
	default:
		s = fmt.Sprint(a.Line)
	}
	if a.Offset > 0 {
		s += fmt.Sprintf("+%d", a.Offset)
	} else if a.Offset < 0 {
		s += fmt.Sprint(a.Offset)
	}
	return s
}

// resolve returns the 1-based line a points at.
func (a Address) resolve(current, last int) int {
	switch a.Kind {
	case AddrCurrent:
		return current + a.Offset
	case AddrLast:
		return last + a.Offset
	}
	return a.Line + a.Offset
}

// Range is the optional line range in front of a verb.
type Range struct {
	// Addrs is 0, 1 or 2: no range, a single line, or start,end.
	Addrs int
	Start Address
	End   Address
}

// IsSet reports whether a range was given.
func (r Range) IsSet() bool {
	return r.Addrs > 0
}

// String returns the range in command-line notation.
func (r Range) String() string {
	switch r.Addrs {
	case 1:
		return r.Start.String()
	case 2:
		return r.Start.String() + "," + r.End.String()
	}
	return ""
}

// Resolve turns the range into 0-based inclusive lines for a buffer
// with lineCount lines and the cursor on line current (0-based). With
// no range it returns the current line. Backwards ranges are swapped.
func (r Range) Resolve(current, lineCount int) (from, to int, err error) {
	cur, last := current+1, lineCount
	switch r.Addrs {
	case 0:
		return current, current, nil
	case 1:
		from = r.Start.resolve(cur, last)
		to = from
	default:
		from = r.Start.resolve(cur, last)
		to = r.End.resolve(cur, last)
	}
	if from > to {
		from, to = to, from
	}
	if from < 1 || to > last {
		return 0, 0, syntaxError("invalid range %s", r)
	}
	return from - 1, to - 1, nil
}

// Command is one parsed command line.
type Command struct {
	Verb  string   // canonical verb name, "" for a bare range
	Args  []string // whitespace separated arguments
	Range Range
	Force bool   // '!' suffix
	Raw   string // the line as typed
}

// Arg returns the i'th argument or "".
func (c Command) Arg(i int) string {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return ""
}

// String returns a normalised form of the command.
func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(c.Range.String())
	sb.WriteString(c.Verb)
	if c.Force {
		sb.WriteByte('!')
	}
	for _, a := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	return sb.String()
}
