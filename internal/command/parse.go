package command

import (
	"strconv"
	"strings"
)

// scanner walks a command line byte by byte. Addresses and verbs are
// ASCII; arguments are taken verbatim.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) peek() byte {
	if sc.pos < len(sc.s) {
		return sc.s[sc.pos]
	}
	return 0
}

func (sc *scanner) skipSpace() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

func (sc *scanner) number() (int, bool) {
	start := sc.pos
	for sc.pos < len(sc.s) && isDigit(sc.s[sc.pos]) {
		sc.pos++
	}
	if start == sc.pos {
		return 0, false
	}
	n, err := strconv.Atoi(sc.s[start:sc.pos])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isVerbByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// address parses one address. ok is false when none is present.
func (sc *scanner) address() (Address, bool, error) {
	var a Address
	found := true
	switch c := sc.peek(); {
	case c == '.':
		sc.pos++
		a.Kind = AddrCurrent
	case c == '$':
		sc.pos++
		a.Kind = AddrLast
	case isDigit(c):
		n, ok := sc.number()
		if !ok {
			return a, false, syntaxError("bad line number")
		}
		a.Line = n
	case c == '+' || c == '-':
		a.Kind = AddrCurrent
	default:
		found = false
	}
	if !found {
		return a, false, nil
	}

	for {
		c := sc.peek()
		if c != '+' && c != '-' {
			break
		}
		sc.pos++
		n, ok := sc.number()
		if !ok {
			n = 1
		}
		if c == '-' {
			n = -n
		}
		a.Offset += n
	}
	return a, true, nil
}

// parseRange parses the optional range prefix.
func (sc *scanner) parseRange() (Range, error) {
	var r Range
	if sc.peek() == '%' {
		sc.pos++
		r.Addrs = 2
		r.Start = Address{Kind: AddrLine, Line: 1}
		r.End = Address{Kind: AddrLast}
		return r, nil
	}

	start, ok, err := sc.address()
	if err != nil {
		return r, err
	}
	if ok {
		r.Addrs = 1
		r.Start = start
	}
	sc.skipSpace()
	if sc.peek() != ',' {
		return r, nil
	}
	sc.pos++
	sc.skipSpace()
	if !ok {
		r.Start = Address{Kind: AddrCurrent}
	}
	end, ok, err := sc.address()
	if err != nil {
		return r, err
	}
	if !ok {
		end = Address{Kind: AddrCurrent}
	}
	r.Addrs = 2
	r.End = end
	return r, nil
}

// Parse parses a command line. Verbs are resolved through aliases to
// their canonical name. An empty line parses to a Command with no verb
// and no range, which Execute ignores.
func (in *Interpreter) Parse(line string) (Command, error) {
	cmd := Command{Raw: line}
	sc := &scanner{s: line}
	sc.skipSpace()
	for sc.peek() == ':' {
		sc.pos++
		sc.skipSpace()
	}

	r, err := sc.parseRange()
	if err != nil {
		return cmd, err
	}
	cmd.Range = r
	sc.skipSpace()

	start := sc.pos
	for sc.pos < len(sc.s) && isVerbByte(sc.s[sc.pos]) {
		sc.pos++
	}
	name := sc.s[start:sc.pos]
	if sc.peek() == '!' {
		sc.pos++
		cmd.Force = true
	}
	if args := strings.Fields(sc.s[sc.pos:]); len(args) > 0 {
		cmd.Args = args
	}

	if name == "" {
		if cmd.Force || len(cmd.Args) > 0 {
			return cmd, syntaxError("not an editor command: %s", strings.TrimSpace(line))
		}
		return cmd, nil
	}

	v, ok := in.lookup(name)
	if !ok {
		return cmd, syntaxError("not an editor command: %s", name)
	}
	if r.IsSet() && !v.ranged {
		return cmd, syntaxError("no range allowed: %s", name)
	}
	cmd.Verb = v.name
	return cmd, nil
}
