package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// Parse parses a single key specification: a character, or a Vim-style
// name in angle brackets such as "<C-s>", "<CR>", "<S-Up>".
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	if strings.HasPrefix(spec, "<") && len(spec) > 1 {
		if !strings.HasSuffix(spec, ">") {
			return Event{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, spec)
		}
		return parseBracketed(spec[1 : len(spec)-1])
	}
	r, size := utf8.DecodeRuneInString(spec)
	if size != len(spec) {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	return Rune(r), nil
}

// parseBracketed parses the inside of "<...>" like "C-s", "S-Up", "Esc".
func parseBracketed(inner string) (Event, error) {
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	// A trailing "-" is the key itself, as in "<C-->".
	parts := strings.Split(inner, "-")
	keyPart := parts[len(parts)-1]
	modParts := parts[:len(parts)-1]
	if keyPart == "" && len(parts) > 1 {
		keyPart = "-"
		modParts = parts[:len(parts)-2]
	}

	var mods Modifier
	for _, p := range modParts {
		m := modifierFromName(p)
		if m == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(m)
	}

	if k := FromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if r, ok := runeNames[strings.ToLower(keyPart)]; ok {
		return NewRuneEvent(r, mods), nil
	}
	r, size := utf8.DecodeRuneInString(keyPart)
	if size == len(keyPart) && r != utf8.RuneError {
		if mods.Has(ModCtrl) {
			return Ctrl(r).withMods(mods), nil
		}
		return NewRuneEvent(r, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

func (e Event) withMods(m Modifier) Event {
	e.Modifiers = m
	return e
}

// Sequence parses a run of keys such as "3dd" or "iZ<Esc>:w<CR>".
// A "<" that does not start a valid bracketed key is a literal '<'.
func Sequence(s string) ([]Event, error) {
	var out []Event
	for len(s) > 0 {
		if s[0] == '<' {
			if end := strings.IndexByte(s, '>'); end > 1 {
				if ev, err := Parse(s[:end+1]); err == nil {
					out = append(out, ev)
					s = s[end+1:]
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid UTF-8", ErrInvalidSpec)
		}
		out = append(out, Rune(r))
		s = s[size:]
	}
	return out, nil
}

// MustSequence is like Sequence but panics on error.
// Use only for known-valid specs in tests and initialization code.
func MustSequence(s string) []Event {
	events, err := Sequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return events
}
