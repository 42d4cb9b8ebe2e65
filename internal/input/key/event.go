package key

import (
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Rune returns an unmodified character event.
func Rune(r rune) Event {
	return NewRuneEvent(r, ModNone)
}

// Special returns an unmodified special key event.
func Special(k Key) Event {
	return NewSpecialEvent(k, ModNone)
}

// Ctrl returns a Ctrl+r event.
func Ctrl(r rune) Event {
	return NewRuneEvent(unicode.ToLower(r), ModCtrl)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified returns true if Ctrl, Alt or Meta is pressed. Shift alone
// is part of the character for rune events.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return e.Modifiers != ModNone
}

// IsPrintable returns true for an unmodified printable character.
func (e Event) IsPrintable() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// Is reports whether e is the unmodified character r.
func (e Event) Is(r rune) bool {
	return e.IsRune() && !e.IsModified() && e.Rune == r
}

// IsCtrl reports whether e is Ctrl plus the character r.
func (e Event) IsCtrl(r rune) bool {
	return e.IsRune() && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == ModCtrl && unicode.ToLower(e.Rune) == unicode.ToLower(r)
}

// IsKey reports whether e is the special key k without Ctrl, Alt or
// Meta.
func (e Event) IsKey(k Key) bool {
	return e.Key == k && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// String returns the Vim-style notation of the event.
// Examples: "a", "<Esc>", "<C-r>", "<S-Up>", "<Space>"
func (e Event) String() string {
	if e.IsRune() && !e.IsModified() {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	mods := e.Modifiers
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(unicode.ToLower(e.Rune))
		if e.Rune == ' ' {
			name = "Space"
		}
		mods &^= ModShift
	}
	return "<" + mods.String() + name + ">"
}
