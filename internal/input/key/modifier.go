package key

import "strings"

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String returns the Vim-style prefix, e.g. "C-S-".
func (m Modifier) String() string {
	var sb strings.Builder
	if m.Has(ModCtrl) {
		sb.WriteString("C-")
	}
	if m.Has(ModAlt) {
		sb.WriteString("A-")
	}
	if m.Has(ModMeta) {
		sb.WriteString("D-")
	}
	if m.Has(ModShift) {
		sb.WriteString("S-")
	}
	return sb.String()
}

func modifierFromName(name string) Modifier {
	switch strings.ToLower(name) {
	case "c", "ctrl":
		return ModCtrl
	case "a", "alt", "m":
		return ModAlt
	case "s", "shift":
		return ModShift
	case "d", "meta", "cmd":
		return ModMeta
	}
	return ModNone
}
