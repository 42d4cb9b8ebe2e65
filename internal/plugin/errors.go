package plugin

import (
	"errors"
	"fmt"
)

// Plugin errors.
var (
	// ErrNoEditor is raised when an editor function is called while no
	// command is running, such as at script load time.
	ErrNoEditor = errors.New("no command is running")

	// ErrNoBuffer is raised when the editor has no open buffer.
	ErrNoBuffer = errors.New("no buffer is open")
)

// ScriptError describes a script that failed to load.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
