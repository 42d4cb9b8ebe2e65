package command

import (
	"errors"
	"fmt"
)

// Command errors.
var (
	// ErrSyntax indicates an unknown verb or a malformed range.
	ErrSyntax = errors.New("syntax error")

	// ErrFileIO indicates a read or write failed.
	ErrFileIO = errors.New("file i/o failed")

	// ErrNoSuchBuffer indicates a buffer reference matched nothing.
	ErrNoSuchBuffer = errors.New("no such buffer")

	// ErrUnsavedChanges indicates a modified buffer would be discarded.
	ErrUnsavedChanges = errors.New("no write since last change (add ! to override)")

	// ErrVerbTaken indicates a registration collides with an existing verb.
	ErrVerbTaken = errors.New("verb already defined")
)

// Error describes a failed command.
type Error struct {
	Verb   string // Verb being executed
	Target string // File path or buffer name, if any
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Verb
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrap returns an *Error whose chain holds both kind and cause, so
// errors.Is matches the command sentinel as well as the underlying
// error.
func wrap(verb, target string, kind, cause error) error {
	err := kind
	switch {
	case cause == nil:
	case errors.Is(cause, kind):
		err = cause
	default:
		err = fmt.Errorf("%w: %w", kind, cause)
	}
	return &Error{Verb: verb, Target: target, Err: err}
}

func syntaxError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSyntax, fmt.Sprintf(format, args...))
}
