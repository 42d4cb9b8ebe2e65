package buffer

import (
	"errors"
	"fmt"

	"github.com/dshills/modal/internal/engine/history"
)

// Errors returned by buffer operations.
var (
	// ErrOutOfBounds indicates a position outside the buffer, or a column
	// that splits a UTF-8 sequence.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidRange indicates a range whose start follows its end or
	// whose bounds are outside the buffer.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNoPath indicates a save without a path on a buffer that has none.
	ErrNoPath = errors.New("no file name")

	ErrNothingToUndo = history.ErrNothingToUndo
	ErrNothingToRedo = history.ErrNothingToRedo
)

// EditError describes a rejected edit.
type EditError struct {
	Op    string // insert, delete, replace, line
	Range Range
	Err   error
}

// Error implements the error interface.
func (e *EditError) Error() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("buffer: %s at %s: %v", e.Op, e.Range.Start, e.Err)
	}
	return fmt.Sprintf("buffer: %s %s: %v", e.Op, e.Range, e.Err)
}

// Unwrap returns the underlying error.
func (e *EditError) Unwrap() error {
	return e.Err
}
