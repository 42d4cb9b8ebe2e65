// Package watcher reports changes made to open files by other programs.
//
// Files are watched through their parent directory, since many tools
// save by writing a temporary file and renaming it over the original,
// which would silently end a watch on the file itself. Events for the
// same file arriving within the debounce delay are merged into one.
//
// The watcher only posts to a channel. Deciding whether a change came
// from the editor's own save is left to the receiver.
package watcher

import (
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNotWatching   = errors.New("path is not being watched")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

var opNames = []struct {
	op   Op
	name string
}{
	{OpCreate, "CREATE"},
	{OpWrite, "WRITE"},
	{OpRemove, "REMOVE"},
	{OpRename, "RENAME"},
	{OpChmod, "CHMOD"},
}

// String returns the operations joined with '|'.
func (op Op) String() string {
	s := ""
	for _, n := range opNames {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Gone reports whether the file no longer exists at its path.
func (op Op) Gone() bool {
	return op.Has(OpRemove) || op.Has(OpRename)
}

// Event is a change to a watched file.
type Event struct {
	// Path is the path as passed to Watch.
	Path string

	// Op holds every operation merged into this event.
	Op Op

	// Time is when the last merged operation occurred.
	Time time.Time
}
