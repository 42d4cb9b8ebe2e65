// Package vfs provides the file system abstraction the editor reads and
// writes buffers through.
//
// OSFS talks to the operating system and writes atomically (temporary
// file in the same directory, then rename), so a failed write never
// leaves a half-written file behind. MemFS keeps everything in memory
// and is used by tests.
package vfs

import (
	"io/fs"
	"time"
)

// FS is the file system surface used by the editor.
type FS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file content, creating it if necessary.
	// Implementations must not leave partial content on failure.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information.
	Stat(path string) (FileInfo, error)

	// Exists returns true if the path exists.
	Exists(path string) bool

	// Abs returns the absolute form of path.
	Abs(path string) (string, error)
}

// DefaultPerm is the mode used when a file is created.
const DefaultPerm fs.FileMode = 0o644

// FileInfo describes a file.
type FileInfo struct {
	path    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

// NewFileInfo creates a FileInfo from the given parameters.
func NewFileInfo(path string, size int64, mode fs.FileMode, modTime time.Time) FileInfo {
	return FileInfo{path: path, size: size, mode: mode, modTime: modTime}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.mode.IsDir() }

// SameState reports whether two infos describe the same size and
// modification time, i.e. the file was not rewritten in between.
func (fi FileInfo) SameState(other FileInfo) bool {
	return fi.size == other.size && fi.modTime.Equal(other.modTime)
}
