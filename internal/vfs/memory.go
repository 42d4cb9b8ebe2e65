package vfs

import (
	"io/fs"
	"path"
	"sync"
	"time"
)

// MemFS implements FS in memory. Paths are cleaned with path.Clean and
// directories are implicit.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	now   func() time.Time

	// FailWrites makes every WriteFile fail with this error.
	FailWrites error
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		now:   time.Now,
	}
}

// Ensure MemFS implements FS.
var _ FS = (*MemFS)(nil)

// AddFile creates or replaces a file with the given content.
func (m *MemFS) AddFile(filePath, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(filePath)] = &memFile{
		content: []byte(content),
		mode:    DefaultPerm,
		modTime: m.now(),
	}
}

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = path.Clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, &PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), f.content...), nil
}

// WriteFile writes data to a file, creating it if necessary.
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = path.Clean(filePath)
	if m.FailWrites != nil {
		return &PathError{Op: "write", Path: filePath, Err: m.FailWrites}
	}
	if f, ok := m.files[filePath]; ok {
		perm = f.mode
	}
	m.files[filePath] = &memFile{
		content: append([]byte(nil), data...),
		mode:    perm,
		modTime: m.now(),
	}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = path.Clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return FileInfo{}, &PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
	}
	return NewFileInfo(filePath, int64(len(f.content)), f.mode, f.modTime), nil
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path.Clean(filePath)]
	return ok
}

// Abs returns the cleaned path rooted at "/".
func (m *MemFS) Abs(filePath string) (string, error) {
	if !path.IsAbs(filePath) {
		filePath = "/" + filePath
	}
	return path.Clean(filePath), nil
}

// Remove deletes a file.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = path.Clean(filePath)
	if _, ok := m.files[filePath]; !ok {
		return &PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}
	delete(m.files, filePath)
	return nil
}
