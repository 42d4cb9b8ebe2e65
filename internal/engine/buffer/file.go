package buffer

import (
	"github.com/dshills/modal/internal/vfs"
)

// Load reads path from fsys into a new clean buffer. Pure CRLF files are
// held with "\n" and written back with "\r\n"; everything else is kept
// byte for byte.
func Load(fsys vfs.FS, path string, opts ...Option) (*Buffer, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := string(data)
	le := DetectLineEnding(raw)
	opts = append(opts[:len(opts):len(opts)], WithPath(path), WithLineEnding(le))
	return NewFromString(le.decode(raw), opts...), nil
}

// Bytes returns the content as it would be written to disk.
func (b *Buffer) Bytes() []byte {
	return []byte(b.lineEnding.encode(b.rope.String()))
}

// Save writes the buffer to path, or to its own path when path is "".
// On success the buffer adopts path and becomes clean.
func (b *Buffer) Save(fsys vfs.FS, path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return ErrNoPath
	}
	if err := fsys.WriteFile(path, b.Bytes(), vfs.DefaultPerm); err != nil {
		return err
	}
	b.path = path
	b.MarkSaved()
	return nil
}

// Reload replaces the content with the file on disk as a single undoable
// edit and marks the buffer clean.
func (b *Buffer) Reload(fsys vfs.FS) error {
	if b.path == "" {
		return ErrNoPath
	}
	data, err := fsys.ReadFile(b.path)
	if err != nil {
		return err
	}
	raw := string(data)
	b.lineEnding = DetectLineEnding(raw)
	b.replace(Range{Start: Pos(0, 0), End: b.End()}, b.lineEnding.decode(raw))
	b.MarkSaved()
	return nil
}
