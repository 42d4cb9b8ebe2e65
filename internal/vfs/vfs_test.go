package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFSWriteFileIsAtomic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "file.txt")
	fsys := NewOSFS()

	require.NoError(t, fsys.WriteFile(p, []byte("first"), DefaultPerm))
	require.NoError(t, fsys.WriteFile(p, []byte("second\r\n"), DefaultPerm))

	data, err := fsys.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second\r\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestOSFSKeepsPermissions(t *testing.T) {
	p := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755))

	fsys := NewOSFS()
	require.NoError(t, fsys.WriteFile(p, []byte("#!/bin/sh\necho hi\n"), DefaultPerm))

	info, err := fsys.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())
}

func TestOSFSErrors(t *testing.T) {
	dir := t.TempDir()
	fsys := NewOSFS()

	_, err := fsys.ReadFile(filepath.Join(dir, "missing"))
	var pe *PathError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "read", pe.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	err = fsys.WriteFile(dir, []byte("x"), DefaultPerm)
	assert.ErrorIs(t, err, ErrIsDirectory)

	err = fsys.WriteFile(filepath.Join(dir, "no", "such", "dir.txt"), []byte("x"), DefaultPerm)
	assert.Error(t, err)

	assert.False(t, fsys.Exists(filepath.Join(dir, "missing")))
	assert.True(t, fsys.Exists(dir))
}

func TestMemFS(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/a/b.txt", "hello")

	data, err := m.ReadFile("/a/../a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data[0] = 'J'
	again, _ := m.ReadFile("/a/b.txt")
	assert.Equal(t, "hello", string(again), "ReadFile must return a copy")

	require.NoError(t, m.WriteFile("/a/c.txt", []byte("x"), DefaultPerm))
	info, err := m.Stat("/a/c.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.Size())

	_, err = m.Stat("/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	abs, err := m.Abs("rel.txt")
	require.NoError(t, err)
	assert.Equal(t, "/rel.txt", abs)
}

func TestMemFSFailWrites(t *testing.T) {
	m := NewMemFS()
	m.FailWrites = errors.New("disk full")
	err := m.WriteFile("/x", []byte("x"), DefaultPerm)
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, m.Exists("/x"))
}

func TestMemFSRemove(t *testing.T) {
	m := NewMemFS()
	m.AddFile("/dir/a.txt", "a")
	require.NoError(t, m.Remove("/dir/./a.txt"))
	assert.False(t, m.Exists("/dir/a.txt"))
	assert.ErrorIs(t, m.Remove("/dir/a.txt"), fs.ErrNotExist)
}
