package session

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vfs"
	"github.com/dshills/modal/internal/watcher"
)

// newTestSession returns a strict session over a MemFS holding files,
// with the first file (if any) open.
func newTestSession(t *testing.T, files map[string]string, opts ...Option) (*Session, *vfs.MemFS) {
	t.Helper()
	fsys := vfs.NewMemFS()
	for p, c := range files {
		fsys.AddFile(p, c)
	}
	opts = append([]Option{WithFS(fsys), WithStrict(true)}, opts...)
	return New(opts...), fsys
}

// withText returns a session whose only buffer is /work/a.txt holding
// text, with the cursor at p.
func withText(t *testing.T, text string, p buffer.Position, opts ...Option) (*Session, *vfs.MemFS) {
	t.Helper()
	s, fsys := newTestSession(t, map[string]string{"/work/a.txt": text}, opts...)
	require.NoError(t, s.Open("/work/a.txt"))
	s.SetCursor(p)
	return s, fsys
}

// feed sends keys and returns the last error HandleKey reported.
func feed(t *testing.T, s *Session, keys string) error {
	t.Helper()
	var last error
	for _, ev := range key.MustSequence(keys) {
		if err := s.HandleKey(context.Background(), ev); err != nil {
			last = err
		}
	}
	return last
}

func text(s *Session) string {
	return s.Buffer().Text()
}

func lines(s *Session) []string {
	return strings.Split(text(s), "\n")
}

// fakeWatcher records watched paths and delivers events by hand.
type fakeWatcher struct {
	watched map[string]int
	events  chan watcher.Event
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{watched: make(map[string]int), events: make(chan watcher.Event, 8)}
}

func (w *fakeWatcher) Watch(path string) error {
	w.watched[path]++
	return nil
}

func (w *fakeWatcher) Unwatch(path string) error {
	delete(w.watched, path)
	return nil
}

func (w *fakeWatcher) Events() <-chan watcher.Event { return w.events }
