// Package session composes buffers, cursors, the mode machine and the
// command interpreter into one editor.
//
// A Session is single-threaded: HandleKey processes one event fully
// before the next, and only the highlighter reads buffer snapshots from
// another goroutine. Watcher notifications are drained by Run between
// key events.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/dshills/modal/internal/command"
	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/engine/cursor"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/logging"
	"github.com/dshills/modal/internal/vfs"
	"github.com/dshills/modal/internal/watcher"
)

// view is an open buffer with its cursors.
type view struct {
	buf    *buffer.Buffer
	cursor *cursor.Model
	top    int
	stop   func()
}

// Register is the unnamed register filled by yanks and deletes.
type Register struct {
	Text     string
	Linewise bool
}

// Session is an editor: open buffers, one active, driven by keys.
type Session struct {
	cfg     config.Config
	log     zerolog.Logger
	fs      vfs.FS
	machine *mode.Machine
	interp  *command.Interpreter
	confirm command.Confirmer
	hook    highlight.Hook
	watcher FileWatcher
	strict  bool

	views    []*view
	active   int
	register Register
	status   string

	// disk holds the file state each buffer last read or wrote.
	disk    map[buffer.ID]vfs.FileInfo
	watched map[buffer.ID]string
}

var _ command.Editor = (*Session)(nil)

// New creates a session holding one empty buffer.
func New(opts ...Option) *Session {
	s := &Session{
		cfg:     config.Default(),
		log:     zerolog.Nop(),
		fs:      vfs.NewOSFS(),
		disk:    make(map[buffer.ID]vfs.FileInfo),
		watched: make(map[buffer.ID]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Component(s.log, "session")

	s.machine = mode.NewMachine(mode.WithHistorySize(s.cfg.Editor.CommandHistory))
	s.machine.OnModeChange(func(from, to mode.Mode) {
		s.log.Debug().Stringer("from", from).Stringer("to", to).Msg("mode change")
	})
	s.interp = command.NewInterpreter(
		command.WithConfirmer(s.confirm),
		command.WithBufferOptions(s.bufferOptions()...),
	)
	s.Add(buffer.New(s.bufferOptions()...))
	return s
}

func (s *Session) bufferOptions() []buffer.Option {
	return []buffer.Option{buffer.WithMaxUndo(s.cfg.Editor.MaxUndo)}
}

// Interpreter returns the command interpreter, for registering verbs.
func (s *Session) Interpreter() *command.Interpreter { return s.interp }

// Config returns the editor options.
func (s *Session) Config() config.Config { return s.cfg }

// Mode returns the current mode.
func (s *Session) Mode() mode.Mode { return s.machine.Mode() }

// Closed reports whether the session reached Closing.
func (s *Session) Closed() bool { return s.machine.Mode() == mode.Closing }

// Status returns the message shown under the status line.
func (s *Session) Status() string { return s.status }

// Register returns the unnamed register.
func (s *Session) Register() Register { return s.register }

// Open opens path in a new buffer, or switches to it when it is already
// open. A missing file gives an empty buffer that will be created on
// write. The pristine buffer New starts with is replaced. The same rule
// backs :edit.
func (s *Session) Open(path string) error {
	if err := command.Open(s, path, s.bufferOptions()...); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("open failed")
		return err
	}
	s.log.Info().Str("path", path).Msg("opened")
	return nil
}

// Execute runs a command line as if typed after ':'. Errors are also
// shown on the status line.
func (s *Session) Execute(ctx context.Context, line string) error {
	if s.Closed() {
		return ErrClosed
	}
	s.log.Info().Str("command", line).Msg("execute")
	err := s.interp.Run(ctx, line, s)
	if err != nil {
		s.status = err.Error()
		if errors.Is(err, command.ErrFileIO) {
			s.log.Warn().Err(err).Str("command", line).Msg("command failed")
		} else {
			s.log.Info().Err(err).Str("command", line).Msg("command refused")
		}
	}
	return err
}

// Run feeds keys to HandleKey and watcher notifications to FileChanged
// until the session closes, keys is closed or ctx is done. draw, if not
// nil, runs after every processed event.
func (s *Session) Run(ctx context.Context, keys <-chan key.Event, draw func()) error {
	var changes <-chan watcher.Event
	if s.watcher != nil {
		changes = s.watcher.Events()
	}
	if draw != nil {
		draw()
	}
	for !s.Closed() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-keys:
			if !ok {
				return nil
			}
			_ = s.HandleKey(ctx, ev)
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.FileChanged(ev)
		}
		if draw != nil {
			draw()
		}
	}
	return nil
}

func (s *Session) view() *view {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[s.active]
}

// Buffer returns the active buffer, or nil once every buffer is closed.
func (s *Session) Buffer() *buffer.Buffer {
	if v := s.view(); v != nil {
		return v.buf
	}
	return nil
}

// Buffers returns the open buffers in list order.
func (s *Session) Buffers() []*buffer.Buffer {
	out := make([]*buffer.Buffer, len(s.views))
	for i, v := range s.views {
		out[i] = v.buf
	}
	return out
}

// ActiveIndex returns the index of the active buffer.
func (s *Session) ActiveIndex() int { return s.active }

// Switch makes buffer i active.
func (s *Session) Switch(i int) {
	if i >= 0 && i < len(s.views) {
		s.active = i
	}
}

// Add appends b to the buffer list and makes it active.
func (s *Session) Add(b *buffer.Buffer) {
	v := &view{buf: b, cursor: cursor.NewModel(b)}
	v.stop = b.OnChange(func(c buffer.Change) {
		v.cursor.Remap(c)
		if s.hook != nil {
			s.hook.Invalidate(highlight.Invalidation{
				Buffer:   b.ID(),
				Range:    c.NewRange(),
				Snapshot: b.Snapshot(),
			})
		}
	})
	s.views = append(s.views, v)
	s.active = len(s.views) - 1
	if s.hook != nil {
		s.hook.Invalidate(highlight.Invalidation{
			Buffer:   b.ID(),
			Range:    buffer.Range{End: b.End()},
			Snapshot: b.Snapshot(),
		})
	}
}

// Close removes buffer i. Closing the last buffer ends the session.
func (s *Session) Close(i int) {
	if i < 0 || i >= len(s.views) {
		return
	}
	v := s.views[i]
	v.stop()
	s.forget(v.buf)
	s.views = slices.Delete(s.views, i, i+1)

	if len(s.views) == 0 {
		s.active = 0
		s.log.Info().Msg("last buffer closed")
		s.machine.SetMode(mode.Closing)
		return
	}
	if s.active > i {
		s.active--
	}
	s.active = min(s.active, len(s.views)-1)
}

// Quit closes every buffer and ends the session.
func (s *Session) Quit() {
	for len(s.views) > 0 {
		s.Close(len(s.views) - 1)
	}
}

// Cursor returns the primary cursor position.
func (s *Session) Cursor() buffer.Position {
	if v := s.view(); v != nil {
		return v.cursor.Primary()
	}
	return buffer.Position{}
}

// Cursors returns every cursor position of the active buffer.
func (s *Session) Cursors() []buffer.Position {
	if v := s.view(); v != nil {
		return v.cursor.Heads()
	}
	return nil
}

// SetCursor collapses the cursors to pos.
func (s *Session) SetCursor(pos buffer.Position) {
	if v := s.view(); v != nil {
		v.cursor.MoveTo(pos)
	}
}

// AddCursor adds a cursor at pos.
func (s *Session) AddCursor(pos buffer.Position) {
	if v := s.view(); v != nil {
		v.cursor.AddCursor(pos)
	}
}

// GotoLine puts the cursor on the first non-blank of line.
func (s *Session) GotoLine(line int) {
	if v := s.view(); v != nil {
		v.cursor.MoveTo(buffer.Pos(line, 0))
		v.cursor.MoveBy(cursor.FirstNonBlank)
	}
}

// InsertText inserts text at every cursor as one undoable edit.
func (s *Session) InsertText(text string) error {
	v := s.view()
	if v == nil {
		return command.ErrNoSuchBuffer
	}
	var err error
	s.change(v, func() {
		err = s.eachCursor(v, func(p buffer.Position) error {
			_, err := v.buf.Insert(p, text)
			return err
		})
	})
	return err
}

// Yank stores text in the unnamed register.
func (s *Session) Yank(text string, linewise bool) {
	s.register = Register{Text: text, Linewise: linewise}
}

// FS returns the file system.
func (s *Session) FS() vfs.FS { return s.fs }

// SetStatus sets the status message.
func (s *Session) SetStatus(msg string) { s.status = msg }

// Track records b's file state after a read or write and watches its
// path for changes by other programs.
func (s *Session) Track(b *buffer.Buffer) {
	path := b.Path()
	if path == "" {
		return
	}
	if info, err := s.fs.Stat(path); err == nil {
		s.disk[b.ID()] = info
	} else {
		delete(s.disk, b.ID())
	}

	if s.watcher == nil {
		return
	}
	if old, ok := s.watched[b.ID()]; ok {
		if old == path {
			return
		}
		s.unwatch(b.ID(), old)
	}
	if err := s.watcher.Watch(path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("cannot watch file")
		return
	}
	s.watched[b.ID()] = path
}

// forget drops everything tracked for b.
func (s *Session) forget(b *buffer.Buffer) {
	delete(s.disk, b.ID())
	if path, ok := s.watched[b.ID()]; ok {
		s.unwatch(b.ID(), path)
	}
}

// unwatch stops watching path for id unless another buffer still
// shows the same file.
func (s *Session) unwatch(id buffer.ID, path string) {
	delete(s.watched, id)
	for _, p := range s.watched {
		if p == path {
			return
		}
	}
	if err := s.watcher.Unwatch(path); err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("unwatch")
	}
}

// FileChanged reports on the status line that a file shown in a buffer
// was changed or removed by another program. Events for our own writes
// are recognised by the file state Track recorded and ignored.
func (s *Session) FileChanged(ev watcher.Event) {
	target := s.abs(ev.Path)
	for _, v := range s.views {
		b := v.buf
		if b.Path() == "" || s.abs(b.Path()) != target {
			continue
		}
		if ev.Op.Gone() && !s.fs.Exists(b.Path()) {
			delete(s.disk, b.ID())
			s.status = fmt.Sprintf("%q was removed from disk", b.Name())
			s.log.Info().Str("path", b.Path()).Msg("file removed externally")
			continue
		}
		info, err := s.fs.Stat(b.Path())
		if err != nil {
			continue
		}
		if prev, ok := s.disk[b.ID()]; ok && prev.SameState(info) {
			continue
		}
		s.disk[b.ID()] = info
		reload := ":e"
		if b.Dirty() {
			reload = ":e!"
		}
		s.status = fmt.Sprintf("%q changed on disk; %s to reload", b.Name(), reload)
		s.log.Info().Str("path", b.Path()).Stringer("op", ev.Op).Msg("file changed externally")
	}
}

func (s *Session) abs(path string) string {
	if a, err := s.fs.Abs(path); err == nil {
		return a
	}
	return path
}
