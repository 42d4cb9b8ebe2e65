package command

import (
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/vfs"
)

// fakeEditor is a minimal Editor over a MemFS.
type fakeEditor struct {
	fs       *vfs.MemFS
	bufs     []*buffer.Buffer
	idx      int
	cursor   buffer.Position
	status   string
	register string
	linewise bool
	tracked  []*buffer.Buffer
	quit     bool
}

func newFakeEditor(bufs ...*buffer.Buffer) *fakeEditor {
	return &fakeEditor{fs: vfs.NewMemFS(), bufs: bufs}
}

func (e *fakeEditor) Buffer() *buffer.Buffer {
	if len(e.bufs) == 0 {
		return nil
	}
	return e.bufs[e.idx]
}

func (e *fakeEditor) Buffers() []*buffer.Buffer { return e.bufs }
func (e *fakeEditor) ActiveIndex() int          { return e.idx }
func (e *fakeEditor) Switch(i int)              { e.idx = i }

func (e *fakeEditor) Add(b *buffer.Buffer) {
	e.bufs = append(e.bufs, b)
	e.idx = len(e.bufs) - 1
}

func (e *fakeEditor) Close(i int) {
	e.bufs = append(e.bufs[:i], e.bufs[i+1:]...)
	if len(e.bufs) == 0 {
		e.quit = true
		e.idx = 0
		return
	}
	e.idx = min(e.idx, len(e.bufs)-1)
}

func (e *fakeEditor) Quit() {
	e.bufs = nil
	e.quit = true
}

func (e *fakeEditor) Cursor() buffer.Position       { return e.cursor }
func (e *fakeEditor) SetCursor(pos buffer.Position) { e.cursor = pos }
func (e *fakeEditor) GotoLine(line int)             { e.cursor = buffer.Pos(line, 0) }

func (e *fakeEditor) InsertText(s string) error {
	end, err := e.Buffer().Insert(e.cursor, s)
	e.cursor = end
	return err
}

func (e *fakeEditor) Yank(text string, linewise bool) {
	e.register, e.linewise = text, linewise
}

func (e *fakeEditor) Track(b *buffer.Buffer) { e.tracked = append(e.tracked, b) }
func (e *fakeEditor) FS() vfs.FS             { return e.fs }
func (e *fakeEditor) SetStatus(msg string)   { e.status = msg }
