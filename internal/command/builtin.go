package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/dshills/modal/internal/engine/buffer"
)

var errFileExists = errors.New("file exists (add ! to override)")

func (in *Interpreter) builtins() []*verb {
	return []*verb{
		{name: "edit", aliases: []string{"e", "open"}, run: in.edit},
		{name: "write", aliases: []string{"w"}, run: in.write},
		{name: "quit", aliases: []string{"q"}, run: in.quit},
		{name: "wq", run: in.writeQuit},
		{name: "xit", aliases: []string{"x"}, run: in.xit},
		{name: "qall", aliases: []string{"qa", "quitall"}, run: in.quitAll},
		{name: "enew", aliases: []string{"new"}, run: in.enew},
		{name: "bnext", aliases: []string{"bn"}, run: in.bufferStep(1)},
		{name: "bprevious", aliases: []string{"bp", "bNext", "bN"}, run: in.bufferStep(-1)},
		{name: "buffer", aliases: []string{"b"}, run: in.buffer},
		{name: "bdelete", aliases: []string{"bd"}, run: in.bufferDelete},
		{name: "buffers", aliases: []string{"ls", "files"}, run: in.list},
		{name: "delete", aliases: []string{"d"}, ranged: true, run: in.deleteLines},
		{name: "undo", aliases: []string{"u"}, run: in.undo},
		{name: "redo", aliases: []string{"red"}, run: in.redo},
		{name: "changes", run: in.changes},
	}
}

// path joins the arguments back into a single file name.
func argPath(cmd Command) string {
	return strings.Join(cmd.Args, " ")
}

func active(verb string, ed Editor) (*buffer.Buffer, error) {
	b := ed.Buffer()
	if b == nil {
		return nil, wrap(verb, "", ErrNoSuchBuffer, nil)
	}
	return b, nil
}

// lineTotal counts lines the way the status line reports them: a final
// newline ends the last line rather than starting a new one.
func lineTotal(b *buffer.Buffer) int {
	n := b.LineCount()
	if n > 1 && b.LineLen(n-1) == 0 {
		n--
	}
	if b.IsEmpty() {
		return 0
	}
	return n
}

func (in *Interpreter) edit(_ context.Context, cmd Command, ed Editor) error {
	name := argPath(cmd)
	if name == "" {
		b, err := active("edit", ed)
		if err != nil {
			return err
		}
		if b.Path() == "" {
			return wrap("edit", "", ErrFileIO, buffer.ErrNoPath)
		}
		if b.Dirty() && !in.discardOK(cmd, b.Name()) {
			return wrap("edit", b.Name(), ErrUnsavedChanges, nil)
		}
		if err := b.Reload(ed.FS()); err != nil {
			return wrap("edit", b.Path(), ErrFileIO, err)
		}
		ed.Track(b)
		ed.SetStatus(fmt.Sprintf("%q %dL, %dB", b.Name(), lineTotal(b), len(b.Bytes())))
		return nil
	}

	return Open(ed, name, in.bufOpts...)
}

// Open makes path the active buffer. A buffer already editing path is
// switched to; otherwise the file is loaded into a new buffer built
// with opts, and a missing file gives an empty buffer that is created
// on write. A pristine scratch buffer, the only one open and never
// edited, is replaced by the new one.
func Open(ed Editor, path string, opts ...buffer.Option) error {
	if i := FindPath(ed, path); i >= 0 {
		ed.Switch(i)
		return nil
	}
	scratch := pristine(ed)

	b, err := buffer.Load(ed.FS(), path, opts...)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		b = buffer.New(append(opts[:len(opts):len(opts)], buffer.WithPath(path))...)
		ed.SetStatus(fmt.Sprintf("%q [New]", path))
	case err != nil:
		return wrap("edit", path, ErrFileIO, err)
	default:
		ed.SetStatus(fmt.Sprintf("%q %dL, %dB", path, lineTotal(b), len(b.Bytes())))
	}
	ed.Add(b)
	ed.Track(b)
	if scratch {
		ed.Close(0)
	}
	return nil
}

// pristine reports whether the only open buffer is an untouched
// scratch buffer.
func pristine(ed Editor) bool {
	bufs := ed.Buffers()
	if len(bufs) != 1 {
		return false
	}
	b := bufs[0]
	return b.Path() == "" && b.IsEmpty() && !b.CanUndo()
}

// FindPath returns the index of the buffer editing name, or -1.
func FindPath(ed Editor, name string) int {
	want, err := ed.FS().Abs(name)
	if err != nil {
		want = name
	}
	for i, b := range ed.Buffers() {
		if b.Path() == "" {
			continue
		}
		have, err := ed.FS().Abs(b.Path())
		if err != nil {
			have = b.Path()
		}
		if have == want {
			return i
		}
	}
	return -1
}

func (in *Interpreter) write(_ context.Context, cmd Command, ed Editor) error {
	b, err := active("write", ed)
	if err != nil {
		return err
	}
	return in.save(cmd, b, ed)
}

func (in *Interpreter) save(cmd Command, b *buffer.Buffer, ed Editor) error {
	name := argPath(cmd)
	if name != "" && name != b.Path() && !cmd.Force && ed.FS().Exists(name) {
		return wrap("write", name, ErrFileIO, errFileExists)
	}
	target := name
	if target == "" {
		target = b.Path()
	}
	if err := b.Save(ed.FS(), name); err != nil {
		return wrap("write", target, ErrFileIO, err)
	}
	ed.Track(b)
	ed.SetStatus(fmt.Sprintf("%q %dL, %dB written", b.Name(), lineTotal(b), len(b.Bytes())))
	return nil
}

func (in *Interpreter) quit(_ context.Context, cmd Command, ed Editor) error {
	b := ed.Buffer()
	if b == nil {
		ed.Quit()
		return nil
	}
	if b.Dirty() && !in.discardOK(cmd, b.Name()) {
		return wrap("quit", b.Name(), ErrUnsavedChanges, nil)
	}
	ed.Close(ed.ActiveIndex())
	return nil
}

func (in *Interpreter) writeQuit(_ context.Context, cmd Command, ed Editor) error {
	b, err := active("wq", ed)
	if err != nil {
		return err
	}
	if err := in.save(cmd, b, ed); err != nil {
		return err
	}
	ed.Close(ed.ActiveIndex())
	return nil
}

// xit writes only when the buffer is modified, then closes it.
func (in *Interpreter) xit(_ context.Context, cmd Command, ed Editor) error {
	b, err := active("xit", ed)
	if err != nil {
		return err
	}
	if b.Dirty() || (len(cmd.Args) > 0 && argPath(cmd) != b.Path()) {
		if err := in.save(cmd, b, ed); err != nil {
			return err
		}
	}
	ed.Close(ed.ActiveIndex())
	return nil
}

func (in *Interpreter) quitAll(_ context.Context, cmd Command, ed Editor) error {
	var dirty []string
	for _, b := range ed.Buffers() {
		if b.Dirty() {
			dirty = append(dirty, b.Name())
		}
	}
	if len(dirty) > 0 && !in.discardOK(cmd, strings.Join(dirty, ", ")) {
		return wrap("qall", strings.Join(dirty, ", "), ErrUnsavedChanges, nil)
	}
	ed.Quit()
	return nil
}

func (in *Interpreter) enew(_ context.Context, _ Command, ed Editor) error {
	ed.Add(buffer.New(in.bufOpts...))
	return nil
}

func (in *Interpreter) bufferStep(dir int) Handler {
	return func(_ context.Context, cmd Command, ed Editor) error {
		n := len(ed.Buffers())
		if n == 0 {
			return wrap("bnext", "", ErrNoSuchBuffer, nil)
		}
		steps := 1
		if arg := cmd.Arg(0); arg != "" {
			k, err := strconv.Atoi(arg)
			if err != nil || k < 1 {
				return syntaxError("invalid count %q", arg)
			}
			steps = k
		}
		i := ((ed.ActiveIndex()+dir*steps)%n + n) % n
		ed.Switch(i)
		return nil
	}
}

// resolveBuffer finds a buffer by 1-based list number or by a unique
// substring of its name.
func resolveBuffer(ed Editor, ref string) (int, error) {
	bufs := ed.Buffers()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(bufs) {
			return -1, wrap("buffer", ref, ErrNoSuchBuffer, nil)
		}
		return n - 1, nil
	}
	found := -1
	for i, b := range bufs {
		if b.Name() == ref || b.Path() == ref {
			return i, nil
		}
		if strings.Contains(b.Name(), ref) {
			if found >= 0 {
				return -1, wrap("buffer", ref, ErrNoSuchBuffer, errors.New("more than one match"))
			}
			found = i
		}
	}
	if found < 0 {
		return -1, wrap("buffer", ref, ErrNoSuchBuffer, nil)
	}
	return found, nil
}

func (in *Interpreter) buffer(_ context.Context, cmd Command, ed Editor) error {
	ref := argPath(cmd)
	if ref == "" {
		return nil
	}
	i, err := resolveBuffer(ed, ref)
	if err != nil {
		return err
	}
	ed.Switch(i)
	return nil
}

func (in *Interpreter) bufferDelete(_ context.Context, cmd Command, ed Editor) error {
	i := ed.ActiveIndex()
	if ref := argPath(cmd); ref != "" {
		var err error
		if i, err = resolveBuffer(ed, ref); err != nil {
			return err
		}
	}
	bufs := ed.Buffers()
	if i < 0 || i >= len(bufs) {
		return wrap("bdelete", "", ErrNoSuchBuffer, nil)
	}
	b := bufs[i]
	if b.Dirty() && !in.discardOK(cmd, b.Name()) {
		return wrap("bdelete", b.Name(), ErrUnsavedChanges, nil)
	}
	ed.Close(i)
	return nil
}

func (in *Interpreter) list(_ context.Context, _ Command, ed Editor) error {
	var lines []string
	for i, b := range ed.Buffers() {
		flags := "  "
		if i == ed.ActiveIndex() {
			flags = "%a"
		}
		mod := " "
		if b.Dirty() {
			mod = "+"
		}
		lines = append(lines, fmt.Sprintf("%3d %s %s %q", i+1, flags, mod, b.Name()))
	}
	ed.SetStatus(strings.Join(lines, "\n"))
	return nil
}

// deleteLines removes whole lines, by default the cursor line, and
// puts them in the register.
func (in *Interpreter) deleteLines(_ context.Context, cmd Command, ed Editor) error {
	b, err := active("delete", ed)
	if err != nil {
		return err
	}
	from, to, err := cmd.Range.Resolve(ed.Cursor().Line, b.LineCount())
	if err != nil {
		return err
	}
	r, text := LineSpan(b, from, to)
	if _, err := b.Delete(r); err != nil {
		return err
	}
	ed.Yank(text, true)
	ed.GotoLine(min(from, b.LineCount()-1))
	if n := to - from + 1; n >= 3 {
		ed.SetStatus(fmt.Sprintf("%d fewer lines", n))
	}
	return nil
}

// LineSpan returns the range covering lines from..to (0-based,
// inclusive) together with their newline, and the lines as register
// text ending in "\n". When the span reaches the last line the newline
// before it is taken instead, so no empty line is left behind.
func LineSpan(b *buffer.Buffer, from, to int) (buffer.Range, string) {
	last := b.LineCount() - 1
	lines := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		l, _ := b.Line(i)
		lines = append(lines, l)
	}
	text := strings.Join(lines, "\n") + "\n"

	switch {
	case to < last:
		return buffer.Range{Start: buffer.Pos(from, 0), End: buffer.Pos(to+1, 0)}, text
	case from > 0:
		return buffer.Range{Start: buffer.Pos(from-1, b.LineLen(from-1)), End: b.End()}, text
	default:
		return buffer.Range{Start: buffer.Pos(0, 0), End: b.End()}, text
	}
}

func (in *Interpreter) undo(_ context.Context, _ Command, ed Editor) error {
	b, err := active("undo", ed)
	if err != nil {
		return err
	}
	pos, err := b.Undo()
	if err != nil {
		return &Error{Verb: "undo", Err: err}
	}
	ed.SetCursor(pos)
	return nil
}

func (in *Interpreter) redo(_ context.Context, _ Command, ed Editor) error {
	b, err := active("redo", ed)
	if err != nil {
		return err
	}
	pos, err := b.Redo()
	if err != nil {
		return &Error{Verb: "redo", Err: err}
	}
	ed.SetCursor(pos)
	return nil
}

// changes shows a unified diff of the buffer against its file.
func (in *Interpreter) changes(_ context.Context, _ Command, ed Editor) error {
	b, err := active("changes", ed)
	if err != nil {
		return err
	}
	if b.Path() == "" {
		return wrap("changes", "", ErrFileIO, buffer.ErrNoPath)
	}
	disk, err := ed.FS().ReadFile(b.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrap("changes", b.Path(), ErrFileIO, err)
	}
	diff := Diff(b.Path(), string(disk), string(b.Bytes()))
	if diff == "" {
		ed.SetStatus("no changes")
		return nil
	}
	ed.SetStatus(strings.TrimRight(diff, "\n"))
	return nil
}

// Diff returns the unified diff from before to after, or "" when they
// are equal.
func Diff(name, before, after string) string {
	if before == after {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits))
}

// gotoLine handles a bare range such as ":12" or ":$". Lines past
// either end are clamped.
func (in *Interpreter) gotoLine(_ context.Context, cmd Command, ed Editor) error {
	b, err := active("goto", ed)
	if err != nil {
		return err
	}
	addr := cmd.Range.Start
	if cmd.Range.Addrs == 2 {
		addr = cmd.Range.End
	}
	line := addr.resolve(ed.Cursor().Line+1, b.LineCount())
	ed.GotoLine(min(max(line, 1), b.LineCount()) - 1)
	return nil
}
