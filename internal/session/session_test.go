package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/command"
	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/watcher"
)

func TestNewStartsWithScratchBuffer(t *testing.T) {
	s, _ := newTestSession(t, nil)
	require.Len(t, s.Buffers(), 1)
	assert.Equal(t, buffer.NoName, s.Buffer().Name())
	assert.Equal(t, mode.Normal, s.Mode())
	assert.False(t, s.Closed())
}

func TestOpenReplacesScratchBuffer(t *testing.T) {
	s, _ := newTestSession(t, map[string]string{"/work/a.txt": "abc", "/work/b.txt": "b"})
	require.NoError(t, s.Open("/work/a.txt"))
	require.Len(t, s.Buffers(), 1)
	assert.Equal(t, "abc", text(s))
	assert.Equal(t, `"/work/a.txt" 1L, 3B`, s.Status())

	require.NoError(t, s.Open("/work/b.txt"))
	assert.Len(t, s.Buffers(), 2)
	assert.Equal(t, 1, s.ActiveIndex())
}

func TestOpenSamePathSwitches(t *testing.T) {
	s, _ := newTestSession(t, map[string]string{"/work/a.txt": "abc", "/work/b.txt": "b"})
	require.NoError(t, s.Open("/work/a.txt"))
	require.NoError(t, s.Open("/work/b.txt"))
	require.NoError(t, s.Open("/work/a.txt"))
	assert.Len(t, s.Buffers(), 2)
	assert.Equal(t, 0, s.ActiveIndex())

	require.NoError(t, s.Execute(context.Background(), "e /work/../work/b.txt"))
	assert.Len(t, s.Buffers(), 2)
	assert.Equal(t, 1, s.ActiveIndex())
}

func TestEditReplacesScratchBuffer(t *testing.T) {
	s, _ := newTestSession(t, map[string]string{"/work/a.txt": "abc"})
	require.NoError(t, s.Execute(context.Background(), "e /work/a.txt"))
	require.Len(t, s.Buffers(), 1)
	assert.Equal(t, "abc", text(s))
	assert.Equal(t, `"/work/a.txt" 1L, 3B`, s.Status())
}

func TestInsertAfterLatin1Byte(t *testing.T) {
	s, _ := withText(t, "x \xa3y", buffer.Pos(0, 0))
	require.NoError(t, feed(t, s, "w"))
	assert.Equal(t, buffer.Pos(0, 2), s.Cursor())
	require.NoError(t, feed(t, s, "iZ<Esc>"))
	assert.Equal(t, "x Z\xa3y", text(s))

	s, _ = withText(t, "a\xa3bc", buffer.Pos(0, 0))
	require.NoError(t, feed(t, s, "llx"))
	assert.Equal(t, "a\xa3c", text(s))
}

func TestOpenMissingFileCreatesBuffer(t *testing.T) {
	s, fsys := newTestSession(t, nil)
	require.NoError(t, s.Open("/work/new.txt"))
	assert.Equal(t, "/work/new.txt", s.Buffer().Path())
	assert.Contains(t, s.Status(), "[New]")
	assert.False(t, fsys.Exists("/work/new.txt"))
}

func TestInsertScenario(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 1))

	require.NoError(t, feed(t, s, "iZ<Esc>"))
	assert.Equal(t, "aZbc", text(s))
	assert.Equal(t, buffer.Pos(0, 2), s.Cursor())
	assert.Equal(t, mode.Normal, s.Mode())
	assert.True(t, s.Buffer().Dirty())

	require.NoError(t, feed(t, s, "u"))
	assert.Equal(t, "abc", text(s))
	assert.Equal(t, buffer.Pos(0, 1), s.Cursor())
	assert.False(t, s.Buffer().Dirty())

	require.NoError(t, feed(t, s, "<C-r>"))
	assert.Equal(t, "aZbc", text(s))
	assert.Equal(t, buffer.Pos(0, 2), s.Cursor())
}

func TestInsertSessionIsOneUndoUnit(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 3))
	feed(t, s, "a one<CR>two<Esc>")
	assert.Equal(t, []string{"abc one", "two"}, lines(s))

	feed(t, s, "u")
	assert.Equal(t, "abc", text(s))
	feed(t, s, "u")
	assert.Equal(t, "Already at oldest change", s.Status())
}

func TestInsertVariants(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{"iX<Esc>", "  foXo bar"},
		{"aX<Esc>", "  fooX bar"},
		{"AX<Esc>", "  foo barX"},
		{"IX<Esc>", "  Xfoo bar"},
		{"oX<Esc>", "  foo bar\nX"},
		{"OX<Esc>", "X\n  foo bar"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			s, _ := withText(t, "  foo bar", buffer.Pos(0, 4))
			require.NoError(t, feed(t, s, tt.keys))
			assert.Equal(t, tt.want, text(s))

			feed(t, s, "u")
			assert.Equal(t, "  foo bar", text(s))
			assert.Equal(t, buffer.Pos(0, 4), s.Cursor())
		})
	}
}

func TestInsertEditing(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		at     buffer.Position
		keys   string
		want   string
		cursor buffer.Position
	}{
		{"enter splits", "abcd", buffer.Pos(0, 2), "i<CR><Esc>", "ab\ncd", buffer.Pos(1, 0)},
		{"backspace", "abcd", buffer.Pos(0, 2), "i<BS><Esc>", "acd", buffer.Pos(0, 1)},
		{"backspace joins", "ab\ncd", buffer.Pos(1, 0), "i<BS><Esc>", "abcd", buffer.Pos(0, 2)},
		{"backspace at start", "ab", buffer.Pos(0, 0), "i<BS><Esc>", "ab", buffer.Pos(0, 0)},
		{"backspace grapheme", "éx", buffer.Pos(0, 3), "i<BS><Esc>", "x", buffer.Pos(0, 0)},
		{"delete", "abcd", buffer.Pos(0, 1), "i<Del><Esc>", "acd", buffer.Pos(0, 1)},
		{"delete joins", "ab\ncd", buffer.Pos(0, 2), "i<Del><Esc>", "abcd", buffer.Pos(0, 2)},
		{"arrows", "abcd", buffer.Pos(0, 0), "i<Right><Right>X<Esc>", "abXcd", buffer.Pos(0, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := withText(t, tt.text, tt.at)
			require.NoError(t, feed(t, s, tt.keys))
			assert.Equal(t, tt.want, text(s))
			assert.Equal(t, tt.cursor, s.Cursor())
		})
	}
}

func TestTab(t *testing.T) {
	cfg := config.Default()
	s, _ := withText(t, "ab", buffer.Pos(0, 2), WithConfig(cfg))
	feed(t, s, "i<Tab>x<Tab><Esc>")
	assert.Equal(t, "ab  x   ", text(s))

	cfg.Editor.ExpandTab = false
	s, _ = withText(t, "ab", buffer.Pos(0, 2), WithConfig(cfg))
	feed(t, s, "i<Tab><Esc>")
	assert.Equal(t, "ab\t", text(s))
}

func TestReplaceMode(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 0))
	require.NoError(t, feed(t, s, "RXYZW<Esc>"))
	assert.Equal(t, "XYZW", text(s))
	assert.Equal(t, buffer.Pos(0, 4), s.Cursor())

	feed(t, s, "u")
	assert.Equal(t, "abc", text(s))
}

func TestNormalEdits(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		at       buffer.Position
		keys     string
		want     string
		cursor   buffer.Position
		register Register
	}{
		{"x", "abcdef", buffer.Pos(0, 1), "x", "acdef", buffer.Pos(0, 1), Register{Text: "b"}},
		{"counted x", "abcdef", buffer.Pos(0, 1), "3x", "aef", buffer.Pos(0, 1), Register{Text: "bcd"}},
		{"x stops at line end", "abc\ndef", buffer.Pos(0, 1), "10x", "a\ndef", buffer.Pos(0, 1), Register{Text: "bc"}},
		{"dd", "one\ntwo\nthree", buffer.Pos(1, 1), "dd", "one\nthree", buffer.Pos(1, 0), Register{Text: "two\n", Linewise: true}},
		{"dd last line", "one\n  two", buffer.Pos(1, 0), "dd", "one", buffer.Pos(0, 0), Register{Text: "  two\n", Linewise: true}},
		{"counted dd", "a\nb\nc\nd", buffer.Pos(1, 0), "2dd", "a\nd", buffer.Pos(1, 0), Register{Text: "b\nc\n", Linewise: true}},
		{"D", "hello world", buffer.Pos(0, 5), "D", "hello", buffer.Pos(0, 5), Register{Text: " world"}},
		{"dd then p", "one\ntwo\nthree", buffer.Pos(0, 0), "ddp", "two\none\nthree", buffer.Pos(1, 0), Register{Text: "one\n", Linewise: true}},
		{"dd then P", "one\ntwo\nthree", buffer.Pos(1, 0), "ddP", "one\ntwo\nthree", buffer.Pos(1, 0), Register{Text: "two\n", Linewise: true}},
		{"yy p at end", "a\n  b", buffer.Pos(1, 0), "yyp", "a\n  b\n  b", buffer.Pos(2, 2), Register{Text: "  b\n", Linewise: true}},
		{"counted p", "a", buffer.Pos(0, 0), "yy2p", "a\na\na", buffer.Pos(1, 0), Register{Text: "a\n", Linewise: true}},
		{"x then p", "abc", buffer.Pos(0, 0), "xp", "bac", buffer.Pos(0, 1), Register{Text: "a"}},
		{"x then P", "abc", buffer.Pos(0, 1), "xP", "abc", buffer.Pos(0, 1), Register{Text: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := withText(t, tt.text, tt.at)
			require.NoError(t, feed(t, s, tt.keys))
			assert.Equal(t, tt.want, text(s))
			assert.Equal(t, tt.cursor, s.Cursor())
			assert.Equal(t, tt.register, s.Register())
		})
	}
}

func TestEditUndoRestoresCursor(t *testing.T) {
	s, _ := withText(t, "one\ntwo\nthree", buffer.Pos(1, 2))
	feed(t, s, "dd")
	feed(t, s, "u")
	assert.Equal(t, "one\ntwo\nthree", text(s))
	assert.Equal(t, buffer.Pos(1, 2), s.Cursor())
}

func TestManyLinesStatus(t *testing.T) {
	s, _ := withText(t, "a\nb\nc\nd", buffer.Pos(0, 0))
	feed(t, s, "3yy")
	assert.Equal(t, "3 lines yanked", s.Status())
	feed(t, s, "3dd")
	assert.Equal(t, "3 fewer lines", s.Status())
	assert.Equal(t, "d", text(s))
}

func TestPutEmptyRegister(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 0))
	feed(t, s, "p")
	assert.Equal(t, "abc", text(s))
	assert.Equal(t, "nothing in register", s.Status())
}

func TestMotionsWithCounts(t *testing.T) {
	s, _ := withText(t, "one two three four\nx\ny\nz", buffer.Pos(0, 0))
	feed(t, s, "2w")
	assert.Equal(t, buffer.Pos(0, 8), s.Cursor())
	feed(t, s, "3l")
	assert.Equal(t, buffer.Pos(0, 11), s.Cursor())
	feed(t, s, "2j")
	assert.Equal(t, buffer.Pos(2, 1), s.Cursor())
	feed(t, s, "gg")
	assert.Equal(t, buffer.Pos(0, 0), s.Cursor())
	feed(t, s, "G")
	assert.Equal(t, buffer.Pos(3, 0), s.Cursor())
	feed(t, s, "2G")
	assert.Equal(t, buffer.Pos(1, 0), s.Cursor())
	feed(t, s, "$")
	assert.Equal(t, buffer.Pos(1, 1), s.Cursor())
}

func TestGotoLineCommand(t *testing.T) {
	s, _ := withText(t, "a\n  b\nc", buffer.Pos(0, 0))
	require.NoError(t, feed(t, s, ":2<CR>"))
	assert.Equal(t, buffer.Pos(1, 2), s.Cursor())
	require.NoError(t, feed(t, s, ":$<CR>"))
	assert.Equal(t, buffer.Pos(2, 0), s.Cursor())
}

func TestVisualMode(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		at       buffer.Position
		keys     string
		want     string
		cursor   buffer.Position
		register string
	}{
		{"delete includes head", "hello world", buffer.Pos(0, 0), "vlld", "lo world", buffer.Pos(0, 0), "hel"},
		{"x deletes", "hello world", buffer.Pos(0, 1), "vx", "hllo world", buffer.Pos(0, 1), "e"},
		{"backwards", "hello world", buffer.Pos(0, 4), "vhhd", "he world", buffer.Pos(0, 2), "llo"},
		{"yank", "hello world", buffer.Pos(0, 0), "wvey", "hello world", buffer.Pos(0, 6), "world"},
		{"across lines", "ab\ncd", buffer.Pos(0, 1), "vjd", "a", buffer.Pos(0, 1), "b\ncd"},
		{"to buffer end", "a\nb\nc", buffer.Pos(0, 0), "vGd", "", buffer.Pos(0, 0), "a\nb\nc"},
		{"line end takes newline", "ab\ncd", buffer.Pos(0, 0), "v$d", "cd", buffer.Pos(0, 0), "ab\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := withText(t, tt.text, tt.at)
			require.NoError(t, feed(t, s, tt.keys))
			assert.Equal(t, mode.Normal, s.Mode())
			assert.Equal(t, tt.want, text(s))
			assert.Equal(t, tt.cursor, s.Cursor())
			assert.Equal(t, Register{Text: tt.register}, s.Register())
		})
	}
}

func TestVisualCancel(t *testing.T) {
	s, _ := withText(t, "hello", buffer.Pos(0, 0))
	feed(t, s, "vll")
	snap := s.Snapshot(10)
	require.Len(t, snap.Selections, 1)
	assert.Equal(t, buffer.Range{Start: buffer.Pos(0, 0), End: buffer.Pos(0, 3)}, snap.Selections[0])

	feed(t, s, "<Esc>")
	assert.Equal(t, mode.Normal, s.Mode())
	assert.Empty(t, s.Snapshot(10).Selections)
	assert.Equal(t, "hello", text(s))
}

func TestVisualDeleteUndo(t *testing.T) {
	s, _ := withText(t, "hello world", buffer.Pos(0, 6))
	feed(t, s, "ved")
	assert.Equal(t, "hello ", text(s))
	feed(t, s, "u")
	assert.Equal(t, "hello world", text(s))
	assert.Equal(t, buffer.Pos(0, 6), s.Cursor())
}

func TestMultiCursorInsert(t *testing.T) {
	s, _ := withText(t, "ab\nab", buffer.Pos(0, 1))
	s.AddCursor(buffer.Pos(1, 1))

	feed(t, s, "iX<Esc>")
	assert.Equal(t, "aXb\naXb", text(s))
	assert.Equal(t, []buffer.Position{buffer.Pos(0, 2), buffer.Pos(1, 2)}, s.Cursors())

	feed(t, s, "u")
	assert.Equal(t, "ab\nab", text(s))
}

func TestMultiCursorSameLine(t *testing.T) {
	s, _ := withText(t, "a b c", buffer.Pos(0, 0))
	s.AddCursor(buffer.Pos(0, 2))
	s.AddCursor(buffer.Pos(0, 4))

	feed(t, s, "x")
	assert.Equal(t, "  ", text(s))
	assert.Equal(t, Register{Text: "a"}, s.Register())

	feed(t, s, "u")
	assert.Equal(t, "a b c", text(s))
}

func TestQuitDirtyBuffer(t *testing.T) {
	s, fsys := withText(t, "abc", buffer.Pos(0, 0))
	feed(t, s, "x")

	err := feed(t, s, ":q<CR>")
	require.ErrorIs(t, err, command.ErrUnsavedChanges)
	assert.False(t, s.Closed())
	assert.Equal(t, err.Error(), s.Status())
	assert.Equal(t, mode.Normal, s.Mode())

	require.NoError(t, feed(t, s, ":q!<CR>"))
	assert.True(t, s.Closed())
	assert.Equal(t, mode.Closing, s.Mode())

	data, err := fsys.ReadFile("/work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	assert.ErrorIs(t, s.HandleKey(context.Background(), key.Rune('i')), ErrClosed)
	assert.ErrorIs(t, s.Execute(context.Background(), "q"), ErrClosed)
	assert.Equal(t, mode.Closing, s.Snapshot(10).Mode)
}

func TestQuitWithConfirmer(t *testing.T) {
	var prompts []string
	confirm := command.ConfirmFunc(func(prompt string) bool {
		prompts = append(prompts, prompt)
		return true
	})
	s, _ := withText(t, "abc", buffer.Pos(0, 0), WithConfirmer(confirm))
	feed(t, s, "x")

	require.NoError(t, feed(t, s, ":q<CR>"))
	assert.True(t, s.Closed())
	assert.Len(t, prompts, 1)
}

func TestWriteNewName(t *testing.T) {
	s, fsys := withText(t, "abc", buffer.Pos(0, 0))
	feed(t, s, "x")

	require.NoError(t, feed(t, s, ":w newname.txt<CR>"))
	data, err := fsys.ReadFile("newname.txt")
	require.NoError(t, err)
	assert.Equal(t, "bc", string(data))
	assert.False(t, s.Buffer().Dirty())
	assert.Equal(t, "newname.txt", s.Buffer().Path())
	assert.Contains(t, s.Status(), "written")

	orig, _ := fsys.ReadFile("/work/a.txt")
	assert.Equal(t, "abc", string(orig))
}

func TestOpenWriteRoundTrip(t *testing.T) {
	for _, content := range []string{
		"plain\ntext\n",
		"crlf\r\nlines\r\n",
		"mixed\r\nendings\nhere",
		"",
		"no newline at end",
	} {
		t.Run(fmt.Sprintf("%q", content), func(t *testing.T) {
			s, fsys := withText(t, content, buffer.Pos(0, 0))
			require.NoError(t, s.Execute(context.Background(), "w"))
			data, err := fsys.ReadFile("/work/a.txt")
			require.NoError(t, err)
			assert.Equal(t, content, string(data))
		})
	}
}

func TestCommandErrorsLeaveStateUnchanged(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 1))
	err := feed(t, s, ":frobnicate<CR>")
	require.ErrorIs(t, err, command.ErrSyntax)
	assert.Equal(t, "abc", text(s))
	assert.Equal(t, buffer.Pos(0, 1), s.Cursor())
	assert.Equal(t, mode.Normal, s.Mode())
	assert.NotEmpty(t, s.Status())
}

func TestCommandHistory(t *testing.T) {
	s, _ := withText(t, "a\nb\nc", buffer.Pos(0, 0))
	feed(t, s, ":3<CR>")
	feed(t, s, ":1<CR>")
	feed(t, s, ":<Up><Up>")
	assert.Equal(t, "3", s.Snapshot(5).CommandLine)
	feed(t, s, "<CR>")
	assert.Equal(t, 2, s.Cursor().Line)
}

func TestRegisteredVerb(t *testing.T) {
	s, _ := withText(t, "abc", buffer.Pos(0, 3))
	err := s.Interpreter().Register("stamp", func(_ context.Context, cmd command.Command, ed command.Editor) error {
		return ed.InsertText("[" + strings.Join(cmd.Args, " ") + "]")
	})
	require.NoError(t, err)

	require.NoError(t, feed(t, s, ":stamp hi there<CR>"))
	assert.Equal(t, "abc[hi there]", text(s))
	feed(t, s, "u")
	assert.Equal(t, "abc", text(s))
}

func TestBufferCommands(t *testing.T) {
	s, _ := newTestSession(t, map[string]string{"/work/a.txt": "a", "/work/b.txt": "b"})
	require.NoError(t, s.Open("/work/a.txt"))
	require.NoError(t, s.Execute(context.Background(), "e /work/b.txt"))
	assert.Equal(t, "b", text(s))

	require.NoError(t, s.Execute(context.Background(), "bn"))
	assert.Equal(t, "a", text(s))
	require.NoError(t, s.Execute(context.Background(), "bd"))
	assert.Equal(t, "b", text(s))
	assert.Len(t, s.Buffers(), 1)
	require.NoError(t, s.Execute(context.Background(), "bd"))
	assert.True(t, s.Closed())
}

func TestHighlightHookSeesEdits(t *testing.T) {
	var got []highlight.Invalidation
	hook := highlight.HookFunc(func(inv highlight.Invalidation) {
		got = append(got, inv)
	})
	s, _ := withText(t, "abc\ndef", buffer.Pos(1, 0), WithHook(hook))
	got = nil

	feed(t, s, "iZ<Esc>")
	require.Len(t, got, 1)
	inv := got[0]
	assert.Equal(t, s.Buffer().ID(), inv.Buffer)
	assert.Equal(t, "Zdef", inv.Snapshot.Line(1))
	from, to := inv.Lines()
	assert.Equal(t, 1, from)
	assert.Equal(t, 1, to)

	feed(t, s, "u")
	require.Len(t, got, 2)
	assert.Equal(t, "def", got[1].Snapshot.Line(1))
}

func TestHighlighterIntegration(t *testing.T) {
	h := highlight.New()
	h.Start()
	defer h.Close()

	s, _ := newTestSession(t, map[string]string{"/work/main.go": "package main\n"}, WithHook(h))
	require.NoError(t, s.Open("/work/main.go"))
	feed(t, s, "Gofunc main() {}<Esc>")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, h.Flush(ctx))
	assert.Positive(t, h.Stats().Lines)
}

func TestExternalChangeNotice(t *testing.T) {
	w := newFakeWatcher()
	s, fsys := withText(t, "abc", buffer.Pos(0, 0), WithWatcher(w))
	assert.Equal(t, 1, w.watched["/work/a.txt"])

	// Our own write is not reported.
	require.NoError(t, s.Execute(context.Background(), "w"))
	s.FileChanged(watcher.Event{Path: "/work/a.txt", Op: watcher.OpWrite})
	assert.Contains(t, s.Status(), "written")

	fsys.AddFile("/work/a.txt", "changed elsewhere")
	s.FileChanged(watcher.Event{Path: "/work/a.txt", Op: watcher.OpWrite})
	assert.Equal(t, `"a.txt" changed on disk; :e to reload`, s.Status())

	feed(t, s, "x")
	fsys.AddFile("/work/a.txt", "changed again!")
	s.FileChanged(watcher.Event{Path: "/work/a.txt", Op: watcher.OpWrite})
	assert.Equal(t, `"a.txt" changed on disk; :e! to reload`, s.Status())

	require.NoError(t, fsys.Remove("/work/a.txt"))
	s.FileChanged(watcher.Event{Path: "/work/a.txt", Op: watcher.OpRemove})
	assert.Equal(t, `"a.txt" was removed from disk`, s.Status())

	s.SetStatus("")
	s.FileChanged(watcher.Event{Path: "/work/other.txt", Op: watcher.OpWrite})
	assert.Empty(t, s.Status())
}

func TestWatchFollowsPath(t *testing.T) {
	w := newFakeWatcher()
	s, _ := withText(t, "abc", buffer.Pos(0, 0), WithWatcher(w))

	require.NoError(t, s.Execute(context.Background(), "w /work/b.txt"))
	assert.NotContains(t, w.watched, "/work/a.txt")
	assert.Contains(t, w.watched, "/work/b.txt")

	require.NoError(t, s.Execute(context.Background(), "q"))
	assert.Empty(t, w.watched)
}

func TestRun(t *testing.T) {
	w := newFakeWatcher()
	s, fsys := withText(t, "abc", buffer.Pos(0, 0), WithWatcher(w))

	keys := make(chan key.Event, 16)
	draws := 0
	fsys.AddFile("/work/a.txt", "other content")
	w.events <- watcher.Event{Path: "/work/a.txt", Op: watcher.OpWrite}

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), keys, func() { draws++ })
	}()
	for _, ev := range key.MustSequence(":q<CR>") {
		keys <- ev
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after :q")
	}
	assert.True(t, s.Closed())
	assert.GreaterOrEqual(t, draws, 4)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx, make(chan key.Event), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSnapshot(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	s, _ := withText(t, sb.String(), buffer.Pos(0, 0))

	snap := s.Snapshot(10)
	assert.Equal(t, 0, snap.Top)
	require.Len(t, snap.Lines, 10)
	assert.Equal(t, "line 0", snap.Lines[0])
	assert.Equal(t, "a.txt", snap.Name)
	assert.Equal(t, 1, snap.BufferCount)
	assert.False(t, snap.Dirty)

	feed(t, s, "50G")
	snap = s.Snapshot(10)
	assert.Equal(t, 43, snap.Top)
	assert.Equal(t, "line 43", snap.Lines[0])
	assert.Equal(t, buffer.Pos(49, 0), snap.Cursor)

	feed(t, s, "gg")
	snap = s.Snapshot(10)
	assert.Equal(t, 0, snap.Top)

	feed(t, s, "x:wq")
	snap = s.Snapshot(10)
	assert.True(t, snap.Dirty)
	assert.Equal(t, mode.Command, snap.Mode)
	assert.Equal(t, "wq", snap.CommandLine)
	assert.Equal(t, 2, snap.CommandCursor)

	feed(t, s, "<Esc>3")
	assert.Equal(t, "3", s.Snapshot(10).Pending)
}

func TestStrictPanicsOnContractViolation(t *testing.T) {
	s, _ := newTestSession(t, nil)
	_, err := s.Buffer().Insert(buffer.Pos(5, 0), "x")
	require.ErrorIs(t, err, buffer.ErrOutOfBounds)
	assert.Panics(t, func() { s.contract("insert", err) })

	lax := New(WithStrict(false))
	assert.NotPanics(t, func() { lax.contract("insert", err) })
	assert.Empty(t, lax.Status(), "contract errors are never shown")
}
