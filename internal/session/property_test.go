package session

import (
	"context"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/vfs"
)

// keyTokens is every key the property tests type. ':' is left out so
// no command line can close the session.
var keyTokens = []string{
	"h", "j", "k", "l", "w", "b", "e", "0", "^", "$", "G", "g", "2", "3",
	"x", "d", "D", "y", "p", "P", "u", "<C-r>",
	"i", "a", "A", "I", "o", "O", "R", "v",
	"z", " ", "é", "<CR>", "<Tab>", "<BS>", "<Del>",
	"<Esc>", "<Left>", "<Right>", "<Up>", "<Down>", "<Home>", "<End>",
}

func randomSession(t *rapid.T) *Session {
	content := rapid.StringMatching(`[ab \n]{0,30}`).Draw(t, "content")
	if rapid.Bool().Draw(t, "latin1") {
		content = strings.ReplaceAll(content, "b", "\xa3")
	}
	fsys := vfs.NewMemFS()
	fsys.AddFile("/work/a.txt", content)
	s := New(WithFS(fsys), WithStrict(true))
	if err := s.Open("/work/a.txt"); err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func randomKeys(t *rapid.T) []key.Event {
	tokens := rapid.SliceOfN(rapid.SampledFrom(keyTokens), 0, 80).Draw(t, "keys")
	return key.MustSequence(strings.Join(tokens, ""))
}

func TestRandomKeysKeepCursorsValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := randomSession(t)
		for i, ev := range randomKeys(t) {
			if err := s.HandleKey(context.Background(), ev); err != nil {
				t.Fatalf("key %d (%s): %v", i, ev, err)
			}
			b := s.Buffer()
			for _, p := range s.Cursors() {
				if !b.Valid(p) {
					t.Fatalf("key %d (%s): cursor %s outside %q", i, ev, p, b.Text())
				}
			}
		}
	})
}

func TestRandomEditsUndoToOriginal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := randomSession(t)
		original := s.Buffer().Text()
		ctx := context.Background()

		for _, ev := range randomKeys(t) {
			_ = s.HandleKey(ctx, ev)
		}
		_ = s.HandleKey(ctx, key.Special(key.KeyEscape))
		for s.Buffer().CanRedo() {
			_ = s.HandleKey(ctx, key.Ctrl('r'))
		}
		edited := s.Buffer().Text()

		undos := 0
		for s.Buffer().CanUndo() {
			_ = s.HandleKey(ctx, key.Rune('u'))
			undos++
			if undos > 1000 {
				t.Fatal("undo did not terminate")
			}
		}
		if got := s.Buffer().Text(); got != original {
			t.Fatalf("after %d undos: %q, want %q", undos, got, original)
		}
		if s.Buffer().Dirty() {
			t.Fatal("buffer dirty after undoing everything")
		}

		for s.Buffer().CanRedo() {
			_ = s.HandleKey(ctx, key.Ctrl('r'))
		}
		if got := s.Buffer().Text(); got != edited {
			t.Fatalf("after redo: %q, want %q", got, edited)
		}
	})
}

func TestUnboundKeysChangeNothing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := randomSession(t)
		ctx := context.Background()
		for _, ev := range randomKeys(t) {
			_ = s.HandleKey(ctx, ev)
		}

		before := s.Snapshot(20)
		ev := key.Special(rapid.SampledFrom([]key.Key{key.KeyF1, key.KeyF5, key.KeyPageUp, key.KeyInsert}).Draw(t, "unbound"))
		_ = s.HandleKey(ctx, ev)
		after := s.Snapshot(20)

		if after.Mode != before.Mode || after.Text.Text() != before.Text.Text() || after.Cursor != before.Cursor {
			t.Fatalf("%s changed state: %+v -> %+v", ev, before.Cursor, after.Cursor)
		}
	})
}
