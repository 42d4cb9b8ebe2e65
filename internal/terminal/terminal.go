// Package terminal connects an editor session to a tcell screen: it
// decodes key events and draws session snapshots. It holds no editor
// state of its own.
package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/session"
)

// Source produces the state to draw for a text area of height lines.
// *session.Session satisfies it.
type Source interface {
	Snapshot(height int) session.Snapshot
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Terminal) { t.log = l }
}

// WithTabWidth sets the display width of a tab stop.
func WithTabWidth(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.tabWidth = n
		}
	}
}

// WithColorizer enables syntax colouring.
func WithColorizer(c Colorizer) Option {
	return func(t *Terminal) { t.colors = c }
}

// Terminal draws snapshots on a tcell screen and reads its keys.
type Terminal struct {
	screen   tcell.Screen
	log      zerolog.Logger
	tabWidth int
	colors   Colorizer
	styles   *styler

	mu   sync.Mutex
	done bool
}

// New creates a terminal on screen. Init must be called before use.
func New(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen:   screen,
		log:      zerolog.Nop(),
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.colors != nil {
		t.styles = newStyler(t.colors.Style())
	}
	return t
}

// Open creates a terminal on the process's tty.
func Open(opts ...Option) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	t := New(screen, opts...)
	if err := t.Init(); err != nil {
		return nil, err
	}
	return t, nil
}

// Init initialises the screen.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	t.screen.Clear()
	return nil
}

// Fini restores the terminal. It is safe to call more than once.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	t.screen.Fini()
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Keys starts reading the screen's events and returns the decoded keys.
// The channel is closed when the screen is finalised or ctx is done.
// Resizes resynchronise the screen; the next draw lays out the new size.
func (t *Terminal) Keys(ctx context.Context) <-chan key.Event {
	out := make(chan key.Event)
	go func() {
		defer close(out)
		for {
			switch ev := t.screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				k, ok := FromTcell(ev)
				if !ok {
					t.log.Debug().Int("key", int(ev.Key())).Msg("unknown key")
					continue
				}
				select {
				case out <- k:
				case <-ctx.Done():
					return
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		}
	}()
	return out
}
