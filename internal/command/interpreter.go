package command

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/vfs"
)

// Editor is the part of the session that commands act on.
type Editor interface {
	// Buffer returns the active buffer, or nil when none is open.
	Buffer() *buffer.Buffer

	// Buffers returns the open buffers in list order.
	Buffers() []*buffer.Buffer

	// ActiveIndex returns the index of the active buffer in Buffers.
	ActiveIndex() int

	// Switch makes buffer i active.
	Switch(i int)

	// Add appends b to the buffer list and makes it active.
	Add(b *buffer.Buffer)

	// Close removes buffer i without any dirty check. Closing the last
	// buffer ends the session.
	Close(i int)

	// Quit closes every buffer and ends the session.
	Quit()

	// Cursor returns the primary cursor position.
	Cursor() buffer.Position

	// SetCursor collapses the cursors to pos.
	SetCursor(pos buffer.Position)

	// GotoLine puts the cursor on the first non-blank of line (0-based).
	GotoLine(line int)

	// InsertText inserts s at every cursor as one undoable edit.
	InsertText(s string) error

	// Yank stores text in the unnamed register.
	Yank(text string, linewise bool)

	// Track records b's file state after it was read or written, so
	// the external-change watcher can tell our writes from others.
	Track(b *buffer.Buffer)

	// FS returns the file system buffers are read from and written to.
	FS() vfs.FS

	// SetStatus sets the message shown under the status line.
	SetStatus(msg string)
}

// Confirmer is asked before modified buffers are discarded.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Handler executes a command.
type Handler func(ctx context.Context, cmd Command, ed Editor) error

type verb struct {
	name    string
	aliases []string
	ranged  bool
	builtin bool
	run     Handler
}

// Interpreter parses and executes command lines.
type Interpreter struct {
	mu      sync.RWMutex
	verbs   map[string]*verb // canonical names and aliases
	confirm Confirmer
	bufOpts []buffer.Option
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithConfirmer sets who approves discarding modified buffers. Without
// one, discarding requires '!'.
func WithConfirmer(c Confirmer) Option {
	return func(in *Interpreter) {
		in.confirm = c
	}
}

// WithBufferOptions sets the options for buffers created by :edit and
// :enew.
func WithBufferOptions(opts ...buffer.Option) Option {
	return func(in *Interpreter) {
		in.bufOpts = opts
	}
}

// NewInterpreter creates an interpreter with the built-in verbs.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{verbs: make(map[string]*verb)}
	for _, opt := range opts {
		opt(in)
	}
	for _, v := range in.builtins() {
		v.builtin = true
		in.add(v)
	}
	return in
}

func (in *Interpreter) add(v *verb) {
	in.verbs[v.name] = v
	for _, a := range v.aliases {
		in.verbs[a] = v
	}
}

func (in *Interpreter) lookup(name string) (*verb, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	v, ok := in.verbs[name]
	return v, ok
}

// Register adds a verb and its aliases. It fails with ErrVerbTaken if
// any name is already defined, built-in or not, and with ErrSyntax if a
// name is not made of letters and '_'. Registered verbs accept ranges.
func (in *Interpreter) Register(name string, h Handler, aliases ...string) error {
	if h == nil {
		return fmt.Errorf("register %s: nil handler", name)
	}
	names := append([]string{name}, aliases...)
	for _, n := range names {
		if !validVerb(n) {
			return syntaxError("invalid verb name %q", n)
		}
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	for _, n := range names {
		if _, ok := in.verbs[n]; ok {
			return fmt.Errorf("register %s: %w", n, ErrVerbTaken)
		}
	}
	in.add(&verb{name: name, aliases: aliases, ranged: true, run: h})
	return nil
}

// Unregister removes a registered verb and its aliases. Built-ins are
// left alone.
func (in *Interpreter) Unregister(name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	v, ok := in.verbs[name]
	if !ok || v.builtin || v.name != name {
		return
	}
	delete(in.verbs, v.name)
	for _, a := range v.aliases {
		delete(in.verbs, a)
	}
}

// Verbs returns the canonical verb names, sorted.
func (in *Interpreter) Verbs() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	var names []string
	for k, v := range in.verbs {
		if k == v.name {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is a built-in verb or alias.
func (in *Interpreter) IsBuiltin(name string) bool {
	v, ok := in.lookup(name)
	return ok && v.builtin
}

func validVerb(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isVerbByte(name[i]) {
			return false
		}
	}
	return true
}

// Execute runs a parsed command against ed. Writes complete before it
// returns.
func (in *Interpreter) Execute(ctx context.Context, cmd Command, ed Editor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cmd.Verb == "" {
		if !cmd.Range.IsSet() {
			return nil
		}
		return in.gotoLine(ctx, cmd, ed)
	}
	v, ok := in.lookup(cmd.Verb)
	if !ok {
		return syntaxError("not an editor command: %s", cmd.Verb)
	}
	return v.run(ctx, cmd, ed)
}

// Run parses and executes line.
func (in *Interpreter) Run(ctx context.Context, line string, ed Editor) error {
	cmd, err := in.Parse(line)
	if err != nil {
		return err
	}
	return in.Execute(ctx, cmd, ed)
}

// discardOK reports whether changes in b may be thrown away.
func (in *Interpreter) discardOK(cmd Command, what string) bool {
	if cmd.Force {
		return true
	}
	return in.confirm != nil && in.confirm.Confirm(fmt.Sprintf("Discard changes to %s?", what))
}
