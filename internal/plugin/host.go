package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/modal/internal/command"
	"github.com/dshills/modal/internal/plugin/lua"
	"github.com/dshills/modal/internal/vfs"
)

// Registrar is where plugin verbs are registered.
// *command.Interpreter satisfies it.
type Registrar interface {
	Register(name string, h command.Handler, aliases ...string) error
	Unregister(name string)
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. Script print output goes here too.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) { h.log = l }
}

// WithFS sets the file system scripts are read from.
func WithFS(fsys vfs.FS) Option {
	return func(h *Host) { h.fs = fsys }
}

// WithTimeout bounds each script load and each verb call.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) { h.timeout = d }
}

// Host owns one Lua state shared by every loaded script and the verbs
// they register.
type Host struct {
	reg     Registrar
	fs      vfs.FS
	log     zerolog.Logger
	timeout time.Duration
	state   *lua.State

	// verbs maps registered verb names to the script that added them.
	verbs map[string]string
	// loading is the script being run, for verbs registered at load time.
	loading string
	// ed is the editor of the running verb, nil between commands.
	ed command.Editor
}

// New creates a host that registers verbs with reg.
func New(reg Registrar, opts ...Option) *Host {
	h := &Host{
		reg:     reg,
		fs:      vfs.NewOSFS(),
		log:     zerolog.Nop(),
		timeout: lua.DefaultTimeout,
		verbs:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.state = lua.NewState(lua.WithTimeout(h.timeout), lua.WithLogger(h.log))
	h.state.RegisterModule("modal", map[string]glua.LGFunction{
		"command":    h.luaCommand,
		"insert":     h.luaInsert,
		"line":       h.luaLine,
		"line_count": h.luaLineCount,
		"cursor":     h.luaCursor,
		"status":     h.luaStatus,
	})
	return h
}

// Load runs the script at path.
func (h *Host) Load(ctx context.Context, path string) error {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return &ScriptError{Path: path, Err: err}
	}
	h.loading = path
	defer func() { h.loading = "" }()

	if err := h.state.DoString(ctx, path, string(data)); err != nil {
		return &ScriptError{Path: path, Err: err}
	}
	h.log.Info().Str("path", path).Msg("plugin loaded")
	return nil
}

// LoadAll runs every script in paths. A failing script does not stop
// the others; all failures are returned joined.
func (h *Host) LoadAll(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := h.Load(ctx, p); err != nil {
			h.log.Warn().Err(err).Str("path", p).Msg("plugin failed to load")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verbs returns the registered verb names in order.
func (h *Host) Verbs() []string {
	names := make([]string, 0, len(h.verbs))
	for n := range h.verbs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close unregisters every verb and releases the Lua state.
func (h *Host) Close() error {
	for name := range h.verbs {
		h.reg.Unregister(name)
	}
	h.verbs = make(map[string]string)
	return h.state.Close()
}

// handler adapts a Lua function to a command handler.
func (h *Host) handler(name string, fn *glua.LFunction) command.Handler {
	return func(ctx context.Context, cmd command.Command, ed command.Editor) error {
		h.ed = ed
		defer func() { h.ed = nil }()

		args := lua.StringsToTable(h.state.L, cmd.Args)
		results, err := h.state.Call(ctx, fn, args, glua.LBool(cmd.Force))
		if err != nil {
			h.log.Warn().Err(err).Str("verb", name).Msg("plugin verb failed")
			return fmt.Errorf("%s: %w", name, err)
		}
		if len(results) > 0 {
			if msg, ok := results[0].(glua.LString); ok && msg != "" {
				ed.SetStatus(string(msg))
			}
		}
		return nil
	}
}

// modal.command(name, fn)
func (h *Host) luaCommand(L *glua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if err := h.reg.Register(name, h.handler(name, fn)); err != nil {
		L.RaiseError("modal.command: %v", err)
		return 0
	}
	h.verbs[name] = h.loading
	h.log.Debug().Str("verb", name).Str("path", h.loading).Msg("plugin verb registered")
	return 0
}

// editor returns the running command's editor or raises a Lua error.
func (h *Host) editor(L *glua.LState, fn string) command.Editor {
	if h.ed == nil {
		L.RaiseError("modal.%s: %v", fn, ErrNoEditor)
	}
	return h.ed
}

// modal.insert(text)
func (h *Host) luaInsert(L *glua.LState) int {
	ed := h.editor(L, "insert")
	text := L.CheckString(1)
	if err := ed.InsertText(text); err != nil {
		L.RaiseError("modal.insert: %v", err)
	}
	return 0
}

// modal.line([n]) -> string or nil
func (h *Host) luaLine(L *glua.LState) int {
	ed := h.editor(L, "line")
	b := ed.Buffer()
	if b == nil {
		L.RaiseError("modal.line: %v", ErrNoBuffer)
	}
	n := L.OptInt(1, ed.Cursor().Line+1)
	text, err := b.Line(n - 1)
	if err != nil {
		L.Push(glua.LNil)
		return 1
	}
	L.Push(glua.LString(text))
	return 1
}

// modal.line_count() -> number
func (h *Host) luaLineCount(L *glua.LState) int {
	ed := h.editor(L, "line_count")
	b := ed.Buffer()
	if b == nil {
		L.RaiseError("modal.line_count: %v", ErrNoBuffer)
	}
	L.Push(glua.LNumber(b.LineCount()))
	return 1
}

// modal.cursor() -> line, col
func (h *Host) luaCursor(L *glua.LState) int {
	p := h.editor(L, "cursor").Cursor()
	L.Push(glua.LNumber(p.Line + 1))
	L.Push(glua.LNumber(p.Col + 1))
	return 2
}

// modal.status(msg)
func (h *Host) luaStatus(L *glua.LState) int {
	h.editor(L, "status").SetStatus(L.CheckString(1))
	return 0
}
