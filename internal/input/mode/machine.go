package mode

import (
	"github.com/dshills/modal/internal/engine/cursor"
	"github.com/dshills/modal/internal/input/key"
)

// ChangeFunc is called after the mode changes.
type ChangeFunc func(from, to Mode)

// Machine drives Transition. It holds the current mode, the pending
// prefix and the command line; everything that touches buffers or
// cursors is left to the caller, which applies the returned Action.
type Machine struct {
	mode      Mode
	pending   Pending
	cmdline   *CommandLine
	callbacks []ChangeFunc
}

// Option configures a Machine.
type Option func(*Machine)

// WithHistorySize sets how many command lines are remembered.
func WithHistorySize(n int) Option {
	return func(m *Machine) {
		m.cmdline = NewCommandLine(n)
	}
}

// NewMachine creates a machine in Normal mode.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{cmdline: NewCommandLine(DefaultHistorySize)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Pending returns the partially typed prefix.
func (m *Machine) Pending() Pending {
	return m.pending
}

// CommandLine returns the command line.
func (m *Machine) CommandLine() *CommandLine {
	return m.cmdline
}

// Handle feeds one event through the transition table. Command-line
// editing is applied here; for ActExecute the returned Text holds the
// finished line, which is added to history.
func (m *Machine) Handle(ev key.Event) Action {
	a, next := Transition(m.mode, m.pending, ev)
	if !a.Handled {
		m.pending = Pending{}
		return a
	}
	m.pending = a.Pending

	switch a.Kind {
	case ActOpenCommand:
		m.cmdline.Reset()
	case ActCmdInsert:
		m.cmdline.Insert(a.Text)
	case ActCmdBackspace:
		m.cmdline.Backspace()
	case ActCmdDelete:
		m.cmdline.Delete()
	case ActCmdCursor:
		switch a.Motion {
		case cursor.CharLeft:
			m.cmdline.MoveLeft()
		case cursor.CharRight:
			m.cmdline.MoveRight()
		case cursor.LineStart:
			m.cmdline.Home()
		case cursor.LineEnd:
			m.cmdline.End()
		}
	case ActCmdHistory:
		if a.Count < 0 {
			m.cmdline.HistoryPrev()
		} else {
			m.cmdline.HistoryNext()
		}
	case ActExecute:
		a.Text = m.cmdline.Text()
		m.cmdline.AddHistory(a.Text)
		m.cmdline.Reset()
	case ActCancelCommand:
		m.cmdline.Reset()
	}

	m.setMode(next)
	return a
}

// SetMode forces a transition outside the table, such as entering
// Closing after the last buffer is closed.
func (m *Machine) SetMode(to Mode) {
	m.pending = Pending{}
	if to != Command {
		m.cmdline.Reset()
	}
	m.setMode(to)
}

// OnModeChange registers fn to run after every mode change.
func (m *Machine) OnModeChange(fn ChangeFunc) {
	m.callbacks = append(m.callbacks, fn)
}

func (m *Machine) setMode(to Mode) {
	from := m.mode
	if from == to {
		return
	}
	m.mode = to
	for _, fn := range m.callbacks {
		fn(from, to)
	}
}
