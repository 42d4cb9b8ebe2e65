package session

import (
	"github.com/rs/zerolog"

	"github.com/dshills/modal/internal/command"
	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/vfs"
	"github.com/dshills/modal/internal/watcher"
)

// FileWatcher reports changes to files on disk. *watcher.Watcher
// implements it.
type FileWatcher interface {
	Watch(path string) error
	Unwatch(path string) error
	Events() <-chan watcher.Event
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the editor options.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithFS sets the file system buffers are read from and written to.
func WithFS(fsys vfs.FS) Option {
	return func(s *Session) {
		s.fs = fsys
	}
}

// WithHook sets the hook told about every applied edit.
func WithHook(h highlight.Hook) Option {
	return func(s *Session) {
		s.hook = h
	}
}

// WithWatcher sets the watcher used to notice files changed by other
// programs.
func WithWatcher(w FileWatcher) Option {
	return func(s *Session) {
		s.watcher = w
	}
}

// WithConfirmer sets who approves discarding modified buffers.
func WithConfirmer(c command.Confirmer) Option {
	return func(s *Session) {
		s.confirm = c
	}
}

// WithStrict makes buffer contract violations panic instead of being
// logged.
func WithStrict(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}
