package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/highlight"
	"github.com/dshills/modal/internal/logging"
	"github.com/dshills/modal/internal/plugin"
	"github.com/dshills/modal/internal/session"
	"github.com/dshills/modal/internal/terminal"
	"github.com/dshills/modal/internal/watcher"
)

// runEditor wires the session to the terminal and runs until the last
// buffer is closed or the process is told to stop.
func runEditor(ctx context.Context, cfg config.Config, opts options) error {
	logger, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	sessOpts := []session.Option{
		session.WithConfig(cfg),
		session.WithLogger(log),
		session.WithStrict(opts.debug),
	}
	termOpts := []terminal.Option{
		terminal.WithLogger(logging.Component(log, "terminal")),
		terminal.WithTabWidth(cfg.Editor.TabWidth),
	}

	if cfg.Highlight.Enabled {
		hl := highlight.New(
			highlight.WithTheme(cfg.Highlight.Theme),
			highlight.WithLogger(logging.Component(log, "highlight")),
		)
		hl.Start()
		defer hl.Close()
		sessOpts = append(sessOpts, session.WithHook(hl))
		termOpts = append(termOpts, terminal.WithColorizer(hl))
	}

	w, err := watcher.New(watcher.WithLogger(logging.Component(log, "watcher")))
	if err != nil {
		log.Warn().Err(err).Msg("file watching disabled")
	} else {
		defer w.Close()
		sessOpts = append(sessOpts, session.WithWatcher(w))
	}

	s := session.New(sessOpts...)

	host := plugin.New(s.Interpreter(), plugin.WithLogger(logging.Component(log, "plugin")))
	defer host.Close()
	if err := host.LoadAll(ctx, cfg.Plugins.Scripts); err != nil {
		s.SetStatus(err.Error())
	}

	for _, f := range opts.files {
		if err := s.Open(f); err != nil {
			return fmt.Errorf("open %s: %w", f, err)
		}
	}

	term, err := terminal.Open(termOpts...)
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer term.Fini()

	log.Info().Int("files", len(opts.files)).Msg("editor started")
	err = s.Run(ctx, term.Keys(ctx), func() { term.Draw(s) })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
