package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modal/internal/config"
)

// capture returns a run function that records what it was called with.
func capture(cfg *config.Config, opts *options) runFunc {
	return func(_ context.Context, c config.Config, o options) error {
		*cfg, *opts = c, o
		return nil
	}
}

func execute(t *testing.T, run runFunc, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvLogLevel, "info")
	t.Setenv(config.EnvLogFile, "")

	root := newRootCmd(run)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootPassesFilesAndFlags(t *testing.T) {
	var cfg config.Config
	var opts options
	_, err := execute(t, capture(&cfg, &opts),
		"--log-level", "debug", "--log-file", "/tmp/modal.log", "--no-highlight", "-d", "a.txt", "b.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt"}, opts.files)
	assert.True(t, opts.debug)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/modal.log", cfg.Log.File)
	assert.False(t, cfg.Highlight.Enabled)
	assert.Equal(t, 4, cfg.Editor.TabWidth)
}

func TestRootReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_width: 8\nhighlight:\n  theme: dracula\n"), 0o644))

	var cfg config.Config
	var opts options
	_, err := execute(t, capture(&cfg, &opts), "--config", path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Editor.TabWidth)
	assert.Equal(t, "dracula", cfg.Highlight.Theme)
	assert.Empty(t, opts.files)
}

func TestRootRejectsBadSettings(t *testing.T) {
	called := false
	run := func(context.Context, config.Config, options) error {
		called = true
		return nil
	}

	_, err := execute(t, run, "--log-level", "loud")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrValidationFailed)

	path := filepath.Join(t.TempDir(), "modal.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nwidth = 3\n"), 0o644))
	_, err = execute(t, run, "-c", path)
	var pe *config.ParseError
	assert.ErrorAs(t, err, &pe)

	assert.False(t, called)
}

func TestConfigCommandPrintsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\nscroll_off = 5\n"), 0o644))

	out, err := execute(t, nil, "config", "--config", path, "--no-highlight")
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, toml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 5, got.Editor.ScrollOff)
	assert.Equal(t, 4, got.Editor.TabWidth)
	assert.False(t, got.Highlight.Enabled)
	assert.Equal(t, "info", got.Log.Level)
}

func TestDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "modal", "config.toml"), defaultConfigPath())
}
