package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Editor.TabWidth)
	assert.True(t, cfg.Editor.ExpandTab)
	assert.Equal(t, 100, cfg.Editor.CommandHistory)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Highlight.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	os.Unsetenv(EnvLogLevel)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "modal.toml", `
[editor]
tab_width = 8
expand_tab = false

[log]
level = "debug"

[plugins]
scripts = ["a.lua", "b.lua"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Editor.TabWidth)
	assert.False(t, cfg.Editor.ExpandTab)
	assert.Equal(t, 100, cfg.Editor.CommandHistory, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"a.lua", "b.lua"}, cfg.Plugins.Scripts)
	assert.Equal(t, "monokai", cfg.Highlight.Theme)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "modal.yaml", `
editor:
  tab_width: 2
highlight:
  enabled: false
  theme: github
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Editor.TabWidth)
	assert.True(t, cfg.Editor.ExpandTab)
	assert.False(t, cfg.Highlight.Enabled)
	assert.Equal(t, "github", cfg.Highlight.Theme)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "modal.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name, file, content string
	}{
		{"toml syntax", "bad.toml", "[editor\ntab_width = 4"},
		{"toml unknown key", "bad.toml", "[editor]\nwidth = 4"},
		{"toml wrong type", "bad.toml", "[editor]\ntab_width = \"wide\""},
		{"yaml syntax", "bad.yaml", "editor: [unclosed"},
		{"yaml unknown key", "bad.yaml", "editor:\n  width: 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			_, err := Load(path)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, path, pe.Path)
			assert.NotEmpty(t, pe.Message)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	path := writeFile(t, "bad.toml", "[editor]\nwidth = 4\n")
	_, err := Load(path)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Contains(t, pe.Message, "width")
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(writeFile(t, "modal.ini", "tab_width=4"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		setting string
	}{
		{"zero tab width", func(c *Config) { c.Editor.TabWidth = 0 }, "editor.tab_width"},
		{"negative undo", func(c *Config) { c.Editor.MaxUndo = -1 }, "editor.max_undo"},
		{"no history", func(c *Config) { c.Editor.CommandHistory = 0 }, "editor.command_history"},
		{"negative scroll", func(c *Config) { c.Editor.ScrollOff = -2 }, "editor.scroll_off"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.setting, ve.Setting)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Editor.TabWidth = -1
	cfg.Log.Level = "chatty"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor.tab_width")
	assert.Contains(t, err.Error(), "log.level")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel: "warn",
		EnvLogFile:  "/tmp/modal.log",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/modal.log", cfg.Logging().File)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "modal.toml", "[log]\nlevel = \"debug\"\n")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadEnvValidated(t *testing.T) {
	t.Setenv(EnvLogLevel, "shout")
	_, err := Load("")
	assert.ErrorIs(t, err, ErrValidationFailed)
}
