// Package config loads the editor's option set.
//
// A config file is optional. Values missing from the file keep their
// defaults, and a small set of MODAL_* environment variables override
// the file last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/modal/internal/logging"
)

// Config is the complete option set.
type Config struct {
	Editor    EditorConfig    `toml:"editor" yaml:"editor"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Plugins   PluginConfig    `toml:"plugins" yaml:"plugins"`
}

// EditorConfig holds editing behaviour options.
type EditorConfig struct {
	// TabWidth is the number of columns a tab occupies.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
	// ExpandTab makes Tab in Insert mode insert TabWidth spaces.
	ExpandTab bool `toml:"expand_tab" yaml:"expand_tab"`
	// MaxUndo caps undo transactions per buffer. Zero means unlimited.
	MaxUndo int `toml:"max_undo" yaml:"max_undo"`
	// CommandHistory is the number of command lines remembered.
	CommandHistory int `toml:"command_history" yaml:"command_history"`
	// ScrollOff is the number of context lines kept around the cursor.
	ScrollOff int `toml:"scroll_off" yaml:"scroll_off"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// HighlightConfig configures the background highlighter.
type HighlightConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Theme   string `toml:"theme" yaml:"theme"`
}

// PluginConfig lists Lua scripts to load at startup.
type PluginConfig struct {
	Scripts []string `toml:"scripts" yaml:"scripts"`
}

// Default returns the built-in option set.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			TabWidth:       4,
			ExpandTab:      true,
			MaxUndo:        1000,
			CommandHistory: 100,
			ScrollOff:      3,
		},
		Log: LogConfig{
			Level: "info",
		},
		Highlight: HighlightConfig{
			Enabled: true,
			Theme:   "monokai",
		},
	}
}

// Environment variables that override file settings.
const (
	EnvLogLevel = "MODAL_LOG_LEVEL"
	EnvLogFile  = "MODAL_LOG_FILE"
)

// Load reads the config file at path over the defaults, applies
// environment overrides and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := Decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses data into cfg, choosing the format from the extension
// of path. Fields absent from data are left untouched.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			pe.Message = "unknown setting"
			if len(serr.Errors) > 0 {
				pe.Line, pe.Column = serr.Errors[0].Position()
				pe.Message = "unknown setting " + strings.Join(serr.Errors[0].Key(), ".")
			}
		}
		return pe
	}
	return nil
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty document decodes to nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var terr *yaml.TypeError
		if errors.As(err, &terr) && len(terr.Errors) > 0 {
			pe.Message = terr.Errors[0]
		}
		return pe
	}
	return nil
}

// ApplyEnv overrides log settings from the environment. lookup has the
// signature of os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.Log.File = v
	}
}

// Validate rejects values the editor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Editor.TabWidth <= 0 {
		errs = append(errs, &ValidationError{Setting: "editor.tab_width", Value: c.Editor.TabWidth, Message: "must be positive"})
	}
	if c.Editor.MaxUndo < 0 {
		errs = append(errs, &ValidationError{Setting: "editor.max_undo", Value: c.Editor.MaxUndo, Message: "must not be negative"})
	}
	if c.Editor.CommandHistory <= 0 {
		errs = append(errs, &ValidationError{Setting: "editor.command_history", Value: c.Editor.CommandHistory, Message: "must be positive"})
	}
	if c.Editor.ScrollOff < 0 {
		errs = append(errs, &ValidationError{Setting: "editor.scroll_off", Value: c.Editor.ScrollOff, Message: "must not be negative"})
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Setting: "log.level", Value: c.Log.Level, Message: "expected one of " + strings.Join(logging.Levels, ", ")})
	}
	return errors.Join(errs...)
}

// Logging returns the settings the logging package needs.
func (c Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, File: c.Log.File}
}
