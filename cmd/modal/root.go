package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/modal/internal/config"
)

// options are the command-line settings.
type options struct {
	configPath  string
	logLevel    string
	logFile     string
	noHighlight bool
	debug       bool
	files       []string
}

// runFunc starts the editor with the resolved configuration.
type runFunc func(ctx context.Context, cfg config.Config, opts options) error

func newRootCmd(run runFunc) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:          "modal [files...]",
		Short:        "A modal text editor",
		Long:         `modal is a terminal text editor with Normal, Insert, Visual and Command modes.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = args
			cfg, err := resolveConfig(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, cfg, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"config file, .toml or .yaml (default: $XDG_CONFIG_HOME/modal/config.toml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.BoolVar(&opts.noHighlight, "no-highlight", false, "disable syntax highlighting")
	root.Flags().BoolVarP(&opts.debug, "debug", "d", false, "panic on internal cursor or range errors")

	root.AddCommand(newConfigCmd(&opts))
	return root
}

// newConfigCmd prints the effective configuration as TOML.
func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(*opts)
			if err != nil {
				return err
			}
			enc := toml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndentTables(true)
			return enc.Encode(cfg)
		},
	}
}

// resolveConfig loads the config file, then applies flag overrides.
// Flags win over the file and the environment.
func resolveConfig(opts options) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.noHighlight {
		cfg.Highlight.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "modal", "config.toml")
}
