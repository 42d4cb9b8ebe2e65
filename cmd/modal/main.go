// Package main is the entry point for the modal editor.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	root := newRootCmd(runEditor)
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
