// Package main is the entry point for the tagtok CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/tagtok/internal/cli"
	"github.com/yaklabco/tagtok/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	// Per-file failures were already reported; they only set the exit code.
	if !errors.Is(err, cli.ErrFilesFailed) && !errors.Is(err, cli.ErrEmptyDocuments) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
