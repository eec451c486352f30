// Package main is the entry point for the gomathml CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/yaklabco/gomathml/internal/cli"
	"github.com/yaklabco/gomathml/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
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
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	ctx := logging.WithLogger(context.Background(), logging.Default())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Parse errors have already been reported; the error only selects
		// the exit code.
		if !errors.Is(err, cli.ErrParseErrors) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return cli.ExitSuccess
}
