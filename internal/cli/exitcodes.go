package cli

import (
	"errors"

	"github.com/yaklabco/gomathml/pkg/runner"
)

// Exit codes for gomathml.
const (
	// ExitSuccess indicates successful execution with no parse errors.
	ExitSuccess = 0

	// ExitParseErrors indicates the run completed but some math did not parse.
	ExitParseErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrParseErrors is returned when a command reported parse errors. It only
// signals the exit code; the errors themselves have already been printed.
var ErrParseErrors = errors.New("parse errors found")

// ExitError attaches an exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrParseErrors) {
		return ExitParseErrors
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code of a batch render. Files
// that could not be read or written take precedence over parse errors.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.Stats.FilesErrored > 0 {
		return ExitIOError
	}
	if result.Stats.ParseErrorsTotal > 0 {
		return ExitParseErrors
	}
	return ExitSuccess
}
