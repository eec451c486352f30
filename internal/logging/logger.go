// Package logging provides the gomathml loggers, built on charmbracelet/log.
//
// Loggers travel in the context. Library packages fetch them with
// FromContext and attach the conversion they work on with ForFile or
// ForFormula, so every record names its document or formula.
package logging

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Field names for structured records.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldJobs       = "jobs"

	// Formula being converted and how.
	FieldInput    = "input"
	FieldDisplay  = "display"
	FieldEncoding = "encoding"
	FieldMacros   = "macros"
	FieldSpans    = "spans"
	FieldDone     = "done"
	FieldRest     = "rest"

	FieldFilesDiscovered = "files_discovered"
	FieldFilesConverted  = "files_converted"
	FieldFilesWithErrors = "files_with_errors"
	FieldMathTotal       = "math_total"
	FieldErrorsTotal     = "errors_total"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

//nolint:gochecknoglobals // process-wide default, replaced by SetDefault
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

// New creates a logger writing to standard error at level.
// Valid levels: "debug", "info", "warn", "error"; anything else is info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{})
	setLoggerLevel(logger, level)
	return logger
}

// NewInteractive creates an info level logger for messages addressed to a
// person at a terminal, prefixed with the program name.
func NewInteractive() *log.Logger {
	logger := New("info")
	logger.SetPrefix("gomathml")
	return logger
}

func setLoggerLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the process-wide logger.
func Default() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLoggerOnce.Do(func() {})
	defaultLogger = logger
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	setLoggerLevel(Default(), level)
}

type contextKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// ForFile returns the context logger with the document path attached.
func ForFile(ctx context.Context, path string) *log.Logger {
	return FromContext(ctx).With(FieldPath, path)
}

// ForFormula returns the context logger with a formula and its math
// style attached.
func ForFormula(ctx context.Context, input string, display bool) *log.Logger {
	return FromContext(ctx).With(FieldInput, input, FieldDisplay, display)
}
