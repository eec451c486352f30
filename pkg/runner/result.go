package runner

import "github.com/yaklabco/gomathml/pkg/latex"

// FileOutcome is the result of rendering one file.
type FileOutcome struct {
	// Path is the input file.
	Path string

	// Format is how the input was read.
	Format Format

	// Output is the rendered file path.
	Output string

	// Written is false when the output already held the rendered content
	// or the run was a dry run.
	Written bool

	// Content is the rendered document, kept only for dry runs.
	Content []byte

	// Math counts the math spans found.
	Math int

	// ParseErrors lists the math that failed to parse, in document order.
	ParseErrors []*latex.ParseError

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files rendered.
	FilesProcessed int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// FilesWritten is the number of outputs written.
	FilesWritten int

	// FilesWithParseErrors is the number of files with at least one
	// parse error.
	FilesWithParseErrors int

	// MathTotal is the number of math spans across all files.
	MathTotal int

	// ParseErrorsTotal is the number of math spans that failed to parse.
	ParseErrorsTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed or contained math that did
// not parse.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.ParseErrorsTotal > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.MathTotal += outcome.Math
	r.Stats.ParseErrorsTotal += len(outcome.ParseErrors)
	if len(outcome.ParseErrors) > 0 {
		r.Stats.FilesWithParseErrors++
	}
	if outcome.Written {
		r.Stats.FilesWritten++
	}
}
