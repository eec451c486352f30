package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/gomathml/internal/ui/pretty"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/runner"
)

// jsonSchemaVersion is bumped when the output shape changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure of a batch render.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string      `json:"path"`
	Format      string      `json:"format"`
	Output      string      `json:"output,omitempty"`
	Written     bool        `json:"written,omitempty"`
	Math        int         `json:"math"`
	ParseErrors []JSONError `json:"parseErrors"`
	Error       string      `json:"error,omitempty"`
}

// JSONError represents a parse error.
type JSONError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Done    string `json:"done"`
	Rest    string `json:"rest"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered      int `json:"filesDiscovered"`
	FilesRendered        int `json:"filesRendered"`
	FilesWritten         int `json:"filesWritten"`
	FilesErrored         int `json:"filesErrored"`
	FilesWithParseErrors int `json:"filesWithParseErrors"`
	MathTotal            int `json:"mathTotal"`
	ParseErrorsTotal     int `json:"parseErrorsTotal"`
}

// JSONConversion is the JSON form of a single conversion.
type JSONConversion struct {
	Version string     `json:"version"`
	Input   string     `json:"input"`
	Display bool       `json:"display"`
	MathML  string     `json:"mathml,omitempty"`
	Error   *JSONError `json:"error,omitempty"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)
	if err := r.encode(r.opts.Writer, output); err != nil {
		return 0, err
	}
	return output.Summary.ParseErrorsTotal, nil
}

// ReportConversion implements Reporter. Both outcomes are written to
// Writer.
func (r *JSONReporter) ReportConversion(_ context.Context, conv Conversion) error {
	return r.encode(r.opts.Writer, &JSONConversion{
		Version: jsonSchemaVersion,
		Input:   conv.Source,
		Display: conv.Display,
		MathML:  conv.Output,
		Error:   newJSONError(conv.Err),
	})
}

func (r *JSONReporter) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func newJSONError(perr *latex.ParseError) *JSONError {
	if perr == nil {
		return nil
	}
	line, column := pretty.ErrorPosition(perr.Done)
	return &JSONError{
		Kind:    perr.Kind.String(),
		Message: perr.Error(),
		Line:    line,
		Column:  column,
		Done:    perr.Done,
		Rest:    perr.Rest,
	}
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        displayPath(file.Path, r.opts.WorkingDir),
			Format:      string(file.Format),
			Output:      displayPath(file.Output, r.opts.WorkingDir),
			Written:     file.Written,
			Math:        file.Math,
			ParseErrors: make([]JSONError, 0, len(file.ParseErrors)),
		}
		if file.Error != nil {
			fileResult.Error = file.Error.Error()
		}
		for _, perr := range file.ParseErrors {
			fileResult.ParseErrors = append(fileResult.ParseErrors, *newJSONError(perr))
		}
		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered:      stats.FilesDiscovered,
		FilesRendered:        stats.FilesProcessed,
		FilesWritten:         stats.FilesWritten,
		FilesErrored:         stats.FilesErrored,
		FilesWithParseErrors: stats.FilesWithParseErrors,
		MathTotal:            stats.MathTotal,
		ParseErrorsTotal:     stats.ParseErrorsTotal,
	}

	return output
}
