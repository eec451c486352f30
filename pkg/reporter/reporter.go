// Package reporter writes the results of conversions for people and for
// tools.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/runner"
)

// Reporter formats and writes conversion results.
type Reporter interface {
	// Report writes formatted output for a batch render. It returns the
	// number of parse errors reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)

	// ReportConversion writes the outcome of converting one formula.
	ReportConversion(ctx context.Context, conv Conversion) error
}

// Conversion is the outcome of converting a single formula.
type Conversion struct {
	// Label names the input, such as "<stdin>" or "<argument>".
	Label   string
	Source  string
	Display bool
	// Output is the serialized MathML. It is empty when Err is set.
	Output string
	Err    *latex.ParseError
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = opts.Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// displayPath makes path relative to workDir when it lies below it.
func displayPath(path, workDir string) string {
	if workDir == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
