package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/gomathml/internal/ui/pretty"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = opts.Writer
	}
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to render."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if r.opts.ShowWritten && file.Written {
			fmt.Fprintf(bw, "%s %s %s\n",
				r.styles.Dim.Render(path),
				r.styles.Dim.Render("->"),
				r.styles.Success.Render(displayPath(file.Output, r.opts.WorkingDir)),
			)
		}

		if len(file.ParseErrors) == 0 {
			continue
		}

		fmt.Fprintln(bw, r.styles.FormatFileHeader(path, len(file.ParseErrors)))
		for _, perr := range file.ParseErrors {
			r.writeParseError(bw, path, perr)
			total++
		}
		fmt.Fprintln(bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// ReportConversion implements Reporter. Successful output goes to Writer
// and parse errors to ErrorWriter.
func (r *TextReporter) ReportConversion(_ context.Context, conv Conversion) error {
	if conv.Err == nil {
		if _, err := fmt.Fprintln(r.opts.Writer, conv.Output); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}

	bw := bufio.NewWriter(r.opts.ErrorWriter)
	r.writeParseError(bw, conv.Label, conv.Err)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func (r *TextReporter) writeParseError(w io.Writer, label string, perr *latex.ParseError) {
	if r.opts.ShowContext {
		fmt.Fprint(w, r.styles.FormatParseError(label, perr))
		return
	}
	line, column := pretty.ErrorPosition(perr.Done)
	fmt.Fprintf(w, "  %s:%d:%d  %s  %s\n",
		r.styles.FilePath.Render(label), line, column,
		r.styles.Error.Render("error"),
		r.styles.Message.Render(perr.Error()),
	)
}
