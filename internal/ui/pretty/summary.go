package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gomathml/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 parse errors in 2 files, 14 math spans in 5 files, 4 written".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.ParseErrorsTotal == 0 {
		parts = append(parts, s.Success.Render("No parse errors"))
	} else {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s in %d %s",
			stats.ParseErrorsTotal, plural(stats.ParseErrorsTotal, "parse error", "parse errors"),
			stats.FilesWithParseErrors, plural(stats.FilesWithParseErrors, wordFile, wordFiles))))
	}

	parts = append(parts, s.Dim.Render(fmt.Sprintf("%d math %s in %d %s",
		stats.MathTotal, plural(stats.MathTotal, "span", "spans"),
		stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s failed",
			stats.FilesErrored, plural(stats.FilesErrored, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files rendered:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Math spans:        " +
		s.SummaryValue.Render(strconv.Itoa(stats.MathTotal)) + "\n")
	if stats.ParseErrorsTotal > 0 {
		builder.WriteString("  Parse errors:      " +
			s.Error.Render(strconv.Itoa(stats.ParseErrorsTotal)) + "\n")
	}

	builder.WriteString("\n")
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Render failed"))
	case stats.ParseErrorsTotal > 0:
		builder.WriteString(s.Warning.Render("Rendered with parse errors"))
	default:
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}
