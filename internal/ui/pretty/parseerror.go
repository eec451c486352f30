package pretty

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/gomathml/pkg/latex"
)

// sourceIndent aligns the source context under the message line.
const sourceIndent = "        "

// ErrorPosition returns the 1-based line and column of the failure point
// given the consumed part of the source.
func ErrorPosition(done string) (line, column int) {
	line = strings.Count(done, "\n") + 1
	lastLine := done[strings.LastIndexByte(done, '\n')+1:]
	return line, utf8.RuneCountInString(lastLine) + 1
}

// FormatParseError formats a parse error for terminal output. label names
// the input, such as a file path or "<stdin>".
//
//	doc.md:1:9  error  Undefined command.
//	        \frac12\foo
//	               ^
func (s *Styles) FormatParseError(label string, perr *latex.ParseError) string {
	var builder strings.Builder

	line, column := ErrorPosition(perr.Done)
	location := fmt.Sprintf("%s%s",
		s.FilePath.Render(label),
		s.Location.Render(fmt.Sprintf(":%d:%d", line, column)),
	)

	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(perr.Error()),
	))
	builder.WriteString(s.FormatSourceContext(perr.Done, perr.Rest))

	return builder.String()
}

// FormatSourceContext shows the source line holding the failure point with
// the unconsumed part highlighted and a caret under its first character.
func (s *Styles) FormatSourceContext(done, rest string) string {
	before := done[strings.LastIndexByte(done, '\n')+1:]
	after, _, _ := strings.Cut(rest, "\n")

	var builder strings.Builder
	builder.WriteString(sourceIndent + s.Done.Render(before))
	if after != "" {
		builder.WriteString(s.Rest.Render(after))
	}
	builder.WriteString("\n")

	padding := sourceIndent + strings.Repeat(" ", utf8.RuneCountInString(before))
	builder.WriteString(padding + s.Caret.Render("^") + "\n")

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, errorCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case errorCount == 1:
		header += s.Dim.Render(" (1 parse error)")
	case errorCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d parse errors)", errorCount))
	}
	return header
}
