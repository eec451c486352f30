// Package document converts plain text with embedded LaTeX math into text
// with MathML.
//
// A Converter splits its input into spans. Math spans are delimited by
// $...$ and \(...\) for inline math and $$...$$ and \[...\] for display
// math. A backslash followed by any character is an escape that writes the
// character itself, so \$ produces a dollar sign and a backslash before a
// newline produces a line break. Passthrough patterns mark regions that
// are copied unchanged, math delimiters included.
package document

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/mathml"
)

// SpanKind classifies a region of the input.
type SpanKind uint8

const (
	SpanText SpanKind = iota
	SpanInline
	SpanDisplay
	SpanEscape
	SpanPassthrough
)

// String returns the lower-case name of the kind.
func (k SpanKind) String() string {
	switch k {
	case SpanInline:
		return "inline"
	case SpanDisplay:
		return "display"
	case SpanEscape:
		return "escape"
	case SpanPassthrough:
		return "passthrough"
	default:
		return "text"
	}
}

// Span is one region of a converted document.
type Span struct {
	Kind SpanKind
	// Start and End are byte offsets into the input.
	Start, End int
	// Source is the input text of the span, delimiters included.
	Source string
	// Content is the text between the delimiters of a math span and the
	// escaped character of an escape span.
	Content string
	// Output is the converted text.
	Output string
	// Err is set when a math span failed to parse.
	Err *latex.ParseError
}

// IsMath reports whether the span holds inline or display math.
func (s Span) IsMath() bool {
	return s.Kind == SpanInline || s.Kind == SpanDisplay
}

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	defaultInline = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\$((?:\\.|[^\\$])+?)\$`),
		regexp.MustCompile(`(?s)\\\((.*?)\\\)`),
	}
	defaultDisplay = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\$\$(.*?)\$\$`),
		regexp.MustCompile(`(?s)\\\[(.*?)\\\]`),
	}
	defaultEscape = regexp.MustCompile(`(?s)\\(.)`)
)

// Options configures a Converter. Patterns for math and escapes must have
// one capture group holding the content.
type Options struct {
	// Inline defaults to $...$ and \(...\).
	Inline []*regexp.Regexp
	// Display defaults to $$...$$ and \[...\].
	Display []*regexp.Regexp
	// Escape defaults to a backslash followed by one character.
	Escape *regexp.Regexp
	// Passthrough regions are copied unchanged.
	Passthrough []*regexp.Regexp
	// EscapeText XML-escapes the text between spans and turns its
	// newlines into <br /> elements.
	EscapeText bool
	// Strict makes Convert stop at the first parse error instead of
	// writing an error fragment.
	Strict bool
	// Rescue renders a span that failed to parse. Defaults to ErrorFragment.
	Rescue func(*latex.ParseError) string
}

// Converter turns documents into text with MathML. A Converter is safe
// for concurrent use when its parser is.
type Converter struct {
	parser   *latex.Parser
	opts     Options
	patterns []pattern
}

type pattern struct {
	kind SpanKind
	re   *regexp.Regexp
}

// NewConverter returns a converter parsing math with p.
func NewConverter(p *latex.Parser, opts Options) *Converter {
	if opts.Inline == nil {
		opts.Inline = defaultInline
	}
	if opts.Display == nil {
		opts.Display = defaultDisplay
	}
	if opts.Escape == nil {
		opts.Escape = defaultEscape
	}
	if opts.Rescue == nil {
		opts.Rescue = ErrorFragment
	}

	c := &Converter{parser: p, opts: opts}
	for _, re := range opts.Passthrough {
		c.patterns = append(c.patterns, pattern{SpanPassthrough, re})
	}
	for _, re := range opts.Display {
		c.patterns = append(c.patterns, pattern{SpanDisplay, re})
	}
	for _, re := range opts.Inline {
		c.patterns = append(c.patterns, pattern{SpanInline, re})
	}
	c.patterns = append(c.patterns, pattern{SpanEscape, opts.Escape})
	return c
}

// Split divides text into spans without parsing any math. The spans cover
// the input without gaps.
func (c *Converter) Split(text string) []Span {
	var spans []Span
	next := make([][]int, len(c.patterns))
	for i := range next {
		next[i] = []int{-1}
	}

	pos, textStart := 0, 0
	for pos < len(text) {
		best := -1
		var match []int
		for i, p := range c.patterns {
			if next[i] != nil && next[i][0] < pos {
				next[i] = p.re.FindStringSubmatchIndex(text[pos:])
				for j := range next[i] {
					if next[i][j] >= 0 {
						next[i][j] += pos
					}
				}
			}
			m := next[i]
			if m == nil || m[1] == m[0] {
				continue
			}
			if match == nil || m[0] < match[0] {
				best, match = i, m
			}
		}
		if match == nil {
			break
		}

		if match[0] > textStart {
			spans = append(spans, textSpan(text, textStart, match[0]))
		}
		span := Span{
			Kind:   c.patterns[best].kind,
			Start:  match[0],
			End:    match[1],
			Source: text[match[0]:match[1]],
		}
		if len(match) >= 4 && match[2] >= 0 {
			span.Content = text[match[2]:match[3]]
		}
		spans = append(spans, span)
		pos, textStart = match[1], match[1]
	}

	if textStart < len(text) {
		spans = append(spans, textSpan(text, textStart, len(text)))
	}
	return spans
}

func textSpan(text string, start, end int) Span {
	return Span{Kind: SpanText, Start: start, End: end, Source: text[start:end], Content: text[start:end]}
}

// Convert converts every span of text and returns the joined output along
// with the spans. Parse errors become HTML error fragments unless Strict
// is set. The returned error is a context error or, in strict mode, the
// first *latex.ParseError.
func (c *Converter) Convert(ctx context.Context, text string) (string, []Span, error) {
	logger := logging.FromContext(ctx)
	spans := c.Split(text)

	var out strings.Builder
	failures := 0
	for i := range spans {
		span := &spans[i]
		switch span.Kind {
		case SpanInline, SpanDisplay:
			display := span.Kind == SpanDisplay
			math, err := c.parser.ParseContext(ctx, span.Content, display)
			if err != nil {
				var perr *latex.ParseError
				if !errors.As(err, &perr) {
					return "", spans, err
				}
				if c.opts.Strict {
					return "", spans, fmt.Errorf("convert %q at offset %d: %w", span.Source, span.Start, err)
				}
				span.Err = perr
				span.Output = c.opts.Rescue(perr)
				failures++
				logging.ForFormula(ctx, span.Content, display).Debug("math parse failed",
					logging.FieldError, perr.Error())
				break
			}
			span.Output = mathml.Serialize(math)
		case SpanEscape:
			span.Output = escapeText(span.Content)
		case SpanText:
			span.Output = span.Content
			if c.opts.EscapeText {
				span.Output = escapeText(span.Content)
			}
		default:
			span.Output = span.Source
		}
		out.WriteString(span.Output)
	}

	logger.Debug("document converted",
		logging.FieldSpans, len(spans),
		logging.FieldErrorsTotal, failures)

	return out.String(), spans, nil
}

// ErrorFragment renders a parse error as HTML showing the message, the
// consumed source and, highlighted, the source that was not consumed.
func ErrorFragment(err *latex.ParseError) string {
	var b strings.Builder
	b.WriteString("<br />\n")
	b.WriteString(escapeText(err.Error()))
	b.WriteString("<br />\n<code>")
	b.WriteString(escapeText(err.Done))
	b.WriteString("<strong>")
	b.WriteString(escapeText(err.Rest))
	b.WriteString("</strong></code><br />")
	return b.String()
}

// escapeText XML-escapes s and turns newlines into line breaks.
func escapeText(s string) string {
	return strings.ReplaceAll(mathml.Escape(s), "\n", "<br />\n")
}
