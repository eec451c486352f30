package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomathml/pkg/latex"
)

//nolint:gochecknoglobals // goldmark node kinds are registered once.
var (
	// KindMathInline is the node kind of $...$ spans.
	KindMathInline = ast.NewNodeKind("MathInline")
	// KindMathBlock is the node kind of display math blocks.
	KindMathBlock = ast.NewNodeKind("MathBlock")
)

// conversion holds the result of parsing one math node.
type conversion struct {
	done   bool
	output string
	err    *latex.ParseError
}

// Output returns the rendered MathML, or the error fragment when parsing
// failed. It is empty until the node was converted.
func (c *conversion) Output() string { return c.output }

// Err returns the parse error of a converted node.
func (c *conversion) Err() *latex.ParseError { return c.err }

// MathInline is math inside a paragraph. $$...$$ on one line is inline
// content rendered in display style.
type MathInline struct {
	ast.BaseInline
	conversion

	// Display is set for $$...$$.
	Display bool
	// Segment locates the source between the delimiters.
	Segment text.Segment
}

// NewMathInline returns an inline math node over segment.
func NewMathInline(segment text.Segment, display bool) *MathInline {
	return &MathInline{Segment: segment, Display: display}
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Source returns the LaTeX source of the node.
func (n *MathInline) Source(source []byte) string {
	return string(n.Segment.Value(source))
}

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.Display),
		"Source":  n.Source(source),
	}, nil)
}

// MathBlock is display math taking whole lines: a $$ block or a fenced
// code block in one of the math languages.
type MathBlock struct {
	ast.BaseBlock
	conversion
}

// NewMathBlock returns an empty math block.
func NewMathBlock() *MathBlock {
	return &MathBlock{}
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Source returns the LaTeX source of the block.
func (n *MathBlock) Source(source []byte) string {
	lines := n.Lines()
	var b []byte
	for i := range lines.Len() {
		line := lines.At(i)
		b = append(b, line.Value(source)...)
	}
	return string(b)
}

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}
