package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

//nolint:gochecknoglobals // Read-only delimiter.
var dollars = []byte("$$")

// blockParser reads display math opened by a line starting with $$ and
// closed by a line ending with $$.
type blockParser struct{}

// Trigger implements parser.BlockParser.
func (b *blockParser) Trigger() []byte {
	return []byte{'$'}
}

// Open implements parser.BlockParser.
func (b *blockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], dollars) {
		return nil, parser.NoChildren
	}

	node := NewMathBlock()
	rest := util.TrimRightSpace(line[pos+len(dollars):])
	start := segment.Start + pos + len(dollars)

	if i := bytes.Index(rest, dollars); i >= 0 {
		// A one line block must end at the closing delimiter; anything
		// after it makes the line a paragraph with inline math.
		if i+len(dollars) != len(rest) {
			return nil, parser.NoChildren
		}
		if i > 0 {
			node.Lines().Append(text.NewSegment(start, start+i))
		}
		reader.Advance(segment.Len() - 1)
		return node, parser.Close
	}

	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(start, segment.Stop))
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

// Continue implements parser.BlockParser.
func (b *blockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	trimmed := util.TrimRightSpace(line)

	if bytes.HasSuffix(trimmed, dollars) {
		if content := len(trimmed) - len(dollars); content > 0 {
			node.Lines().Append(text.NewSegment(segment.Start, segment.Start+content))
		}
		reader.Advance(segment.Len() - 1)
		return parser.Close
	}

	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

// Close implements parser.BlockParser.
func (b *blockParser) Close(ast.Node, text.Reader, parser.Context) {}

// CanInterruptParagraph implements parser.BlockParser.
func (b *blockParser) CanInterruptParagraph() bool { return true }

// CanAcceptIndentedLine implements parser.BlockParser.
func (b *blockParser) CanAcceptIndentedLine() bool { return false }
