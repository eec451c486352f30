package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// inlineParser recognizes $...$ and $$...$$ within a single line.
type inlineParser struct{}

// Trigger implements parser.InlineParser.
func (p *inlineParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse implements parser.InlineParser. A single dollar must not be
// followed by a space, and its closing dollar must not follow a space or
// precede a digit, so prices such as $5 and $6 stay text.
func (p *inlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	width := 1
	if len(line) > 1 && line[1] == '$' {
		width = 2
	}

	end := closingDollar(line, width)
	if end < 0 {
		return nil
	}

	node := NewMathInline(text.NewSegment(segment.Start+width, segment.Start+end), width == 2)
	block.Advance(end + width)
	return node
}

// closingDollar returns the offset of the closing delimiter or -1.
func closingDollar(line []byte, width int) int {
	if len(line) <= width {
		return -1
	}
	if width == 1 && isSpace(line[1]) {
		return -1
	}

	for i := width; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			if i == width {
				return -1
			}
			if width == 2 {
				if i+1 < len(line) && line[i+1] == '$' {
					return i
				}
				continue
			}
			if isSpace(line[i-1]) {
				continue
			}
			if i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			return i
		}
	}
	return -1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
