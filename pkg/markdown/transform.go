package markdown

import (
	"slices"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// fenceTransformer replaces fenced code blocks holding math with math
// blocks.
type fenceTransformer struct {
	languages []string
	detectTeX bool
}

// Transform implements parser.ASTTransformer.
func (t *fenceTransformer) Transform(document *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var blocks []*ast.FencedCodeBlock
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if t.isMath(block, source) {
			blocks = append(blocks, block)
		}
		return ast.WalkSkipChildren, nil
	})

	for _, block := range blocks {
		parent := block.Parent()
		if parent == nil {
			continue
		}
		math := NewMathBlock()
		math.SetLines(block.Lines())
		parent.ReplaceChild(parent, block, math)
	}
}

func (t *fenceTransformer) isMath(block *ast.FencedCodeBlock, source []byte) bool {
	if block.Info == nil {
		return t.detectTeX && IsTeX(block.Lines().Value(source))
	}
	return slices.Contains(t.languages, string(block.Language(source)))
}
