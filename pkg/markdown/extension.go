// Package markdown renders LaTeX math in Markdown documents to MathML.
//
// The goldmark extension recognizes $...$ and $$...$$ in paragraphs,
// display blocks delimited by lines starting and ending with $$, and
// fenced code blocks labelled with a math language. Blocks without a
// label can be classified by content.
package markdown

import (
	"context"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/gomathml/pkg/document"
	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/mathml"
)

// ExtensionOptions configures the math extension.
type ExtensionOptions struct {
	// Parser converts the math. Nil selects a parser with default options.
	Parser *latex.Parser
	// FencedLanguages lists info strings of fenced blocks holding display
	// math. Nil selects math, latex and tex.
	FencedLanguages []string
	// DetectTeX converts unlabelled fenced blocks classified as TeX.
	DetectTeX bool
}

// Extension is a goldmark.Extender adding LaTeX math.
type Extension struct {
	parser    *latex.Parser
	languages []string
	detectTeX bool
}

var _ goldmark.Extender = (*Extension)(nil)

// NewExtension returns the math extension.
func NewExtension(opts ExtensionOptions) *Extension {
	e := &Extension{
		parser:    opts.Parser,
		languages: opts.FencedLanguages,
		detectTeX: opts.DetectTeX,
	}
	if e.parser == nil {
		e.parser = latex.NewParser(latex.Options{})
	}
	if e.languages == nil {
		e.languages = []string{"math", "latex", "tex"}
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&blockParser{}, 701),
		),
		parser.WithInlineParsers(
			util.Prioritized(&inlineParser{}, 150),
		),
		parser.WithASTTransformers(
			util.Prioritized(&fenceTransformer{languages: e.languages, detectTeX: e.detectTeX}, 100),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{ext: e}, 100),
		),
	)
}

// convert parses the source of a math node once and records the result.
// Only context errors are returned.
func (e *Extension) convert(ctx context.Context, c *conversion, src string, display bool) error {
	if c.done {
		return nil
	}

	math, err := e.parser.ParseContext(ctx, src, display)
	if err != nil {
		var perr *latex.ParseError
		if !errors.As(err, &perr) {
			return err
		}
		c.err = perr
		c.output = document.ErrorFragment(perr)
	} else {
		c.output = mathml.Serialize(math)
	}
	c.done = true
	return nil
}

// convertNode converts a math node of either kind.
func (e *Extension) convertNode(ctx context.Context, node ast.Node, source []byte) (*conversion, error) {
	switch n := node.(type) {
	case *MathInline:
		return &n.conversion, e.convert(ctx, &n.conversion, n.Source(source), n.Display)
	case *MathBlock:
		return &n.conversion, e.convert(ctx, &n.conversion, n.Source(source), true)
	default:
		return nil, nil
	}
}

// nodeRenderer writes converted math.
type nodeRenderer struct {
	ext *Extension
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderMath)
	reg.Register(KindMathBlock, r.renderMath)
}

func (r *nodeRenderer) renderMath(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	c, err := r.ext.convertNode(context.Background(), node, source)
	if err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(c.output)
	if node.Kind() == KindMathBlock {
		_ = w.WriteByte('\n')
	}
	return ast.WalkSkipChildren, nil
}
