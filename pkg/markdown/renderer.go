package markdown

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomathml/internal/logging"
	"github.com/yaklabco/gomathml/pkg/latex"
)

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Extension ExtensionOptions
	// GFM enables GitHub Flavored Markdown tables, strikethrough,
	// autolinks and task lists.
	GFM bool
	// Unsafe keeps raw HTML from the document.
	Unsafe bool
}

// Result is a rendered document.
type Result struct {
	HTML []byte
	// Math counts the math nodes converted.
	Math int
	// Errors holds the parse errors in document order.
	Errors []*latex.ParseError
}

// Renderer converts Markdown documents to HTML with MathML. A Renderer
// should not be shared between goroutines when its parser's
// configuration is still changing.
type Renderer struct {
	md  goldmark.Markdown
	ext *Extension
}

// NewRenderer returns a Renderer with the math extension installed.
func NewRenderer(opts RendererOptions) *Renderer {
	ext := NewExtension(opts.Extension)

	extensions := []goldmark.Extender{ext}
	if opts.GFM {
		extensions = append(extensions, extension.GFM)
	}

	var rendererOpts []goldmark.Option
	if opts.Unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	return &Renderer{
		md:  goldmark.New(append(rendererOpts, goldmark.WithExtensions(extensions...))...),
		ext: ext,
	}
}

// Render converts src to HTML.
func (r *Renderer) Render(ctx context.Context, src []byte) ([]byte, error) {
	res, err := r.Convert(ctx, src)
	if err != nil {
		return nil, err
	}
	return res.HTML, nil
}

// Convert converts src and reports the math it contained. Math is parsed
// before rendering so that cancellation stops the conversion.
func (r *Renderer) Convert(ctx context.Context, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	doc := r.md.Parser().Parse(text.NewReader(src))
	res := &Result{}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		c, err := r.ext.convertNode(ctx, node, src)
		if err != nil {
			return ast.WalkStop, err
		}
		if c == nil {
			return ast.WalkContinue, nil
		}
		res.Math++
		if c.err != nil {
			res.Errors = append(res.Errors, c.err)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("convert math: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	res.HTML = buf.Bytes()

	logging.FromContext(ctx).Debug("markdown rendered",
		logging.FieldMathTotal, res.Math,
		logging.FieldErrorsTotal, len(res.Errors))

	return res, nil
}
