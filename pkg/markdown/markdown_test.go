package markdown_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"

	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/markdown"
)

func inline(body string) string {
	return "<math xmlns='http://www.w3.org/1998/Math/MathML' display='inline'>" + body + "</math>"
}

func block(body string) string {
	return "<math xmlns='http://www.w3.org/1998/Math/MathML' display='block'>" + body + "</math>"
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "inline math",
			src:  "Let $a_1$ be\n",
			want: "<p>Let " + inline("<msub><mi>a</mi><mn>1</mn></msub>") + " be</p>\n",
		},
		{
			name: "display math on one line inside a paragraph",
			src:  "$$x$$ follows\n",
			want: "<p>" + block("<mi>x</mi>") + " follows</p>\n",
		},
		{
			name: "display block",
			src:  "$$\n\\frac12\n$$\n",
			want: block("<mfrac><mn>1</mn><mn>2</mn></mfrac>") + "\n",
		},
		{
			name: "one line display block",
			src:  "$$x$$\n",
			want: block("<mi>x</mi>") + "\n",
		},
		{
			name: "display block with content on the delimiter lines",
			src:  "$$a\nb$$\n",
			want: block("<mi>a</mi><mi>b</mi>") + "\n",
		},
		{
			name: "fenced math",
			src:  "```math\nx^2\n```\n",
			want: block("<msup><mi>x</mi><mn>2</mn></msup>") + "\n",
		},
		{
			name: "fenced tex",
			src:  "```tex\nx\n```\n",
			want: block("<mi>x</mi>") + "\n",
		},
		{
			name: "other fenced languages stay code",
			src:  "```go\nx\n```\n",
			want: "<pre><code class=\"language-go\">x\n</code></pre>\n",
		},
		{
			name: "prices are not math",
			src:  "costs $5 and $6\n",
			want: "<p>costs $5 and $6</p>\n",
		},
		{
			name: "dollar followed by space",
			src:  "a $ b $ c\n",
			want: "<p>a $ b $ c</p>\n",
		},
		{
			name: "markdown around math",
			src:  "# T\n\n*em* $y$\n",
			want: "<h1>T</h1>\n<p><em>em</em> " + inline("<mi>y</mi>") + "</p>\n",
		},
	}

	r := markdown.NewRenderer(markdown.RendererOptions{})
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.Render(context.Background(), []byte(testCase.src))
			require.NoError(t, err)
			assert.Equal(t, testCase.want, string(got))
		})
	}
}

func TestConvertReportsErrors(t *testing.T) {
	t.Parallel()

	r := markdown.NewRenderer(markdown.RendererOptions{})
	res, err := r.Convert(context.Background(), []byte("$a$ and $\\foo$\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Math)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Undefined command.", res.Errors[0].Error())
	assert.Equal(t, `\foo`, res.Errors[0].Rest)
	assert.Contains(t, string(res.HTML), "<code><strong>\\foo</strong></code>")
}

func TestConvertCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := markdown.NewRenderer(markdown.RendererOptions{})
	_, err := r.Convert(ctx, []byte("$a$\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtensionWithMacros(t *testing.T) {
	t.Parallel()

	p := latex.NewParser(latex.Options{})
	require.NoError(t, p.Macro().Parse(`\newcommand{\half}{\frac12}`))

	r := markdown.NewRenderer(markdown.RendererOptions{
		Extension: markdown.ExtensionOptions{Parser: p, FencedLanguages: []string{"latex"}},
	})
	got, err := r.Render(context.Background(), []byte("```latex\n\\half\n```\n\n```math\nx\n```\n"))
	require.NoError(t, err)
	assert.Equal(t,
		block("<mfrac><mn>1</mn><mn>2</mn></mfrac>")+"\n"+
			"<pre><code class=\"language-math\">x\n</code></pre>\n",
		string(got))
}

func TestDetectTeX(t *testing.T) {
	t.Parallel()

	src := []byte("```\n\\frac12\n```\n")

	plain := markdown.NewRenderer(markdown.RendererOptions{})
	got, err := plain.Render(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "<pre><code>\\frac12\n</code></pre>\n", string(got))

	detecting := markdown.NewRenderer(markdown.RendererOptions{
		Extension: markdown.ExtensionOptions{DetectTeX: true},
	})
	got, err = detecting.Render(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, block("<mfrac><mn>1</mn><mn>2</mn></mfrac>")+"\n", string(got))
}

func TestIsTeX(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"blank", "  \n", false},
		{"command", `\sum_{i=1}^n i`, true},
		{"braced script", "x^{2}", true},
		{"go", "package main\n\nfunc main() {}\n", false},
		{"python", "def f(x):\n    return x\n", false},
		{"json", `{"a": 1}`, false},
		{"shebang", "#!/bin/sh\necho hi\n", false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, markdown.IsTeX([]byte(testCase.content)))
		})
	}
}

func TestExtendPlainGoldmark(t *testing.T) {
	t.Parallel()

	md := goldmark.New(goldmark.WithExtensions(markdown.NewExtension(markdown.ExtensionOptions{})))
	var buf bytes.Buffer
	require.NoError(t, md.Convert([]byte("$z$\n"), &buf))
	assert.Equal(t, "<p>"+inline("<mi>z</mi>")+"</p>\n", buf.String())
}

func TestGFM(t *testing.T) {
	t.Parallel()

	r := markdown.NewRenderer(markdown.RendererOptions{GFM: true})
	got, err := r.Render(context.Background(), []byte("~~old~~ $x$\n"))
	require.NoError(t, err)
	assert.Equal(t, "<p><del>old</del> "+inline("<mi>x</mi>")+"</p>\n", string(got))
}
