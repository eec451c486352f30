package document_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomathml/pkg/document"
	"github.com/yaklabco/gomathml/pkg/latex"
)

func inline(body string) string {
	return "<math xmlns='http://www.w3.org/1998/Math/MathML' display='inline'>" + body + "</math>"
}

func block(body string) string {
	return "<math xmlns='http://www.w3.org/1998/Math/MathML' display='block'>" + body + "</math>"
}

func kinds(spans []document.Span) []document.SpanKind {
	out := make([]document.SpanKind, 0, len(spans))
	for _, s := range spans {
		out = append(out, s.Kind)
	}
	return out
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "inline math",
			src:  "a\n$\nb\n$\nc\\(\nd\n\\)e",
			want: "a\n" + inline("<mi>b</mi>") + "\nc" + inline("<mi>d</mi>") + "e",
		},
		{
			name: "escaped dollar inside math",
			src:  `$\$$`,
			want: inline("<mo stretchy='false'>$</mo>"),
		},
		{
			name: "display math",
			src:  "a\n$$\nb\n$$\nc\\[\nd\n\\]e",
			want: "a\n" + block("<mi>b</mi>") + "\nc" + block("<mi>d</mi>") + "e",
		},
		{
			name: "mixed",
			src:  `a$b$c$$d$$e\(f\)g\[h\]i`,
			want: "a" + inline("<mi>b</mi>") + "c" + block("<mi>d</mi>") + "e" +
				inline("<mi>f</mi>") + "g" + block("<mi>h</mi>") + "i",
		},
		{
			name: "escapes",
			src:  `a\bc\d\e`,
			want: "abcde",
		},
		{
			name: "escaped dollar before display",
			src:  `\$a$$b$$`,
			want: "$a" + block("<mi>b</mi>"),
		},
		{
			name: "escaped markup and line break",
			src:  "\\<\\\n",
			want: "&lt;<br />\n",
		},
		{
			name: "plain text is not escaped",
			src:  "<b>x</b>",
			want: "<b>x</b>",
		},
		{
			name: "empty",
			src:  "",
			want: "",
		},
	}

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{})
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, _, err := conv.Convert(context.Background(), testCase.src)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{})
	src := `a$b$c$$d$$\e`
	spans := conv.Split(src)

	assert.Equal(t, []document.SpanKind{
		document.SpanText, document.SpanInline, document.SpanText, document.SpanDisplay, document.SpanEscape,
	}, kinds(spans))

	var joined string
	for i, s := range spans {
		joined += s.Source
		assert.Equal(t, src[s.Start:s.End], s.Source)
		if i > 0 {
			assert.Equal(t, spans[i-1].End, s.Start)
		}
	}
	assert.Equal(t, src, joined)
	assert.Equal(t, "b", spans[1].Content)
	assert.Equal(t, "d", spans[3].Content)
	assert.Equal(t, "e", spans[4].Content)
	assert.True(t, spans[1].IsMath())
	assert.False(t, spans[4].IsMath())
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{
		Passthrough: []*regexp.Regexp{regexp.MustCompile(`\{\{.*?\}\}`), regexp.MustCompile(`\(\(.*?\)\)`)},
	})

	got, spans, err := conv.Convert(context.Background(), `{{$a$}}(($b$))$c$`)
	require.NoError(t, err)
	assert.Equal(t, "{{$a$}}(($b$))"+inline("<mi>c</mi>"), got)
	assert.Equal(t, []document.SpanKind{
		document.SpanPassthrough, document.SpanPassthrough, document.SpanInline,
	}, kinds(spans))
}

func TestCustomDelimiters(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{
		Inline:  []*regexp.Regexp{regexp.MustCompile(`%(.*?)%`)},
		Display: []*regexp.Regexp{regexp.MustCompile(`\[(.*?)\]`)},
		Escape:  regexp.MustCompile(`_(.)`),
	})

	got, _, err := conv.Convert(context.Background(), `a$b$c%d%e[f]_%`)
	require.NoError(t, err)
	assert.Equal(t, "a$b$c"+inline("<mi>d</mi>")+"e"+block("<mi>f</mi>")+"%", got)
}

func TestConvertWithMacros(t *testing.T) {
	t.Parallel()

	p := latex.NewParser(latex.Options{})
	require.NoError(t, p.Macro().Parse(`\newcommand{\test}{t}`))
	conv := document.NewConverter(p, document.Options{})

	got, _, err := conv.Convert(context.Background(), `$\test$`)
	require.NoError(t, err)
	assert.Equal(t, inline("<mi>t</mi>"), got)
}

func TestErrorFragment(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{})
	got, spans, err := conv.Convert(context.Background(), `$a\test$ $$b\dummy$$`)
	require.NoError(t, err)

	assert.Equal(t,
		"<br />\nUndefined command.<br />\n<code>a<strong>\\test</strong></code><br />"+
			" "+
			"<br />\nUndefined command.<br />\n<code>b<strong>\\dummy</strong></code><br />",
		got)

	require.Len(t, spans, 3)
	require.NotNil(t, spans[0].Err)
	assert.Equal(t, "a", spans[0].Err.Done)
	require.NotNil(t, spans[2].Err)
	assert.Equal(t, "b", spans[2].Err.Done)
}

func TestRescue(t *testing.T) {
	t.Parallel()

	rescue := func(perr *latex.ParseError) string {
		return "<span class='math-error' title='" + perr.Error() + "'>" + perr.Done + perr.Rest + "</span>"
	}
	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{Rescue: rescue})
	got, spans, err := conv.Convert(context.Background(), `$x$ and $a\test$`)
	require.NoError(t, err)

	assert.Equal(t,
		inline("<mi>x</mi>")+" and <span class='math-error' title='Undefined command.'>a\\test</span>",
		got)
	require.Len(t, spans, 3)
	require.NotNil(t, spans[2].Err)
	assert.Equal(t, `\test`, spans[2].Err.Rest)
}

func TestStrict(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{Strict: true})
	_, _, err := conv.Convert(context.Background(), `ok $x_1_2$`)
	require.Error(t, err)
	assert.True(t, latex.IsKind(err, latex.KindDoubleSubscript))
}

func TestEscapeText(t *testing.T) {
	t.Parallel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{EscapeText: true})
	got, _, err := conv.Convert(context.Background(), "<a> & $x$\nb")
	require.NoError(t, err)
	assert.Equal(t, "&lt;a&gt; &amp; "+inline("<mi>x</mi>")+"<br />\nb", got)
}

func TestConvertCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := document.NewConverter(latex.NewParser(latex.Options{}), document.Options{})
	_, _, err := conv.Convert(ctx, "$a$")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSpanKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", document.SpanText.String())
	assert.Equal(t, "inline", document.SpanInline.String())
	assert.Equal(t, "display", document.SpanDisplay.String())
	assert.Equal(t, "escape", document.SpanEscape.String())
	assert.Equal(t, "passthrough", document.SpanPassthrough.String())
}
