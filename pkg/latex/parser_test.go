package latex_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/mathml"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// inner serializes the children of the math root.
func inner(t *testing.T, p *latex.Parser, src string, display bool) string {
	t.Helper()

	math, err := p.Parse(src, display)
	require.NoError(t, err, src)

	var b strings.Builder
	for _, child := range math.Children() {
		b.WriteString(mathml.Serialize(child))
	}
	return b.String()
}

func requireParseError(t *testing.T, err error, message, done, rest string) {
	t.Helper()

	var perr *latex.ParseError
	require.True(t, errors.As(err, &perr), "expected *latex.ParseError, got %v", err)
	assert.Equal(t, message, perr.Error())
	assert.Equal(t, done, perr.Done)
	assert.Equal(t, rest, perr.Rest)
}

type outputCase struct {
	src     string
	display bool
	want    string
}

type errorCase struct {
	src     string
	message string
	done    string
	rest    string
}

func runOutputCases(t *testing.T, p func() *latex.Parser, tests []outputCase) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.src, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, inner(t, p(), testCase.src, testCase.display))
		})
	}
}

func runErrorCases(t *testing.T, p func() *latex.Parser, tests []errorCase) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.src, func(t *testing.T) {
			t.Parallel()

			_, err := p().Parse(testCase.src, false)
			requireParseError(t, err, testCase.message, testCase.done, testCase.rest)
			assert.Equal(t, testCase.src, testCase.done+testCase.rest)
		})
	}
}

func defaultParser() *latex.Parser {
	return latex.NewParser(latex.Options{})
}

func TestMathRoot(t *testing.T) {
	t.Parallel()

	p := defaultParser()

	math, err := p.Parse("", false)
	require.NoError(t, err)
	assert.Equal(t, "<math xmlns='http://www.w3.org/1998/Math/MathML' display='inline' />", math.String())
	assert.Len(t, math.Attrs(), 2)

	math, err = p.Parse("", true)
	require.NoError(t, err)
	assert.Equal(t, "<math xmlns='http://www.w3.org/1998/Math/MathML' display='block' />", math.String())
}

func TestBasicElements(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: "{ a }", want: "<mrow><mi>a</mi></mrow>"},
		{src: "1234567890", want: "<mn>1234567890</mn>"},
		{src: "1.2", want: "<mn>1.2</mn>"},
		{src: "1.", want: "<mn>1</mn><mo stretchy='false'>.</mo>"},
		{src: ".2", want: "<mn>.2</mn>"},
		{src: "1.2.3", want: "<mn>1.2</mn><mn>.3</mn>"},
		{src: "abc", want: "<mi>a</mi><mi>b</mi><mi>c</mi>"},
		{src: "Z", want: "<mi>Z</mi>"},
		{src: `\|`, want: "<mo stretchy='false'>&DoubleVerticalBar;</mo>"},
		{src: "a%b", want: "<mi>a</mi>"},
		{src: "a % comment\nb", want: "<mi>a</mi><mi>b</mi>"},
		{src: `\\`, want: "<br xmlns='http://www.w3.org/1999/xhtml' />"},
		{src: `a\\b`, display: true, want: "<mi>a</mi><mi>b</mi>"},
		{src: `\displaystyle a`, want: "<mi>a</mi>"},
		{src: `\precneqq`, want: "<mo stretchy='false'>&#x2ab5;</mo>"},
		{src: `\Gamma`, want: "<mi mathvariant='normal'>&Gamma;</mi>"},
		{src: `\sin x`, want: "<mi>sin</mi><mi>x</mi>"},
	})
}

func TestSpaces(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: `\ `, want: "<mspace width='1em' />"},
		{src: `\quad`, want: "<mspace width='1em' />"},
		{src: `\qquad`, want: "<mspace width='2em' />"},
		{src: `\,`, want: "<mspace width='0.167em' />"},
		{src: `\:`, want: "<mspace width='0.222em' />"},
		{src: `\;`, want: "<mspace width='0.278em' />"},
		{src: `\!`, want: "<mspace width='-0.167em' />"},
		{src: "~", want: "<mspace width='1em' />"},
	})
}

func TestOperators(t *testing.T) {
	t.Parallel()

	p := defaultParser()
	for _, op := range strings.Split(",.+-*=/()[]|;:!", "") {
		assert.Equal(t, "<mo stretchy='false'>"+op+"</mo>", inner(t, p, op, false))
	}

	escaped := map[string]string{
		"<":          "&lt;",
		">":          "&gt;",
		`"`:          "&quot;",
		`\backslash`: `\`,
		`\%`:         "%",
		`\{`:         "{",
		`\}`:         "}",
		`\$`:         "$",
		`\#`:         "#",
	}
	for src, want := range escaped {
		assert.Equal(t, "<mo stretchy='false'>"+want+"</mo>", inner(t, p, src, false), src)
	}
}

func TestPrimes(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: "a'", want: "<msup><mi>a</mi><mo>&prime;</mo></msup>"},
		{src: "a''", want: "<msup><mi>a</mi><mo>&prime;&prime;</mo></msup>"},
		{src: "a'''", want: "<msup><mi>a</mi><mo>&prime;&prime;&prime;</mo></msup>"},
		{src: "'", want: "<msup><none /><mo>&prime;</mo></msup>"},
		{src: "a'^b", want: "<msup><mi>a</mi><mrow><mo>&prime;</mo><mi>b</mi></mrow></msup>"},
		{src: "a'''^b", want: "<msup><mi>a</mi><mrow><mo>&prime;&prime;&prime;</mo><mi>b</mi></mrow></msup>"},
		{src: "a'b", want: "<msup><mi>a</mi><mo>&prime;</mo></msup><mi>b</mi>"},
		{src: "a_b'", want: "<msubsup><mi>a</mi><mi>b</mi><mo>&prime;</mo></msubsup>"},
	})

	utf8 := latex.NewParser(latex.Options{Encoding: symbol.UTF8})
	assert.Equal(t, "<msup><mi>a</mi><mo>′</mo></msup>", inner(t, utf8, "a'", false))
	assert.Equal(t, "<msup><mi>a</mi><mo>′′′</mo></msup>", inner(t, utf8, "a'''", false))

	ref := latex.NewParser(latex.Options{Encoding: symbol.CharacterReference})
	assert.Equal(t, "<msup><mi>a</mi><mo>&#x2032;</mo></msup>", inner(t, ref, "a'", false))
	assert.Equal(t, "<msup><mi>a</mi><mo>&#x2032;&#x2032;&#x2032;</mo></msup>", inner(t, ref, "a'''", false))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: "a_b^c", want: "<msubsup><mi>a</mi><mi>b</mi><mi>c</mi></msubsup>"},
		{src: "a^c_b", want: "<msubsup><mi>a</mi><mi>b</mi><mi>c</mi></msubsup>"},
		{src: "a_b", want: "<msub><mi>a</mi><mi>b</mi></msub>"},
		{src: "a^b", want: "<msup><mi>a</mi><mi>b</mi></msup>"},
		{src: "_a^b", want: "<msubsup><none /><mi>a</mi><mi>b</mi></msubsup>"},
		{src: "a_{}", want: "<msub><mi>a</mi><mrow /></msub>"},
		{src: `\sum_a^b`, display: true, want: "<munderover><mo stretchy='false'>&sum;</mo><mi>a</mi><mi>b</mi></munderover>"},
		{src: `\sum_a^b`, want: "<msubsup><mo stretchy='false'>&sum;</mo><mi>a</mi><mi>b</mi></msubsup>"},
		{src: `\sum_a`, display: true, want: "<munder><mo stretchy='false'>&sum;</mo><mi>a</mi></munder>"},
		{src: `\sum^a`, display: true, want: "<mover><mo stretchy='false'>&sum;</mo><mi>a</mi></mover>"},
		{src: `\sum_a`, want: "<msub><mo stretchy='false'>&sum;</mo><mi>a</mi></msub>"},
		{src: `\sum^a`, want: "<msup><mo stretchy='false'>&sum;</mo><mi>a</mi></msup>"},
		{src: `\lim_x`, display: true, want: "<munder><mi>lim</mi><mi>x</mi></munder>"},
		{src: "a_b", display: true, want: "<msub><mi>a</mi><mi>b</mi></msub>"},
	})

	runErrorCases(t, defaultParser, []errorCase{
		{"a_b_c", "Double subscript.", "a_b", "_c"},
		{"a^b^c", "Double superscript.", "a^b", "^c"},
		{"a^b'", "Double superscript.", "a^b", "'"},
		{"a_", "Subscript not exist.", "a_", ""},
		{"a^", "Superscript not exist.", "a^", ""},
		{`\sum_b_c`, "Double subscript.", `\sum_b`, "_c"},
		{`\sum^b^c`, "Double superscript.", `\sum^b`, "^c"},
		{`\sum_`, "Subscript not exist.", `\sum_`, ""},
		{`\sum^`, "Superscript not exist.", `\sum^`, ""},
	})
}

func TestCommands(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: `\sqrt a`, want: "<msqrt><mi>a</mi></msqrt>"},
		{src: `\sqrt[2]3`, want: "<mroot><mn>3</mn><mn>2</mn></mroot>"},
		{src: `\sqrt[2a]3`, want: "<mroot><mn>3</mn><mrow><mn>2</mn><mi>a</mi></mrow></mroot>"},
		{src: `\frac ab`, want: "<mfrac><mi>a</mi><mi>b</mi></mfrac>"},
		{src: `\frac12`, want: "<mfrac><mn>1</mn><mn>2</mn></mfrac>"},
		{src: `a\mbox{b c}d`, want: "<mi>a</mi><mtext>b c</mtext><mi>d</mi>"},
		{src: `\mbox{<>'"&}`, want: "<mtext>&lt;&gt;&apos;&quot;&amp;</mtext>"},
		{src: `\hat a`, want: "<mover><mi>a</mi><mo>&circ;</mo></mover>"},
		{src: `\hat12`, want: "<mover><mn>1</mn><mo>&circ;</mo></mover><mn>2</mn>"},
		{src: `\vec v`, want: "<mover><mi>v</mi><mo>&rightarrow;</mo></mover>"},
		{src: `\underline a`, want: "<munder><mi>a</mi><mo>&macr;</mo></munder>"},
		{src: `\underline12`, want: "<munder><mn>1</mn><mo>&macr;</mo></munder><mn>2</mn>"},
		{src: `\underbrace{ab}`, want: "<munder><mrow><mi>a</mi><mi>b</mi></mrow><mo>&UnderBrace;</mo></munder>"},
		{src: `\stackrel\to=`, want: "<mover><mo stretchy='false'>=</mo><mo stretchy='false'>&rightarrow;</mo></mover>"},
		{src: `\stackrel12`, want: "<mover><mn>2</mn><mn>1</mn></mover>"},
	})

	runErrorCases(t, defaultParser, []errorCase{
		{"test {test} {test", "Block not closed.", "test {test} ", "{test"},
		{`a\hoge c`, "Undefined command.", "a", `\hoge c`},
		{`\sqrt\sqrt1`, "Syntax error.", `\sqrt\sqrt`, "1"},
		{"a{b", "Block not closed.", "a", "{b"},
		{`\sqrt[12`, "Option not closed.", `\sqrt`, "[12"},
		{`\sqrt[a_]3`, "Subscript not exist.", `\sqrt[a_`, "]3"},
		{`\frac a`, "Syntax error.", `\frac a`, ""},
		{`{\hat}a`, "Syntax error.", `{\hat`, "}a"},
		{`{\underline}a`, "Syntax error.", `{\underline`, "}a"},
		{"&", "Syntax error.", "", "&"},
		{`\mbox`, "Syntax error.", `\mbox`, ""},
	})
}

func TestFonts(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{src: `a{\bf b c}d`, want: "<mi>a</mi><mrow><mi mathvariant='bold'>b</mi><mi mathvariant='bold'>c</mi></mrow><mi>d</mi>"},
		{src: `\bf a{\it b c}d`, want: "<mi mathvariant='bold'>a</mi><mrow><mi>b</mi><mi>c</mi></mrow><mi mathvariant='bold'>d</mi>"},
		{src: `a{\rm b c}d`, want: "<mi>a</mi><mrow><mi mathvariant='normal'>b</mi><mi mathvariant='normal'>c</mi></mrow><mi>d</mi>"},
		{src: `a \mathbf{bc}d`, want: "<mi>a</mi><mrow><mrow><mi mathvariant='bold'>b</mi><mi mathvariant='bold'>c</mi></mrow></mrow><mi>d</mi>"},
		{src: `\mathbf12`, want: "<mrow><mn mathvariant='bold'>1</mn></mrow><mn>2</mn>"},
		{src: `\bf a \mathit{bc} d`, want: "<mi mathvariant='bold'>a</mi><mrow><mrow><mi>b</mi><mi>c</mi></mrow></mrow><mi mathvariant='bold'>d</mi>"},
		{src: `a\mathrm{bc}d`, want: "<mi>a</mi><mrow><mrow><mi mathvariant='normal'>b</mi><mi mathvariant='normal'>c</mi></mrow></mrow><mi>d</mi>"},
		{src: `a \mathbb{b c} d`, want: "<mi>a</mi><mrow><mrow><mi>&bopf;</mi><mi>&copf;</mi></mrow></mrow><mi>d</mi>"},
		{src: `a \mathscr{b c} d`, want: "<mi>a</mi><mrow><mrow><mi>&bscr;</mi><mi>&cscr;</mi></mrow></mrow><mi>d</mi>"},
		{src: `a \mathfrak{b c} d`, want: "<mi>a</mi><mrow><mrow><mi>&bfr;</mi><mi>&cfr;</mi></mrow></mrow><mi>d</mi>"},
		{src: `a \bm{bc}d`, want: "<mi>a</mi><mrow><mrow><mi mathvariant='bold-italic'>b</mi><mi mathvariant='bold-italic'>c</mi></mrow></mrow><mi>d</mi>"},
		{src: `\bm ab`, want: "<mrow><mi mathvariant='bold-italic'>a</mi></mrow><mi>b</mi>"},
		{src: `\rm 1`, want: "<mn>1</mn>"},
	})

	var errs []errorCase
	for _, name := range []string{"mathit", "mathrm", "mathbf", "mathbb", "mathscr", "mathfrak"} {
		errs = append(errs, errorCase{`\` + name, "Syntax error.", `\` + name, ""})
	}
	runErrorCases(t, defaultParser, errs)
}

func TestLetterEncodings(t *testing.T) {
	t.Parallel()

	ref := latex.NewParser(latex.Options{Encoding: symbol.CharacterReference})
	assert.Equal(t, "<mi>&#x3b1;</mi>", inner(t, ref, `\alpha`, false))
	assert.Equal(t,
		"<mrow><mrow><mi>&#x1d552;</mi><mi>&#x1d553;</mi><mi>&#x1d554;</mi><mi>&#x1d538;</mi><mi>&#x1d539;</mi><mi>&#x2102;</mi></mrow></mrow>",
		inner(t, ref, `\mathbb{abcABC}`, false))
	assert.Equal(t,
		"<mrow><mrow><mi>&#x1d4b6;</mi><mi>&#x1d4b7;</mi><mi>&#x1d4b8;</mi><mi>&#x1d49c;</mi><mi>&#x212c;</mi><mi>&#x1d49e;</mi></mrow></mrow>",
		inner(t, ref, `\mathscr{abcABC}`, false))
	assert.Equal(t,
		"<mrow><mrow><mi>&#x1d51e;</mi><mi>&#x1d51f;</mi><mi>&#x1d520;</mi><mi>&#x1d504;</mi><mi>&#x1d505;</mi><mi>&#x212d;</mi></mrow></mrow>",
		inner(t, ref, `\mathfrak{abcABC}`, false))

	utf8 := latex.NewParser(latex.Options{Encoding: symbol.UTF8})
	assert.Equal(t, "<mi>α</mi>", inner(t, utf8, `\alpha`, false))
	assert.Equal(t, "<mrow><mrow><mi>𝕒</mi><mi>𝕓</mi><mi>𝕔</mi><mi>𝔸</mi><mi>𝔹</mi><mi>ℂ</mi></mrow></mrow>",
		inner(t, utf8, `\mathbb{abcABC}`, false))
	assert.Equal(t, "<mrow><mrow><mi>𝒶</mi><mi>𝒷</mi><mi>𝒸</mi><mi>𝒜</mi><mi>ℬ</mi><mi>𝒞</mi></mrow></mrow>",
		inner(t, utf8, `\mathscr{abcABC}`, false))
	assert.Equal(t, "<mrow><mrow><mi>𝔞</mi><mi>𝔟</mi><mi>𝔠</mi><mi>𝔄</mi><mi>𝔅</mi><mi>ℭ</mi></mrow></mrow>",
		inner(t, utf8, `\mathfrak{abcABC}`, false))
}

func TestFenced(t *testing.T) {
	t.Parallel()

	runOutputCases(t, defaultParser, []outputCase{
		{
			src:  `\left(\frac12\right)`,
			want: "<mfenced open='(' close=')'><mrow><mfrac><mn>1</mn><mn>2</mn></mfrac></mrow></mfenced>",
		},
		{
			src:  `\left \lfloor a\right \rfloor`,
			want: "<mfenced open='&lfloor;' close='&rfloor;'><mrow><mi>a</mi></mrow></mfenced>",
		},
		{
			src:  `\left \{ a \right \}`,
			want: "<mfenced open='{' close='}'><mrow><mi>a</mi></mrow></mfenced>",
		},
		{
			src:  `\left(\sum_a\right)`,
			want: "<mfenced open='(' close=')'><mrow><msub><mo stretchy='false'>&sum;</mo><mi>a</mi></msub></mrow></mfenced>",
		},
		{
			src:     `\left(\sum_a\right)`,
			display: true,
			want:    "<mfenced open='(' close=')'><mrow><munder><mo stretchy='false'>&sum;</mo><mi>a</mi></munder></mrow></mfenced>",
		},
		{
			src:  `\left\|a\right\|`,
			want: "<mfenced open='&DoubleVerticalBar;' close='&DoubleVerticalBar;'><mrow><mi>a</mi></mrow></mfenced>",
		},
		{
			src:  `\left.a\right|`,
			want: "<mfenced open='' close='|'><mrow><mi>a</mi></mrow></mfenced>",
		},
		{
			src:  `\bigg(a\bigg)`,
			want: "<mfenced open='(' close=')'><mrow><mi>a</mi></mrow></mfenced>",
		},
		{
			// \bigg closes at the next \bigg, so nested pairs do not nest.
			src: `\bigg(\bigg(a\bigg)\bigg)`,
			want: "<mfenced open='(' close='('><mrow /></mfenced>" +
				"<mi>a</mi>" +
				"<mfenced open=')' close=')'><mrow /></mfenced>",
		},
		{
			src: `\left\{\begin{array}c\begin{array}ca\end{array}\end{array}\right\}`,
			want: "<mfenced open='{' close='}'><mrow><mtable><mtr><mtd>" +
				"<mtable><mtr><mtd><mi>a</mi></mtd></mtr></mtable>" +
				"</mtd></mtr></mtable></mrow></mfenced>",
		},
	})

	runErrorCases(t, defaultParser, []errorCase{
		{`\left(test`, "Brace not closed.", `\left`, "(test"},
		{`\left`, "Need brace here.", `\left`, ""},
		{`\left a\right)`, "Need brace here.", `\left`, ` a\right)`},
		{`\left(a\right`, "Need brace here.", `\left(a\right`, ""},
		{`\left(\begin{matrix}a\right)`, "Undefined command.", `\left(\begin{matrix}a`, `\right)`},
	})
}

func TestEntity(t *testing.T) {
	t.Parallel()

	p := defaultParser()
	_, err := p.Parse(`\entity{therefore}`, false)
	requireParseError(t, err, "Unregistered entity.", `\entity{`, "therefore}")

	p.SetUnsecureEntity(true)
	assert.Equal(t, "<mo>&therefore;</mo>", inner(t, p, `\entity{therefore}`, false))

	p.SetUnsecureEntity(false)
	_, err = p.Parse(`\entity{therefore}`, false)
	requireParseError(t, err, "Unregistered entity.", `\entity{`, "therefore}")

	p.AddEntity("therefore")
	assert.Equal(t, "<mo>&therefore;</mo>", inner(t, p, `\entity{therefore}`, false))
	assert.Equal(t, []string{"therefore"}, p.Entities())

	_, err = p.Parse(`\entity`, false)
	requireParseError(t, err, "Need parameter.", `\entity`, "")
	assert.True(t, latex.IsKind(err, latex.KindNeedParameter))

	_, err = p.Parse(`\entity x`, false)
	requireParseError(t, err, "Unregistered entity.", `\entity `, "x")
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	p := latex.NewParser(latex.Options{MaxDepth: 3})
	assert.Equal(t, "<mrow><mrow><mi>a</mi></mrow></mrow>", inner(t, p, "{{a}}", false))

	src := "{{{{a}}}}"
	_, err := p.Parse(src, false)
	require.True(t, latex.IsKind(err, latex.KindTooDeep))

	var perr *latex.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Nesting too deep.", perr.Error())
	assert.Equal(t, src, perr.Done+perr.Rest)
}

func TestDefaultMaxDepth(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name    string
		src     string
		tooDeep bool
	}

	testCases := []testCase{
		{name: "200 groups", src: strings.Repeat("{", 200) + "a" + strings.Repeat("}", 200)},
		{name: "100 fractions", src: strings.Repeat(`\frac{`, 100) + "a" + strings.Repeat("}{b}", 100)},
		{name: "600 groups", src: strings.Repeat("{", 600) + "a" + strings.Repeat("}", 600), tooDeep: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := latex.NewParser(latex.Options{}).Parse(tc.src, false)
			if tc.tooDeep {
				assert.True(t, latex.IsKind(err, latex.KindTooDeep))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := defaultParser().ParseContext(ctx, "a+b", false)
	require.ErrorIs(t, err, context.Canceled)

	math, err := defaultParser().ParseContext(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, 0, math.Len())
}

func TestExtensions(t *testing.T) {
	t.Parallel()

	p := defaultParser()
	p.AddCommand("euler", func(_ *latex.Context, _ string) ([]mathml.Node, error) {
		mi := mathml.NewIdentifier(mathml.String("e"))
		mi.SetVariant(mathml.VariantNormal)
		return []mathml.Node{mi}, nil
	})
	p.AddCommand("twice", func(c *latex.Context, _ string) ([]mathml.Node, error) {
		n, err := c.ParseAny(latex.KindNeedParameter)
		if err != nil {
			return nil, err
		}
		return []mathml.Node{n, mathml.Clone(n)}, nil
	})
	p.AddEnvironment("pile", func(c *latex.Context, _ string) (mathml.Node, error) {
		row := mathml.NewRow()
		s := c.Scanner()
		for s.PeekCommand() != "end" && !s.EOS() {
			n, err := c.ParseAny(latex.KindSyntax)
			if err != nil {
				return nil, err
			}
			row.Append(n)
		}
		return row, nil
	})

	assert.Equal(t, "<mi mathvariant='normal'>e</mi><msup><mi>x</mi><mn>2</mn></msup>", inner(t, p, `\euler x^2`, false))
	assert.Equal(t, "<mi>a</mi><mi>a</mi>", inner(t, p, `\twice a`, false))
	assert.Equal(t, "<mrow><mi>a</mi><mn>1</mn></mrow>", inner(t, p, `\begin{pile}a1\end{pile}`, false))

	_, err := p.Parse(`\twice`, false)
	requireParseError(t, err, "Need parameter.", `\twice`, "")

	_, err = p.Parse(`\begin{pile}a`, false)
	requireParseError(t, err, `Matching \end not exist.`, `\begin{pile}a`, "")

	// A macro of the same name wins over a handler.
	require.NoError(t, p.Macro().Parse(`\newcommand{\euler}{E}`))
	assert.Equal(t, "<mi>E</mi>", inner(t, p, `\euler`, false))
}

func TestIsKind(t *testing.T) {
	t.Parallel()

	_, err := defaultParser().Parse(`\undefined`, false)
	assert.True(t, latex.IsKind(err, latex.KindUndefinedCommand))
	assert.False(t, latex.IsKind(err, latex.KindSyntax))
	assert.False(t, latex.IsKind(errors.New("other"), latex.KindSyntax))
	assert.Equal(t, "Undefined command", latex.KindUndefinedCommand.String())
}
