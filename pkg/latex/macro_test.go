package latex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomathml/pkg/latex"
)

func parserWithMacros(t *testing.T, declarations string) func() *latex.Parser {
	t.Helper()

	return func() *latex.Parser {
		p := latex.NewParser(latex.Options{})
		require.NoError(t, p.Macro().Parse(declarations))
		return p
	}
}

func TestMacroExpansion(t *testing.T) {
	t.Parallel()

	p := parserWithMacros(t, `
\newcommand{\root}[2]{\sqrt[#1]{#2}}
\newcommand{\ROOT}[2]{\sqrt[#1]#2}
\newenvironment{braced}[2]{\left#1}{\right#2}
\newenvironment{sq}[2]{\sqrt[#2]{#1}}{\sqrt#2}
\newcommand{\R}{\mathbb R}
\newenvironment{BB}{\mathbb A}{\mathbb B}
`)

	runOutputCases(t, p, []outputCase{
		{src: `\root12`, want: "<mroot><mrow><mn>2</mn></mrow><mn>1</mn></mroot>"},
		{src: `\root{12}{34}`, want: "<mroot><mrow><mn>34</mn></mrow><mn>12</mn></mroot>"},
		{src: `\ROOT{12}{34}`, want: "<mroot><mn>3</mn><mn>12</mn></mroot><mn>4</mn>"},
		{
			src:  `\begin{braced}{|}{)}\frac12\end{braced}`,
			want: "<mfenced open='|' close=')'><mrow><mfrac><mn>1</mn><mn>2</mn></mfrac></mrow></mfenced>",
		},
		{
			src:  `\begin{sq}{12}{34}a\end{sq}`,
			want: "<mroot><mrow><mn>12</mn></mrow><mn>34</mn></mroot><mi>a</mi><msqrt><mn>3</mn></msqrt><mn>4</mn>",
		},
		{src: `\R`, want: "<mrow><mi>&Ropf;</mi></mrow>"},
		{src: `\begin{BB}\end{BB}`, want: "<mrow><mi>&Aopf;</mi></mrow><mrow><mi>&Bopf;</mi></mrow>"},
		{src: `x\R_1`, want: "<mi>x</mi><msub><mrow><mi>&Ropf;</mi></mrow><mn>1</mn></msub>"},
	})

	runErrorCases(t, p, []errorCase{
		{`\root`, `Error in macro(Need more parameter. "").`, "", `\root`},
		{`a\root1`, `Error in macro(Need more parameter. "").`, "a", `\root1`},
		{`\begin{braced}`, "Need more parameter.", `\begin{braced}`, ""},
		{`\begin{braced}123`, `Matching \end not exist.`, `\begin{braced}`, "123"},
		{`\begin{braced}123\end{brace}`, "Environment mismatched.", `\begin{braced}123\end`, "{brace}"},
	})
}

func TestMacroCircularReference(t *testing.T) {
	t.Parallel()

	p := parserWithMacros(t, `
\newcommand{\C}{\C}
\newenvironment{E}{\begin{E}}{\end{E}}
\newcommand{\D}{\begin{F}\end{F}}
\newenvironment{F}{\D}{}
`)

	runErrorCases(t, p, []errorCase{
		{`\C`, "Circular reference.", "", `\C`},
		{`\begin{E}\end{E}`, "Circular reference.", "", `\begin{E}\end{E}`},
		{`\D`, "Circular reference.", "", `\D`},
		{`\begin{F}\end{F}`, "Circular reference.", "", `\begin{F}\end{F}`},
		{`a \C b`, "Circular reference.", "a ", `\C b`},
	})
}

func TestMacroUndefinedCommand(t *testing.T) {
	t.Parallel()

	p := parserWithMacros(t, `
\newcommand{\C}{\dummy}
\newenvironment{E}{\dummy}{}
\newcommand{\N}{\C}
`)

	runErrorCases(t, p, []errorCase{
		{`\C`, `Error in macro(Undefined command. "\dummy").`, "", `\C`},
		{`\begin{E}\end{E}`, `Error in macro(Undefined command. "\dummy").`, "", `\begin{E}\end{E}`},
		{`\N`, `Error in macro(Undefined command. "\dummy").`, "", `\N`},
	})

	// The session stacks are unwound after a failure.
	parser := p()
	_, err := parser.Parse(`\C`, false)
	require.Error(t, err)
	_, err = parser.Parse(`\C`, false)
	require.True(t, latex.IsKind(err, latex.KindMacro))
}

func TestMacroOptions(t *testing.T) {
	t.Parallel()

	p := parserWithMacros(t, `
\newcommand{\opt}[1][x]{#1}
\newcommand{\optparam}[2][]{#1#2}
\newenvironment{newenv}[1][x]{#1}{#1}
\newenvironment{optenv}[2][]{#1}{#2}
`)

	runOutputCases(t, p, []outputCase{
		{src: `\opt a`, want: "<mi>x</mi><mi>a</mi>"},
		{src: `\opt[0] a`, want: "<mn>0</mn><mi>a</mi>"},
		{src: `\optparam a`, want: "<mi>a</mi>"},
		{src: `\optparam[0] a`, want: "<mn>0</mn><mi>a</mi>"},
		{src: `\begin{newenv}a\end{newenv}`, want: "<mi>x</mi><mi>a</mi><mi>x</mi>"},
		{src: `\begin{newenv}[0]a\end{newenv}`, want: "<mn>0</mn><mi>a</mi><mn>0</mn>"},
		{src: `\begin{optenv}0a\end{optenv}`, want: "<mi>a</mi><mn>0</mn>"},
		{src: `\begin{optenv}[0]1a\end{optenv}`, want: "<mn>0</mn><mi>a</mi><mn>1</mn>"},
	})
}

func TestMacroKeepsFont(t *testing.T) {
	t.Parallel()

	p := parserWithMacros(t, `\newcommand{\pair}{ab}`)
	runOutputCases(t, p, []outputCase{
		{src: `{\bf \pair}`, want: "<mrow><mi mathvariant='bold'>a</mi><mi mathvariant='bold'>b</mi></mrow>"},
	})
}
