package latex_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/gomathml/pkg/latex"
	"github.com/yaklabco/gomathml/pkg/mathml"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"a_b^c",
		`\frac{1}{2}`,
		`\sqrt[3]{x}`,
		`\left(\frac12\right)`,
		`\begin{array}{|c|}a\\b\\\hline\end{array}`,
		`\begin{pmatrix}a&b\\c&d\end{pmatrix}`,
		`\mathbb{R}`,
		`a\hoge c`,
		`{{{`,
		`\sqrt[12`,
		`\begin{array}{c@{a_}c}x&y\end{array}`,
		`\left`,
		"a'''^b",
	}
	for _, seed := range seeds {
		f.Add(seed, false)
	}

	f.Fuzz(func(t *testing.T, src string, display bool) {
		p := latex.NewParser(latex.Options{MaxDepth: 64})
		math, err := p.Parse(src, display)
		if err != nil {
			var perr *latex.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if perr.Done+perr.Rest != src {
				t.Fatalf("done %q + rest %q != %q", perr.Done, perr.Rest, src)
			}
			return
		}
		_ = mathml.Serialize(math)
	})
}
