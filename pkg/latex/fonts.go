package latex

import (
	"github.com/yaklabco/gomathml/pkg/mathml"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// Font is the style applied to letters and numbers.
type Font uint8

const (
	FontNormal Font = iota
	FontRoman
	FontBold
	FontBoldItalic
	FontBlackboard
	FontScript
	FontFraktur
)

func (f Font) String() string {
	switch f {
	case FontRoman:
		return "roman"
	case FontBold:
		return "bold"
	case FontBoldItalic:
		return "bold-italic"
	case FontBlackboard:
		return "blackboard"
	case FontScript:
		return "script"
	case FontFraktur:
		return "fraktur"
	default:
		return "normal"
	}
}

// style maps the letter-substituting fonts to symbol styles.
func (f Font) style() (symbol.Style, bool) {
	switch f {
	case FontBlackboard:
		return symbol.DoubleStruck, true
	case FontScript:
		return symbol.Script, true
	case FontFraktur:
		return symbol.Fraktur, true
	default:
		return 0, false
	}
}

func (c *Context) letter(ch string) *mathml.Element {
	if style, ok := c.font.style(); ok {
		p := c.sess.parser
		if text, raw, ok := p.symbols.Letter(style, rune(ch[0]), p.encoding); ok {
			return mathml.NewIdentifier(&mathml.Text{Value: text, Raw: raw})
		}
	}

	mi := mathml.NewIdentifier(mathml.String(ch))
	switch c.font {
	case FontRoman:
		mi.SetVariant(mathml.VariantNormal)
	case FontBold:
		mi.SetVariant(mathml.VariantBold)
	case FontBoldItalic:
		mi.SetVariant(mathml.VariantBoldItalic)
	}
	return mi
}

func (c *Context) number(text string) *mathml.Element {
	mn := mathml.NewNumber(mathml.String(text))
	if c.font == FontBold {
		mn.SetVariant(mathml.VariantBold)
	}
	return mn
}

// fontSwitch changes the font of the current frame.
func fontSwitch(font Font) CommandFunc {
	return func(c *Context, _ string) ([]mathml.Node, error) {
		c.SetFont(font)
		return nil, nil
	}
}

// fontGroup parses the next unit in a font and wraps it in a row.
func fontGroup(font Font) CommandFunc {
	return func(c *Context, _ string) ([]mathml.Node, error) {
		n, err := c.parseAny(KindSyntax, font)
		if err != nil {
			return nil, err
		}
		return one(mathml.NewRow(n)), nil
	}
}
