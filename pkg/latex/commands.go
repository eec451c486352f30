package latex

import (
	"strings"

	"github.com/yaklabco/gomathml/pkg/mathml"
)

// Accent entities placed over or under the next unit.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	overs = map[string]string{
		"hat":       "circ",
		"breve":     "smile",
		"grave":     "grave",
		"acute":     "acute",
		"dot":       "sdot",
		"ddot":      "nldr",
		"dddot":     "mldr",
		"tilde":     "tilde",
		"bar":       "macr",
		"vec":       "rightarrow",
		"check":     "vee",
		"widehat":   "circ",
		"overline":  "macr",
		"widetilde": "tilde",
		"overbrace": "OverBrace",
	}
	unders = map[string]string{
		"underbrace": "UnderBrace",
		"underline":  "macr",
	}
	spaces = map[string]string{
		" ":     "1em",
		"quad":  "1em",
		"qquad": "2em",
		",":     "0.167em",
		":":     "0.222em",
		";":     "0.278em",
		"!":     "-0.167em",
	}
)

// builtinCommands returns a fresh handler table.
func builtinCommands() map[string]CommandFunc {
	commands := map[string]CommandFunc{
		`\`:        lineBreak,
		"entity":   entityCommand,
		"stackrel": stackrel,
		"frac":     frac,
		"sqrt":     sqrt,
		"mbox":     mbox,
		"begin":    beginGroup,
		"left":     fencedGroup,
		"bigg":     fencedGroup,

		"rm": fontSwitch(FontRoman),
		"bf": fontSwitch(FontBold),
		"it": fontSwitch(FontNormal),

		"mathrm":   fontGroup(FontRoman),
		"mathbf":   fontGroup(FontBold),
		"mathit":   fontGroup(FontNormal),
		"bm":       fontGroup(FontBoldItalic),
		"mathbb":   fontGroup(FontBlackboard),
		"mathscr":  fontGroup(FontScript),
		"mathfrak": fontGroup(FontFraktur),
	}
	for name := range spaces {
		commands[name] = space
	}
	for name := range overs {
		commands[name] = accent
	}
	for name := range unders {
		commands[name] = accent
	}
	return commands
}

func lineBreak(c *Context, _ string) ([]mathml.Node, error) {
	if c.Display() {
		return nil, nil
	}
	return one(mathml.NewBreak()), nil
}

func space(_ *Context, name string) ([]mathml.Node, error) {
	return one(mathml.NewSpace(spaces[name])), nil
}

func accent(c *Context, name string) ([]mathml.Node, error) {
	base, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	if entity, ok := overs[name]; ok {
		return one(mathml.NewOver(base, mathml.NewOperator(c.Entity(entity)))), nil
	}
	return one(mathml.NewUnder(base, mathml.NewOperator(c.Entity(unders[name])))), nil
}

func frac(c *Context, _ string) ([]mathml.Node, error) {
	numerator, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	denominator, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	return one(mathml.NewFrac(numerator, denominator)), nil
}

// stackrel puts its first argument over its second.
func stackrel(c *Context, _ string) ([]mathml.Node, error) {
	over, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	base, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	return one(mathml.NewOver(base, over)), nil
}

func sqrt(c *Context, _ string) ([]mathml.Node, error) {
	s := c.s
	_, ok, err := s.ScanOption()
	if err != nil {
		return nil, err
	}
	if !ok {
		base, err := c.parseAny(KindSyntax, c.font)
		if err != nil {
			return nil, err
		}
		return one(mathml.NewSqrt(base)), nil
	}

	row := mathml.NewRow()
	if err := c.parseFrame(s.Group(1), row, c.font, "]"); err != nil {
		return nil, err
	}
	base, err := c.parseAny(KindSyntax, c.font)
	if err != nil {
		return nil, err
	}
	return one(mathml.NewRoot(single(row), base)), nil
}

func mbox(c *Context, _ string) ([]mathml.Node, error) {
	text, _, err := c.argument(KindSyntax)
	if err != nil {
		return nil, err
	}
	return one(mathml.NewMText(text)), nil
}

// argument returns the inner text of a block or the next unit verbatim.
// block reports which of the two was found.
func (c *Context) argument(missing ErrorKind) (text string, block bool, err error) {
	s := c.s
	_, ok, err := s.ScanBlock()
	if err != nil {
		return "", false, err
	}
	if ok {
		return s.Group(1), true, nil
	}
	unit, ok, err := s.ScanAny(false)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, newError(missing)
	}
	return unit, false, nil
}

// entityCommand writes a named entity. Unless the parser is unsecure,
// only whitelisted names are accepted.
func entityCommand(c *Context, _ string) ([]mathml.Node, error) {
	s := c.s
	param, block, err := c.argument(KindNeedParameter)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(param)
	p := c.sess.parser
	if _, ok := p.entities[name]; !ok && !p.unsecureEntity {
		back := len(param)
		if block {
			back = len(strings.TrimLeft(param, " \t\r\n")) + len("}")
		}
		s.SetPos(s.Pos() - back)
		return nil, newError(KindUnregisteredEntity)
	}
	return one(mathml.NewOperator(c.Entity(name))), nil
}
