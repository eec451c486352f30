package latex

import (
	"strings"

	"github.com/yaklabco/gomathml/pkg/latex/scanner"
	"github.com/yaklabco/gomathml/pkg/mathml"
	"github.com/yaklabco/gomathml/pkg/symbol"
)

// Context is one parse frame: a scanner, the container receiving parsed
// elements, and the active font. Frames that share a scanner, such as
// table cells and \left groups, share a position too.
type Context struct {
	sess      *session
	s         *scanner.Scanner
	container *mathml.Element
	font      Font
}

// Scanner returns the frame's scanner.
func (c *Context) Scanner() *scanner.Scanner {
	return c.s
}

// Display reports whether the parse renders in display mode.
func (c *Context) Display() bool {
	return c.sess.display
}

// Font returns the active font.
func (c *Context) Font() Font {
	return c.font
}

// SetFont switches the font until the frame ends.
func (c *Context) SetFont(f Font) {
	c.font = f
}

// Fail returns an error of the given kind at the current position.
func (c *Context) Fail(kind ErrorKind) error {
	return newError(kind)
}

// Entity renders a named entity in the parser's encoding.
func (c *Context) Entity(name string) *mathml.Text {
	text, raw := c.sess.parser.symbols.Entity(name, c.sess.parser.encoding)
	return &mathml.Text{Value: text, Raw: raw}
}

// ParseAny parses the next unit as one element. A missing unit fails with
// the given kind.
func (c *Context) ParseAny(missing ErrorKind) (mathml.Node, error) {
	return c.parseAny(missing, c.font)
}

// ParseInto parses src with a fresh scanner and appends the result to
// container.
func (c *Context) ParseInto(src string, container *mathml.Element) error {
	return c.parseFrame(src, container, c.font, "")
}

// share returns a frame on the same scanner with its own container.
func (c *Context) share(container *mathml.Element) *Context {
	return &Context{sess: c.sess, s: c.s, container: container, font: c.font}
}

// own finishes an error leaving a frame that owns its scanner: scanner
// errors become parse errors and the unconsumed source of this frame,
// followed by closer, is appended to the rest.
func (c *Context) own(err error, closer string) error {
	perr, ok := asParseError(err)
	if !ok {
		return err
	}
	perr.Rest += c.s.Rest() + closer
	return perr
}

// parseFrame parses all of src into container. closer is the source text
// that ends the frame in the enclosing scanner.
func (c *Context) parseFrame(src string, container *mathml.Element, font Font, closer string) error {
	inner := &Context{sess: c.sess, s: scanner.New(src), container: container, font: font}
	for !inner.s.EOS() {
		nodes, err := inner.parseElement()
		if err != nil {
			return inner.own(err, closer)
		}
		container.Append(nodes...)
	}
	return nil
}

// parseAny scans one unit and parses it alone.
func (c *Context) parseAny(missing ErrorKind, font Font) (mathml.Node, error) {
	unit, ok, err := c.s.ScanAny(false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newError(missing)
	}
	row := mathml.NewRow()
	if err := c.parseFrame(unit, row, font, ""); err != nil {
		return nil, err
	}
	return single(row), nil
}

// single unwraps a row holding exactly one element.
func single(row *mathml.Element) mathml.Node {
	if row.Len() == 1 {
		return row.Children()[0]
	}
	return row
}

func (c *Context) parseBlock(src string) ([]mathml.Node, error) {
	row := mathml.NewRow()
	if err := c.parseFrame(src, row, c.font, "}"); err != nil {
		return nil, err
	}
	return []mathml.Node{row}, nil
}

// parseElement parses the next element of the frame.
func (c *Context) parseElement() ([]mathml.Node, error) {
	sess := c.sess
	sess.depth++
	defer func() { sess.depth-- }()
	if sess.depth > sess.parser.maxDepth {
		return nil, newError(KindTooDeep)
	}

	s := c.s
	if m, ok := s.Scan(numberRE); ok {
		return one(c.number(m)), nil
	}
	if m, ok := s.Scan(letterRE); ok {
		return one(c.letter(m)), nil
	}
	if m, ok := s.Scan(operatorRE); ok {
		return one(operator(mathml.String(m))), nil
	}

	_, ok, err := s.ScanBlock()
	if err != nil {
		return nil, err
	}
	if ok {
		return c.parseBlock(s.Group(1))
	}

	if _, ok := s.Scan(subRE); ok {
		return c.parseSub()
	}
	if m, ok := s.Scan(supRE); ok {
		return c.parseSup(m)
	}
	if _, ok := s.Scan(tildeRE); ok {
		return one(mathml.NewSpace("1em")), nil
	}
	if _, ok := s.ScanCommand(); ok {
		return c.parseCommand(s.Group(1))
	}
	return nil, newError(KindSyntax)
}

func one(n mathml.Node) []mathml.Node {
	return []mathml.Node{n}
}

// operator returns a non-stretchy mo.
func operator(text *mathml.Text) *mathml.Element {
	mo := mathml.NewOperator(text)
	mo.SetAttr("stretchy", "false")
	return mo
}

// base pops the element a script attaches to.
func (c *Context) base() *mathml.SubSup {
	popped := c.container.Pop()
	if ss, ok := popped.(*mathml.SubSup); ok {
		return ss
	}
	if popped == nil {
		popped = mathml.NewNone()
	}
	return mathml.NewSubSup(c.sess.display && mathml.IsDisplayStyle(popped), popped)
}

func (c *Context) parseSub() ([]mathml.Node, error) {
	ss := c.base()
	if ss.Sub() != nil {
		c.s.SetPos(c.s.Pos() - len("_"))
		return nil, newError(KindDoubleSubscript)
	}
	sub, err := c.parseAny(KindMissingSubscript, c.font)
	if err != nil {
		return nil, err
	}
	ss.SetSub(sub)
	return one(ss), nil
}

// parseSup handles ^ and runs of primes. Primes become one operator and
// may be followed by ^ for the rest of the superscript.
func (c *Context) parseSup(mark string) ([]mathml.Node, error) {
	ss := c.base()
	if ss.Sup() != nil {
		c.s.SetPos(c.s.Pos() - len(mark))
		return nil, newError(KindDoubleSuperscript)
	}

	if mark == "^" {
		sup, err := c.parseAny(KindMissingSuperscript, c.font)
		if err != nil {
			return nil, err
		}
		ss.SetSup(sup)
		return one(ss), nil
	}

	prime := c.Entity("prime")
	prime.Value = strings.Repeat(prime.Value, len(mark))
	var sup mathml.Node = mathml.NewOperator(prime)
	if _, ok := c.s.Scan(caretRE); ok {
		next, err := c.parseAny(KindMissingSuperscript, c.font)
		if err != nil {
			return nil, err
		}
		sup = mathml.NewRow(sup, next)
	}
	ss.SetSup(sup)
	return one(ss), nil
}

// parseCommand resolves a command name: macros first, then handlers, then
// the symbol table.
func (c *Context) parseCommand(name string) ([]mathml.Node, error) {
	start := c.s.Pos() - len(c.s.Matched())
	p := c.sess.parser
	if cmd, ok := p.macros.Command(name); ok {
		return c.expandCommand(cmd, start)
	}
	if fn, ok := p.commands[name]; ok {
		return fn(c, name)
	}

	entry, ok := p.symbols.Lookup(name)
	if !ok {
		c.s.SetPos(start)
		return nil, newError(KindUndefinedCommand)
	}
	node := c.symbol(entry)
	if node == nil {
		return nil, nil
	}
	return one(node), nil
}

// symbol builds the element for a symbol table entry, or nil for entries
// that produce nothing.
func (c *Context) symbol(entry symbol.Entry) *mathml.Element {
	p := c.sess.parser
	text, raw := p.symbols.Render(entry.Payload, p.encoding)
	value := &mathml.Text{Value: text, Raw: raw}

	var e *mathml.Element
	switch entry.Kind {
	case symbol.KindIdentifier:
		e = mathml.NewIdentifier(value)
		if entry.Upright {
			e.SetVariant(mathml.VariantNormal)
		}
	case symbol.KindOperator:
		e = operator(value)
	case symbol.KindNumber:
		e = mathml.NewNumber(value)
	default:
		return nil
	}
	if entry.Display {
		e.AsDisplayStyle()
	}
	return e
}
